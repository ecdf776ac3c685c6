//go:build conntest

package conntest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddlcheck/internal/db"
)

func TestTLS_VerifiedWithCustomCA(t *testing.T) {
	config := tlsContainer.ConnectionConfig()
	config.TLSCA = certPaths.CACert

	handle := connectWithConfig(t, config)

	var name, cipher string
	require.NoError(t, handle.QueryRow("SHOW SESSION STATUS LIKE 'Ssl_cipher'").Scan(&name, &cipher))
	assert.NotEmpty(t, cipher)
}

func TestTLS_PlaintextRejected(t *testing.T) {
	connector, err := db.NewConnector(tlsContainer.ConnectionConfig(), nil)
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	assert.Error(t, err)
}

func TestTLS_UnknownCARejected(t *testing.T) {
	config := tlsContainer.ConnectionConfig()
	config.TLS = "true"

	connector, err := db.NewConnector(config, nil)
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TLS connection error")
}
