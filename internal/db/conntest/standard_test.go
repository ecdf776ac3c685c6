//go:build conntest

package conntest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddlcheck/internal/db"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

func TestStandardConnection_UserPassword(t *testing.T) {
	handle := connectWithConfig(t, stdContainer.ConnectionConfig())
	assert.Regexp(t, `^8\.`, queryVersion(t, handle))
}

func TestStandardConnection_WrongPassword(t *testing.T) {
	config := stdContainer.ConnectionConfig()
	config.Password = "definitely-wrong-password"

	connector, err := db.NewConnector(config, nil)
	require.NoError(t, err)

	_, err = connector.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ddlcheck.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "access denied")
}

func TestStandardConnection_DSNRoundTrip(t *testing.T) {
	dsn, err := db.BuildDSN(stdContainer.ConnectionConfig())
	require.NoError(t, err)

	parsed, err := db.ParseConnectionString(dsn)
	require.NoError(t, err)

	handle := connectWithConfig(t, parsed)
	var charset string
	require.NoError(t, handle.QueryRow("SELECT @@character_set_client").Scan(&charset))
	assert.Equal(t, "utf8mb4", charset)
}
