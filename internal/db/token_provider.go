package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
type TokenProvider interface {
	// GetToken returns a short-lived token used as the MySQL password.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. It must not include secrets.
	String() string
}

// AzureMySQLScope is the OAuth scope for Azure Database for MySQL.
const AzureMySQLScope = "https://ossrdbms-aad.database.windows.net/.default"
