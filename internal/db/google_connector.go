package db

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"sync"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/internal/retry"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// GoogleCloudSQLConnector connects to Cloud SQL for MySQL with IAM database
// authentication through the Cloud SQL Go Connector. The dialer handles TLS
// and the IAM login token.
//
// Implements io.Closer: call Close() after the handle returned by Connect
// is closed to release the dialer.
type GoogleCloudSQLConnector struct {
	config        *ddlcheck.ConnectionConfig
	retryExecutor *retry.Executor
	open          openFunc
	newDialer     func(ctx context.Context) (*cloudsqlconn.Dialer, error)

	mu     sync.Mutex
	dialer *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for config.GoogleInstance.
func NewGoogleCloudSQLConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{
		config:        config,
		retryExecutor: newRetryExecutor(logging.OrNull(logger)),
		open:          openMySQL,
		newDialer: func(ctx context.Context) (*cloudsqlconn.Dialer, error) {
			return cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
		},
	}
}

// dialNetwork names the driver network registered for an instance.
func dialNetwork(instance string) string {
	return "cloudsql-" + strings.NewReplacer(":", "-", "/", "-").Replace(instance)
}

// Connect registers the Cloud SQL dialer with the MySQL driver and opens a
// verified handle.
func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*sql.DB, error) {
	dialer, err := c.newDialer(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Cloud SQL dialer: %w", ddlcheck.ErrConnectionFailed, err)
	}

	instance := c.config.GoogleInstance
	network := dialNetwork(instance)
	mysql.RegisterDialContext(network, func(ctx context.Context, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	})

	mc, err := c.driverConfig(network)
	if err != nil {
		dialer.Close()
		return nil, err
	}

	db, err := dial(ctx, c.retryExecutor, c.open, mc, c.config)
	if err != nil {
		dialer.Close()
		return nil, err
	}

	c.mu.Lock()
	if c.dialer != nil {
		c.dialer.Close()
	}
	c.dialer = dialer
	c.mu.Unlock()
	return db, nil
}

func (c *GoogleCloudSQLConnector) driverConfig(network string) (*mysql.Config, error) {
	cfg := *c.config
	cfg.Host = "localhost"
	cfg.Port = ddlcheck.DefaultPort
	cfg.Password = ""
	cfg.TLS = ""
	cfg.TLSCA = ""

	mc, err := BuildDriverConfig(&cfg)
	if err != nil {
		return nil, err
	}
	mc.Net = network
	mc.AllowCleartextPasswords = true
	return mc, nil
}

// Close releases the Cloud SQL dialer.
func (c *GoogleCloudSQLConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialer != nil {
		c.dialer.Close()
		c.dialer = nil
	}
	return nil
}
