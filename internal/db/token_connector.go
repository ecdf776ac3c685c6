package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/internal/retry"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// tokenExpiryWarning triggers a warning when a fresh token is about to lapse.
const tokenExpiryWarning = 5 * time.Minute

// TokenBasedConnector authenticates with short-lived tokens (AWS IAM,
// Azure Entra ID). A token is fetched for every new physical connection and
// sent as a cleartext password, so TLS is enabled unless configured otherwise.
type TokenBasedConnector struct {
	config        *ddlcheck.ConnectionConfig
	tokenProvider TokenProvider
	providerName  string
	logger        ddlcheck.Logger
	retryExecutor *retry.Executor
	open          openFunc
}

// NewTokenBasedConnector creates a connector that uses a TokenProvider for authentication.
// providerName is used in error/warning messages (e.g., "AWS IAM", "Azure").
func NewTokenBasedConnector(config *ddlcheck.ConnectionConfig, tokenProvider TokenProvider, providerName string, logger ddlcheck.Logger) *TokenBasedConnector {
	logger = logging.OrNull(logger)
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		retryExecutor: newRetryExecutor(logger),
		open:          openMySQL,
	}
}

// Connect opens a verified handle, authenticating each connection with a fresh token.
func (c *TokenBasedConnector) Connect(ctx context.Context) (*sql.DB, error) {
	mc, err := c.driverConfig()
	if err != nil {
		return nil, err
	}
	return dial(ctx, c.retryExecutor, c.open, mc, c.config)
}

func (c *TokenBasedConnector) driverConfig() (*mysql.Config, error) {
	mc, err := BuildDriverConfig(c.config)
	if err != nil {
		return nil, err
	}
	mc.AllowCleartextPasswords = true
	if mc.TLSConfig == "" {
		mc.TLSConfig = "true"
	}
	if err := mc.Apply(mysql.BeforeConnect(c.injectToken)); err != nil {
		return nil, fmt.Errorf("configure %s token refresh: %w", c.providerName, err)
	}
	return mc, nil
}

func (c *TokenBasedConnector) injectToken(ctx context.Context, mc *mysql.Config) error {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}
	if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning {
		c.logger.Warn("%s token expires in %v", c.providerName, remaining.Round(time.Second))
	}
	c.logger.Verbose("acquired %s token from %s", c.providerName, c.tokenProvider)
	mc.Passwd = token
	return nil
}
