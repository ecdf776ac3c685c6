package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/vvka-141/ddlcheck/internal/logging"
	"github.com/vvka-141/ddlcheck/internal/retry"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// Pool limits. Validation holds one dedicated connection; the rest serve pings.
const (
	DefaultMaxOpenConns    = 4
	DefaultMaxIdleConns    = 1
	DefaultConnMaxIdleTime = 30 * time.Minute
)

// openFunc opens a handle for a driver config without dialing.
type openFunc func(mc *mysql.Config) (*sql.DB, error)

func openMySQL(mc *mysql.Config) (*sql.DB, error) {
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(DefaultMaxOpenConns)
	db.SetMaxIdleConns(DefaultMaxIdleConns)
	db.SetConnMaxIdleTime(DefaultConnMaxIdleTime)
}

func newRetryExecutor(logger ddlcheck.Logger) *retry.Executor {
	strategy := retry.NewExponentialBackoff(ddlcheck.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(ddlcheck.DefaultRetryInitialDelay),
		retry.WithMaxDelay(ddlcheck.DefaultRetryMaxDelay),
	)
	return retry.NewExecutor(retry.NewMySQLErrorClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Verbose("connection attempt %d failed, retrying in %v: %v", attempt+1, delay, err)
		})
}

// dial opens and pings a handle under the retry executor.
func dial(ctx context.Context, executor *retry.Executor, open openFunc, mc *mysql.Config, cfg *ddlcheck.ConnectionConfig) (*sql.DB, error) {
	var db *sql.DB
	err := executor.Execute(ctx, func(ctx context.Context) error {
		handle, err := open(mc)
		if err != nil {
			return fmt.Errorf("failed to open connection: %w", err)
		}
		configurePool(handle)

		if err := handle.PingContext(ctx); err != nil {
			handle.Close()
			return wrapConnectionError(err, cfg)
		}
		db = handle
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ddlcheck.ErrConnectionFailed, err)
	}
	return db, nil
}

// StandardConnector connects with username and password, retrying
// transient failures.
type StandardConnector struct {
	config        *ddlcheck.ConnectionConfig
	retryExecutor *retry.Executor
	open          openFunc
}

// NewStandardConnector creates a StandardConnector using the ddlcheck retry
// defaults: DefaultRetryMaxAttempts retries with exponential backoff from
// DefaultRetryInitialDelay up to DefaultRetryMaxDelay.
func NewStandardConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) *StandardConnector {
	return &StandardConnector{
		config:        config,
		retryExecutor: newRetryExecutor(logging.OrNull(logger)),
		open:          openMySQL,
	}
}

// Connect opens a verified handle using standard authentication.
func (c *StandardConnector) Connect(ctx context.Context) (*sql.DB, error) {
	mc, err := BuildDriverConfig(c.config)
	if err != nil {
		return nil, err
	}
	return dial(ctx, c.retryExecutor, c.open, mc, c.config)
}

// NewConnector is a factory function that creates the appropriate Connector
// based on the ConnectionConfig's AuthMethod.
func NewConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) (ddlcheck.Connector, error) {
	logger = logging.OrNull(logger)
	switch config.AuthMethod {
	case ddlcheck.AuthMethodStandard:
		return NewStandardConnector(config, logger), nil
	case ddlcheck.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case ddlcheck.AuthMethodGoogleIAM:
		return newGoogleConnector(config, logger)
	case ddlcheck.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, ddlcheck.ErrUnsupportedAuthMethod)
	}
}

func newAWSConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) (ddlcheck.Connector, error) {
	endpoint := fmt.Sprintf("%s:%d", config.Host, config.Port)
	provider, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, config.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS IAM token provider: %w", err)
	}
	return NewTokenBasedConnector(config, provider, "AWS IAM", logger), nil
}

func newGoogleConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) (ddlcheck.Connector, error) {
	if config.GoogleInstance == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires --google-instance (project:region:instance): %w",
			ddlcheck.ErrConfigurationInvalid)
	}
	if config.Username == "" {
		return nil, fmt.Errorf("Google Cloud SQL IAM auth requires username (-u): %w", ddlcheck.ErrConfigurationInvalid)
	}
	return NewGoogleCloudSQLConnector(config, logger), nil
}

// newAzureConnector uses Service Principal auth when tenant, client and
// secret are all set, and DefaultAzureCredential otherwise.
func newAzureConnector(config *ddlcheck.ConnectionConfig, logger ddlcheck.Logger) (ddlcheck.Connector, error) {
	var (
		provider TokenProvider
		err      error
	)
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		provider, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		provider, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure token provider: %w", err)
	}
	return NewTokenBasedConnector(config, provider, "Azure", logger), nil
}

// wrapConnectionError adds actionable guidance to raw driver errors.
func wrapConnectionError(err error, cfg *ddlcheck.ConnectionConfig) error {
	errStr := strings.ToLower(err.Error())
	addr := cfg.Target()

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - MySQL is not running (check: mysqladmin ping -h %s -P %d)
  - Wrong host or port
  - Firewall blocking the connection

Original error: %w`, addr, cfg.Host, cfg.Port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, cfg.Host, err)

	case strings.Contains(errStr, "access denied"):
		if cfg.AuthMethod == ddlcheck.AuthMethodStandard && cfg.Password == "" {
			return fmt.Errorf(`access denied for user "%s" at %s

No password was given; the account probably requires one
(set $MYSQL_PWD, --password or the alias in ddlcheck.yaml).

Original error: %w`, cfg.Username, addr, err)
		}
		return fmt.Errorf(`access denied for user "%s" at %s

Possible causes:
  - Wrong password (check $MYSQL_PWD, --password or the alias in ddlcheck.yaml)
  - The account is not allowed to connect from this host
  - Cloud IAM user not created WITH the provider's authentication plugin

Original error: %w`, cfg.Username, addr, err)

	case strings.Contains(errStr, "unknown database"):
		return fmt.Errorf(`database "%s" does not exist on %s

Original error: %w`, cfg.Database, addr, err)

	case strings.Contains(errStr, "too many connections"):
		return fmt.Errorf(`too many connections to %s

Possible causes:
  - max_connections reached on the server
  - Idle connections held by other clients

Try: SHOW PROCESSLIST;

Original error: %w`, addr, err)

	case strings.Contains(errStr, "x509") || strings.Contains(errStr, "tls") || strings.Contains(errStr, "ssl"):
		return fmt.Errorf(`TLS connection error to %s

Possible causes:
  - Server does not support TLS but --tls is set
  - Certificate verification failed (try --tls-ca or --tls=skip-verify)

Original error: %w`, addr, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets
  - Wrong host/port (server not listening)

Original error: %w`, addr, err)

	default:
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
}
