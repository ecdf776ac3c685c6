package db

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/vvka-141/ddlcheck/internal/config"
	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ConnFlags represents connection parameters from CLI flags.
type ConnFlags struct {
	Host           string
	Port           int
	Username       string
	Password       string
	Charset        string
	TLS            string
	TLSCA          string
	AuthMethod     string
	AWSRegion      string
	GoogleInstance string
	AzureTenantID  string
	AzureClientID  string
	ConnectTimeout time.Duration
}

// IsEmpty returns true if no connection-related flags were provided.
func (f *ConnFlags) IsEmpty() bool {
	return f == nil || *f == ConnFlags{}
}

// EnvVars holds connection settings read from the environment.
// DDLCHECK_* variables take precedence over the MySQL client's MYSQL_* names.
type EnvVars struct {
	Host       string // DDLCHECK_HOST, MYSQL_HOST
	Port       string // DDLCHECK_PORT, MYSQL_TCP_PORT
	User       string // DDLCHECK_USER, MYSQL_USER
	Password   string // DDLCHECK_PASSWORD, MYSQL_PWD
	Charset    string // DDLCHECK_CHARSET
	TLS        string // DDLCHECK_TLS
	URL        string // DDLCHECK_URL, DATABASE_URL
	AuthMethod string // DDLCHECK_AUTH_METHOD
	AWSRegion  string // AWS_REGION

	// Azure SDK standard names
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// LoadFromEnvironment reads EnvVars from the process environment.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		Host:              firstEnv("DDLCHECK_HOST", "MYSQL_HOST"),
		Port:              firstEnv("DDLCHECK_PORT", "MYSQL_TCP_PORT"),
		User:              firstEnv("DDLCHECK_USER", "MYSQL_USER"),
		Password:          firstEnv("DDLCHECK_PASSWORD", "MYSQL_PWD"),
		Charset:           os.Getenv("DDLCHECK_CHARSET"),
		TLS:               os.Getenv("DDLCHECK_TLS"),
		URL:               firstEnv("DDLCHECK_URL", "DATABASE_URL"),
		AuthMethod:        os.Getenv("DDLCHECK_AUTH_METHOD"),
		AWSRegion:         os.Getenv("AWS_REGION"),
		AzureTenantID:     os.Getenv("AZURE_TENANT_ID"),
		AzureClientID:     os.Getenv("AZURE_CLIENT_ID"),
		AzureClientSecret: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// Sources gathers every place a connection parameter can come from.
type Sources struct {
	// ConnString is the --connection flag (URI or DSN).
	ConnString string
	// Alias names a ddlcheck.yaml entry. Empty uses ddlcheck.DefaultAlias
	// when the config defines it.
	Alias   string
	Flags   *ConnFlags
	Env     *EnvVars
	Project *config.ProjectConfig
}

// ResolveConnectionParams merges all sources, highest precedence first:
//
//  1. CLI flags
//  2. Environment variables
//  3. Connection string (--connection, then DDLCHECK_URL / DATABASE_URL)
//  4. Config alias
//  5. Defaults (localhost:3306, root, utf8mb4)
//
// The result is validated; missing or malformed parameters are
// ddlcheck.ErrConfigurationInvalid.
func ResolveConnectionParams(src Sources) (*ddlcheck.ConnectionConfig, error) {
	env := src.Env
	if env == nil {
		env = &EnvVars{}
	}
	flags := src.Flags
	if flags == nil {
		flags = &ConnFlags{}
	}

	cfg, err := aliasLayer(src.Project, src.Alias)
	if err != nil {
		return nil, err
	}

	connStr := src.ConnString
	if connStr == "" {
		connStr = env.URL
	}
	if connStr != "" {
		parsed, err := ParseConnectionString(connStr)
		if err != nil {
			return nil, fmt.Errorf("invalid connection string: %w", err)
		}
		overlay(cfg, parsed)
	}

	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}
	if err := applyFlags(cfg, flags); err != nil {
		return nil, err
	}

	if cfg.AuthMethod == ddlcheck.AuthMethodAzureEntraID || flags.AzureTenantID != "" || flags.AzureClientID != "" {
		cfg.AuthMethod = ddlcheck.AuthMethodAzureEntraID
		cfg.AzureTenantID = firstNonEmpty(flags.AzureTenantID, cfg.AzureTenantID, env.AzureTenantID)
		cfg.AzureClientID = firstNonEmpty(flags.AzureClientID, cfg.AzureClientID, env.AzureClientID)
		// no flag for the secret
		cfg.AzureClientSecret = env.AzureClientSecret
	}

	cfg.ApplyDefaults()
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = ddlcheck.DefaultConnectTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func aliasLayer(project *config.ProjectConfig, alias string) (*ddlcheck.ConnectionConfig, error) {
	explicit := alias != ""
	if !explicit {
		alias = ddlcheck.DefaultAlias
		if project == nil || project.Databases == nil {
			return &ddlcheck.ConnectionConfig{}, nil
		}
		if _, ok := project.Databases[alias]; !ok {
			return &ddlcheck.ConnectionConfig{}, nil
		}
	}
	cfg, err := project.Connection(alias)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// overlay copies the non-zero fields of src onto dst.
func overlay(dst, src *ddlcheck.ConnectionConfig) {
	setString(&dst.Host, src.Host)
	setString(&dst.Username, src.Username)
	setString(&dst.Password, src.Password)
	setString(&dst.Charset, src.Charset)
	setString(&dst.Database, src.Database)
	setString(&dst.TLS, src.TLS)
	setString(&dst.TLSCA, src.TLSCA)
	if src.Port != 0 {
		dst.Port = src.Port
	}
	if src.ConnectTimeout != 0 {
		dst.ConnectTimeout = src.ConnectTimeout
	}
	if src.AuthMethod != ddlcheck.AuthMethodStandard {
		dst.AuthMethod = src.AuthMethod
	}
	for k, v := range src.AdditionalParams {
		if dst.AdditionalParams == nil {
			dst.AdditionalParams = make(map[string]string)
		}
		dst.AdditionalParams[k] = v
	}
}

func applyEnv(cfg *ddlcheck.ConnectionConfig, env *EnvVars) error {
	setString(&cfg.Host, env.Host)
	setString(&cfg.Username, env.User)
	setString(&cfg.Password, env.Password)
	setString(&cfg.Charset, env.Charset)
	setString(&cfg.TLS, env.TLS)
	setString(&cfg.AWSRegion, env.AWSRegion)
	if env.Port != "" {
		port, err := strconv.Atoi(env.Port)
		if err != nil {
			return fmt.Errorf("invalid port %q in environment: must be an integer: %w", env.Port, ddlcheck.ErrConfigurationInvalid)
		}
		cfg.Port = port
	}
	return applyAuthMethod(cfg, env.AuthMethod)
}

func applyFlags(cfg *ddlcheck.ConnectionConfig, flags *ConnFlags) error {
	setString(&cfg.Host, flags.Host)
	setString(&cfg.Username, flags.Username)
	setString(&cfg.Password, flags.Password)
	setString(&cfg.Charset, flags.Charset)
	setString(&cfg.TLS, flags.TLS)
	setString(&cfg.TLSCA, flags.TLSCA)
	setString(&cfg.AWSRegion, flags.AWSRegion)
	setString(&cfg.GoogleInstance, flags.GoogleInstance)
	if flags.Port != 0 {
		cfg.Port = flags.Port
	}
	if flags.ConnectTimeout != 0 {
		cfg.ConnectTimeout = flags.ConnectTimeout
	}
	return applyAuthMethod(cfg, flags.AuthMethod)
}

func applyAuthMethod(cfg *ddlcheck.ConnectionConfig, name string) error {
	if name == "" {
		return nil
	}
	method, err := ddlcheck.ParseAuthMethod(name)
	if err != nil {
		return err
	}
	cfg.AuthMethod = method
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
