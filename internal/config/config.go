package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// DatabaseConfig is one named connection entry.
type DatabaseConfig struct {
	Host           string `yaml:"host,omitempty" toml:"host,omitempty"`
	Port           int    `yaml:"port,omitempty" toml:"port,omitempty"`
	Username       string `yaml:"username,omitempty" toml:"username,omitempty"`
	Password       string `yaml:"password,omitempty" toml:"password,omitempty"`
	Charset        string `yaml:"charset,omitempty" toml:"charset,omitempty"`
	TLS            string `yaml:"tls,omitempty" toml:"tls,omitempty"`
	TLSCA          string `yaml:"tls_ca,omitempty" toml:"tls_ca,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty" toml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty" toml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty" toml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty" toml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty" toml:"google_instance,omitempty"`
}

type ProjectConfig struct {
	Databases map[string]DatabaseConfig `yaml:"databases" toml:"databases"`
	Timeout   string                    `yaml:"timeout,omitempty" toml:"timeout,omitempty"`
	OutputDir string                    `yaml:"output_dir,omitempty" toml:"output_dir,omitempty"`
}

const ConfigFileName = "ddlcheck.yaml"

// ConfigFileNames is the lookup order inside a directory.
var ConfigFileNames = []string{ConfigFileName, "ddlcheck.yml", "ddlcheck.toml"}

// Load reads the first config file found in dir.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range ConfigFileNames {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, ErrConfigNotFound) {
			continue
		}
		return cfg, err
	}
	return nil, ErrConfigNotFound
}

// LoadFile reads a config file; the extension picks YAML or TOML.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w: %w", path, ddlcheck.ErrConfigurationInvalid, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w: %w", path, ddlcheck.ErrConfigurationInvalid, err)
		}
	default:
		return nil, fmt.Errorf("config file %s: unsupported extension %q: %w", path, ext, ddlcheck.ErrConfigurationInvalid)
	}
	return &cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *ProjectConfig) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Aliases returns the configured alias names, sorted.
func (c *ProjectConfig) Aliases() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Databases))
	for name := range c.Databases {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SetAlias adds or replaces an alias entry.
func (c *ProjectConfig) SetAlias(name string, db DatabaseConfig) {
	if c.Databases == nil {
		c.Databases = make(map[string]DatabaseConfig)
	}
	c.Databases[name] = db
}

// EntryFrom converts resolved parameters back into an alias entry.
// Default values are omitted. The password is kept only when keepPassword
// is set; otherwise it is expected from DDLCHECK_PASSWORD or MYSQL_PWD.
func EntryFrom(cfg ddlcheck.ConnectionConfig, keepPassword bool) DatabaseConfig {
	entry := DatabaseConfig{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Username:       cfg.Username,
		Charset:        cfg.Charset,
		TLS:            cfg.TLS,
		TLSCA:          cfg.TLSCA,
		AuthMethod:     authMethodName(cfg.AuthMethod),
		AWSRegion:      cfg.AWSRegion,
		AzureTenantID:  cfg.AzureTenantID,
		AzureClientID:  cfg.AzureClientID,
		GoogleInstance: cfg.GoogleInstance,
	}
	if keepPassword {
		entry.Password = cfg.Password
	}
	if entry.Host == ddlcheck.DefaultHost {
		entry.Host = ""
	}
	if entry.Port == ddlcheck.DefaultPort {
		entry.Port = 0
	}
	if entry.Username == ddlcheck.DefaultUsername {
		entry.Username = ""
	}
	if entry.Charset == ddlcheck.DefaultCharset {
		entry.Charset = ""
	}
	return entry
}

func authMethodName(m ddlcheck.AuthMethod) string {
	switch m {
	case ddlcheck.AuthMethodAWSIAM:
		return "aws"
	case ddlcheck.AuthMethodGoogleIAM:
		return "google"
	case ddlcheck.AuthMethodAzureEntraID:
		return "azure"
	default:
		return ""
	}
}

// Connection converts the named alias to connection parameters.
// Unset fields stay zero so higher-precedence sources can fill them;
// the caller applies defaults last.
func (c *ProjectConfig) Connection(alias string) (ddlcheck.ConnectionConfig, error) {
	entry, ok := c.lookup(alias)
	if !ok {
		available := c.Aliases()
		if len(available) == 0 {
			return ddlcheck.ConnectionConfig{}, fmt.Errorf("unknown database alias %q (no aliases configured): %w",
				alias, ddlcheck.ErrConfigurationInvalid)
		}
		return ddlcheck.ConnectionConfig{}, fmt.Errorf("unknown database alias %q (available: %s): %w",
			alias, strings.Join(available, ", "), ddlcheck.ErrConfigurationInvalid)
	}

	auth, err := ddlcheck.ParseAuthMethod(entry.AuthMethod)
	if err != nil {
		return ddlcheck.ConnectionConfig{}, fmt.Errorf("alias %q: %w", alias, err)
	}
	if entry.Port < 0 || entry.Port > 65535 {
		return ddlcheck.ConnectionConfig{}, fmt.Errorf("alias %q: port %d out of range: %w",
			alias, entry.Port, ddlcheck.ErrConfigurationInvalid)
	}

	return ddlcheck.ConnectionConfig{
		Host:           entry.Host,
		Port:           entry.Port,
		Username:       entry.Username,
		Password:       entry.Password,
		Charset:        entry.Charset,
		TLS:            entry.TLS,
		TLSCA:          entry.TLSCA,
		AuthMethod:     auth,
		AWSRegion:      entry.AWSRegion,
		AzureTenantID:  entry.AzureTenantID,
		AzureClientID:  entry.AzureClientID,
		GoogleInstance: entry.GoogleInstance,
	}, nil
}

// ResolveAlias returns the alias with defaults applied and validated.
func (c *ProjectConfig) ResolveAlias(alias string) (ddlcheck.ConnectionConfig, error) {
	conn, err := c.Connection(alias)
	if err != nil {
		return conn, err
	}
	conn.ApplyDefaults()
	if err := conn.Validate(); err != nil {
		return ddlcheck.ConnectionConfig{}, fmt.Errorf("alias %q: %w", alias, err)
	}
	return conn, nil
}

func (c *ProjectConfig) lookup(alias string) (DatabaseConfig, bool) {
	if c == nil || c.Databases == nil {
		return DatabaseConfig{}, false
	}
	entry, ok := c.Databases[alias]
	return entry, ok
}

// TimeoutDuration parses Timeout, falling back to ddlcheck.DefaultTimeout.
func (c *ProjectConfig) TimeoutDuration() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return ddlcheck.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: %w", c.Timeout, ddlcheck.ErrConfigurationInvalid)
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout %q must be positive: %w", c.Timeout, ddlcheck.ErrConfigurationInvalid)
	}
	return d, nil
}

// OutputDirectory returns OutputDir or ddlcheck.DefaultOutputDir.
func (c *ProjectConfig) OutputDirectory() string {
	if c == nil || c.OutputDir == "" {
		return ddlcheck.DefaultOutputDir
	}
	return c.OutputDir
}
