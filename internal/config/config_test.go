package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_AllFieldsYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ConfigFileName, `databases:
  default:
    host: db.internal
    port: 3307
    username: app
    password: secret
    charset: utf8
    tls: skip-verify
  rds:
    host: prod.abc.us-east-1.rds.amazonaws.com
    username: iam_user
    auth_method: aws
    aws_region: us-east-1

timeout: 2m
output_dir: reports
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	def := cfg.Databases["default"]
	assert.Equal(t, "db.internal", def.Host)
	assert.Equal(t, 3307, def.Port)
	assert.Equal(t, "app", def.Username)
	assert.Equal(t, "secret", def.Password)
	assert.Equal(t, "utf8", def.Charset)
	assert.Equal(t, "skip-verify", def.TLS)
	assert.Equal(t, "aws", cfg.Databases["rds"].AuthMethod)
	assert.Equal(t, "us-east-1", cfg.Databases["rds"].AWSRegion)
	assert.Equal(t, "2m", cfg.Timeout)
	assert.Equal(t, "reports", cfg.OutputDirectory())
	assert.Equal(t, []string{"default", "rds"}, cfg.Aliases())
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ddlcheck.toml", `timeout = "30s"

[databases.default]
host = "127.0.0.1"
port = 3306
username = "root"
password = "pw"

[databases.cloud]
auth_method = "google"
google_instance = "proj:region:inst"
username = "svc"
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", cfg.Databases["default"].Host)
	assert.Equal(t, "proj:region:inst", cfg.Databases["cloud"].GoogleInstance)

	d, err := cfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, d)
}

func TestLoad_PrefersYAMLOverTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ddlcheck.toml", "output_dir = \"from-toml\"\n")
	writeConfig(t, dir, ConfigFileName, "output_dir: from-yaml\n")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.OutputDir)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ConfigFileName, "{{invalid")

	cfg, err := Load(dir)
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ConfigFileName, "")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
	assert.Equal(t, ddlcheck.DefaultOutputDir, cfg.OutputDirectory())
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "ddlcheck.ini", "x=1")

	_, err := LoadFile(filepath.Join(dir, "ddlcheck.ini"))
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)
}

func TestConnection_UnknownAliasListsAvailable(t *testing.T) {
	cfg := &ProjectConfig{Databases: map[string]DatabaseConfig{
		"staging": {Host: "s"},
		"default": {Host: "d"},
	}}

	_, err := cfg.Connection("prod")
	require.Error(t, err)
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)
	assert.Contains(t, err.Error(), `"prod"`)
	assert.Contains(t, err.Error(), "available: default, staging")
}

func TestConnection_NoAliases(t *testing.T) {
	var cfg *ProjectConfig
	_, err := cfg.Connection("default")
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)
	assert.Contains(t, err.Error(), "no aliases configured")
}

func TestConnection_KeepsUnsetFieldsZero(t *testing.T) {
	cfg := &ProjectConfig{Databases: map[string]DatabaseConfig{"default": {Password: "pw"}}}

	conn, err := cfg.Connection("default")
	require.NoError(t, err)
	assert.Empty(t, conn.Host)
	assert.Zero(t, conn.Port)
	assert.Equal(t, ddlcheck.AuthMethodStandard, conn.AuthMethod)
}

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		name    string
		entry   DatabaseConfig
		want    ddlcheck.ConnectionConfig
		wantErr error
	}{
		{
			name:  "defaults applied",
			entry: DatabaseConfig{Password: "pw"},
			want: ddlcheck.ConnectionConfig{
				Host: "localhost", Port: 3306, Username: "root", Password: "pw", Charset: "utf8mb4",
			},
		},
		{
			name:  "no password with standard auth",
			entry: DatabaseConfig{Host: "db"},
			want: ddlcheck.ConnectionConfig{
				Host: "db", Port: 3306, Username: "root", Charset: "utf8mb4",
			},
		},
		{
			name:  "aws needs no password",
			entry: DatabaseConfig{Host: "rds", Username: "iam", AuthMethod: "aws-iam", AWSRegion: "eu-west-1"},
			want: ddlcheck.ConnectionConfig{
				Host: "rds", Port: 3306, Username: "iam", Charset: "utf8mb4",
				AuthMethod: ddlcheck.AuthMethodAWSIAM, AWSRegion: "eu-west-1",
			},
		},
		{
			name:    "unknown auth method",
			entry:   DatabaseConfig{Password: "pw", AuthMethod: "kerberos"},
			wantErr: ddlcheck.ErrUnsupportedAuthMethod,
		},
		{
			name:    "port out of range",
			entry:   DatabaseConfig{Password: "pw", Port: 70000},
			wantErr: ddlcheck.ErrConfigurationInvalid,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &ProjectConfig{Databases: map[string]DatabaseConfig{"default": tt.entry}}
			got, err := cfg.ResolveAlias("default")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeoutDuration(t *testing.T) {
	var nilCfg *ProjectConfig
	d, err := nilCfg.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, ddlcheck.DefaultTimeout, d)

	_, err = (&ProjectConfig{Timeout: "soon"}).TimeoutDuration()
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)

	_, err = (&ProjectConfig{Timeout: "-1s"}).TimeoutDuration()
	assert.ErrorIs(t, err, ddlcheck.ErrConfigurationInvalid)
}

func TestSave_RoundTrip(t *testing.T) {
	for _, name := range []string{"ddlcheck.yaml", "ddlcheck.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			cfg := &ProjectConfig{Timeout: "1m"}
			cfg.SetAlias("default", DatabaseConfig{Host: "h", Port: 3310, Username: "u", Password: "p"})

			require.NoError(t, Save(path, cfg))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestEntryFrom_OmitsDefaultsAndPassword(t *testing.T) {
	cfg := ddlcheck.ConnectionConfig{
		Host:     ddlcheck.DefaultHost,
		Port:     ddlcheck.DefaultPort,
		Username: ddlcheck.DefaultUsername,
		Password: "secret",
		Charset:  ddlcheck.DefaultCharset,
		TLS:      "true",
	}

	assert.Equal(t, DatabaseConfig{TLS: "true"}, EntryFrom(cfg, false))
	assert.Equal(t, DatabaseConfig{TLS: "true", Password: "secret"}, EntryFrom(cfg, true))
}

func TestEntryFrom_RoundTripsThroughConnection(t *testing.T) {
	cfg := ddlcheck.ConnectionConfig{
		Host:       "mydb.rds.amazonaws.com",
		Port:       3307,
		Username:   "iam_user",
		Charset:    ddlcheck.DefaultCharset,
		AuthMethod: ddlcheck.AuthMethodAWSIAM,
		AWSRegion:  "eu-west-1",
	}

	project := &ProjectConfig{}
	project.SetAlias("prod", EntryFrom(cfg, false))

	resolved, err := project.ResolveAlias("prod")
	require.NoError(t, err)
	assert.Equal(t, cfg.Host, resolved.Host)
	assert.Equal(t, cfg.Port, resolved.Port)
	assert.Equal(t, ddlcheck.AuthMethodAWSIAM, resolved.AuthMethod)
	assert.Equal(t, "eu-west-1", resolved.AWSRegion)
}
