package ddlcheck

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig represents resolved connection parameters for the target server.
type ConnectionConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Charset  string

	// Database is optional; validation switches databases itself.
	Database string

	// TLS is a go-sql-driver tls value ("true", "skip-verify", "preferred") or empty.
	TLS string

	// TLSCA is a PEM file with the CA that signed the server certificate.
	// When set, the server certificate is verified against it.
	TLSCA string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWS RDS IAM authentication (AuthMethodAWSIAM)
	AWSRegion string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// GoogleInstance is the Cloud SQL instance connection name "project:region:instance".
	GoogleInstance string
}

// ApplyDefaults fills unset fields with DefaultHost, DefaultPort,
// DefaultUsername and DefaultCharset.
func (c *ConnectionConfig) ApplyDefaults() {
	if c.Host == "" && c.AuthMethod != AuthMethodGoogleIAM {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Username == "" {
		c.Username = DefaultUsername
	}
	if c.Charset == "" {
		c.Charset = DefaultCharset
	}
}

// Validate checks the configuration before any network I/O.
// It returns a multi-error if multiple validation failures occur.
func (c *ConnectionConfig) Validate() error {
	var errs []error

	if !c.AuthMethod.IsValid() {
		errs = append(errs, fmt.Errorf("auth method %s: %w", c.AuthMethod, ErrUnsupportedAuthMethod))
	}

	switch c.AuthMethod {
	case AuthMethodGoogleIAM:
		if c.GoogleInstance == "" {
			errs = append(errs, fmt.Errorf("Google Cloud SQL instance is required: %w", ErrConfigurationInvalid))
		}
	default:
		if c.Host == "" {
			errs = append(errs, fmt.Errorf("host is required: %w", ErrConfigurationInvalid))
		}
	}

	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range: %w", c.Port, ErrConfigurationInvalid))
	}

	if c.Username == "" {
		errs = append(errs, fmt.Errorf("username is required: %w", ErrConfigurationInvalid))
	}

	if c.AuthMethod == AuthMethodAWSIAM && c.AWSRegion == "" {
		errs = append(errs, fmt.Errorf("AWS region is required for IAM authentication: %w", ErrConfigurationInvalid))
	}

	if c.ConnectTimeout < 0 {
		errs = append(errs, fmt.Errorf("connect timeout cannot be negative: %w", ErrConfigurationInvalid))
	}

	return errors.Join(errs...)
}

// Target returns "host:port", or the Cloud SQL instance name for Google IAM.
func (c *ConnectionConfig) Target() string {
	if c.AuthMethod == AuthMethodGoogleIAM && c.GoogleInstance != "" {
		return c.GoogleInstance
	}
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS RDS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod maps config and flag spellings to an AuthMethod.
// The empty string selects AuthMethodStandard.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam", "awsiam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam", "googleiam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id", "azureentraid":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("%q: %w", s, ErrUnsupportedAuthMethod)
	}
}
