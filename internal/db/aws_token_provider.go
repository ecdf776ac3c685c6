package db

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

// rdsTokenLifetime is how long RDS accepts a generated token.
const rdsTokenLifetime = 15 * time.Minute

// AWSIAMTokenProvider acquires RDS IAM authentication tokens for MySQL users
// created WITH AWSAuthenticationPlugin. Credentials come from the default AWS chain.
type AWSIAMTokenProvider struct {
	endpoint string // host:port
	region   string
	username string
}

// NewAWSIAMTokenProvider creates a token provider for an RDS endpoint
// ("mydb.abc.us-west-2.rds.amazonaws.com:3306").
func NewAWSIAMTokenProvider(endpoint, region, username string) (*AWSIAMTokenProvider, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("AWS IAM auth requires endpoint (host:port): %w", ddlcheck.ErrConfigurationInvalid)
	}
	if region == "" {
		return nil, fmt.Errorf("AWS IAM auth requires region (use --aws-region or $AWS_REGION): %w", ddlcheck.ErrConfigurationInvalid)
	}
	if username == "" {
		return nil, fmt.Errorf("AWS IAM auth requires database username: %w", ddlcheck.ErrConfigurationInvalid)
	}

	return &AWSIAMTokenProvider{
		endpoint: endpoint,
		region:   region,
		username: username,
	}, nil
}

// GetToken signs a fresh token; no network call is made to RDS.
func (p *AWSIAMTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(p.region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.username, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to build RDS auth token: %w", err)
	}

	return token, time.Now().Add(rdsTokenLifetime), nil
}

func (p *AWSIAMTokenProvider) String() string {
	return fmt.Sprintf("AWSIAM(endpoint=%s, region=%s, user=%s)", p.endpoint, p.region, p.username)
}
