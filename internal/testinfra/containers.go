package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/vvka-141/ddlcheck/pkg/ddlcheck"
)

const (
	MySQLImage        = "mysql:8.4"
	MySQLRootPassword = "ddlcheck"

	containerCertDir = "/etc/mysql/ddlcheck-certs"
	mysqlPort        = "3306/tcp"
)

// MySQLContainer is a running MySQL server for integration tests.
type MySQLContainer struct {
	testcontainers.Container
	Host string
	Port int
}

// ConnectionConfig returns root credentials for the container.
func (c *MySQLContainer) ConnectionConfig() *ddlcheck.ConnectionConfig {
	return &ddlcheck.ConnectionConfig{
		Host:           c.Host,
		Port:           c.Port,
		Username:       "root",
		Password:       MySQLRootPassword,
		Charset:        ddlcheck.DefaultCharset,
		ConnectTimeout: 30 * time.Second,
	}
}

// StartMySQL starts a plain MySQL server.
func StartMySQL(ctx context.Context) (*MySQLContainer, error) {
	return startMySQL(ctx, testcontainers.ContainerRequest{})
}

// StartTLSMySQL starts a server that only accepts TLS connections, presenting
// the server certificate from certPaths.
func StartTLSMySQL(ctx context.Context, certPaths *CertPaths) (*MySQLContainer, error) {
	return startMySQL(ctx, testcontainers.ContainerRequest{
		Files: []testcontainers.ContainerFile{
			{HostFilePath: certPaths.CACert, ContainerFilePath: containerCertDir + "/ca.pem", FileMode: 0o644},
			{HostFilePath: certPaths.ServerCert, ContainerFilePath: containerCertDir + "/server-cert.pem", FileMode: 0o644},
			{HostFilePath: certPaths.ServerKey, ContainerFilePath: containerCertDir + "/server-key.pem", FileMode: 0o644},
		},
		Cmd: []string{
			"--ssl-ca=" + containerCertDir + "/ca.pem",
			"--ssl-cert=" + containerCertDir + "/server-cert.pem",
			"--ssl-key=" + containerCertDir + "/server-key.pem",
			"--require-secure-transport=ON",
		},
	})
}

func startMySQL(ctx context.Context, req testcontainers.ContainerRequest) (*MySQLContainer, error) {
	req.Image = MySQLImage
	req.ExposedPorts = []string{mysqlPort}
	req.Env = map[string]string{"MYSQL_ROOT_PASSWORD": MySQLRootPassword}
	// the init server logs "port: 0"; the real one logs the TCP port
	req.WaitingFor = wait.ForAll(
		wait.ForLog("port: 3306"),
		wait.ForListeningPort(mysqlPort),
	).WithDeadline(3 * time.Minute)

	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mysql: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, mysqlPort)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &MySQLContainer{Container: ctr, Host: host, Port: port.Int()}, nil
}
