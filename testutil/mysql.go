package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// getMySQLVersion returns the MySQL version to test against. It reads
// SCHEMAGENIUS_MYSQL_VERSION, defaulting to "8.4".
func getMySQLVersion() string {
	if version := os.Getenv("SCHEMAGENIUS_MYSQL_VERSION"); version != "" {
		return version
	}
	return "8.4"
}

// SetupMySQLContainer creates a new MySQL test container. The DSN enables
// multiStatements so whole generated scripts execute in one call.
func SetupMySQLContainer(ctx context.Context, t *testing.T) *ContainerInfo {
	const (
		database = "testdb"
		password = "testpass"
	)

	req := testcontainers.ContainerRequest{
		Image: "mysql:" + getMySQLVersion(),
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": password,
			"MYSQL_DATABASE":      database,
		},
		ExposedPorts: []string{"3306/tcp"},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").
			WithStartupTimeout(2 * time.Minute),
	}
	mysqlContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
		Logger:           suppressedLogger,
	})
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	containerHost, err := mysqlContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	containerPort, err := mysqlContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	testDSN := fmt.Sprintf("root:%s@tcp(%s:%d)/%s?multiStatements=true",
		password, containerHost, containerPort.Int(), database)
	conn, err := sql.Open("mysql", testDSN)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	return &ContainerInfo{
		Container: mysqlContainer,
		Host:      containerHost,
		Port:      containerPort.Int(),
		DSN:       testDSN,
		Conn:      conn,
	}
}
