//go:build integration

package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/portfolio/projects-api/internal/adapter/mongodb"
	"github.com/portfolio/projects-api/internal/adapter/postgres"
)

// SetupTestDB connects to the test Postgres database, applies the schema and
// empties the projects table. It skips the test if TEST_DATABASE_URL is not set.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, url)
	if err != nil {
		t.Fatalf("connect to test DB: %v", err)
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("migrate test DB: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE projects`); err != nil {
		pool.Close()
		t.Fatalf("truncate projects: %v", err)
	}

	t.Cleanup(func() { pool.Close() })
	return pool
}

// SetupTestMongo connects to TEST_MONGO_URI and returns a throwaway database
// name that is dropped when the test finishes.
func SetupTestMongo(t *testing.T) (*mongo.Client, string) {
	t.Helper()
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongodb.Connect(ctx, uri)
	if err != nil {
		t.Fatalf("connect to test mongo: %v", err)
	}

	database := fmt.Sprintf("projects_test_%d", time.Now().UnixNano())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = client.Database(database).Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return client, database
}
