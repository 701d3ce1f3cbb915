//go:build integration

package router

// Runs the HTTP surface against a real Postgres schema built by golang-migrate.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Pahari47/parkson-assignment/internal/infra"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

func TestIntegration_PostgresLedger(t *testing.T) {
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("warehouse_test"),
		tcPostgres.WithUsername("warehouse"),
		tcPostgres.WithPassword("warehouse"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.DBDriver = "postgres"
	cfg.DatabaseURL = pgURL

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	require.NoError(t, err)
	seedAdmin(t, db)

	// a second run finds the schema current
	require.NoError(t, infra.RunMigrations(pgURL))

	r, err := New(ctx, cfg, db, nil)
	require.NoError(t, err)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token := login(t, srv, "admin", adminPassword)
	ledgerScenario(t, srv, token)

	// duplicate codes are rejected by the unique index as well as the pre-check
	resp := do(t, srv, http.MethodPost, "/api/products",
		map[string]any{"product_code": "BLT-10", "product_name": "Dup"}, token)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}
