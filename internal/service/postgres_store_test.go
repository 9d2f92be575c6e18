package service

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/vesting-service/internal/persistence"
	"github.com/spec-kit/vesting-service/internal/repository"
)

// newPostgresFixture runs the service against a migrated, emptied database
// named by TEST_POSTGRES_DSN.
func newPostgresFixture(t *testing.T) *vestingFixture {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, persistence.RunMigrations(ctx, pool, "../../migrations", zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE employee_vesting_records, vesting_pools, token_accounts, mints CASCADE`)
	require.NoError(t, err)

	return newVestingFixtureOn(t, repository.NewPostgresStore(pool), nil, zap.NewNop())
}

func TestPostgresCompanyNameScenario(t *testing.T) {
	checkCompanyNameScenario(t, newPostgresFixture(t))
}

func TestPostgresCreatePoolRejections(t *testing.T) {
	checkCreatePoolRejections(t, newPostgresFixture(t))
}

func TestPostgresUnderfundedClaimIsAtomic(t *testing.T) {
	checkUnderfundedClaimIsAtomic(t, newPostgresFixture(t))
}

func TestPostgresConcurrentClaimsReleaseOnce(t *testing.T) {
	checkConcurrentClaimsReleaseOnce(t, newPostgresFixture(t))
}
