package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"time-tagger/internal/config"
	"time-tagger/internal/repository/sqlite"
)

func setupRepo(t *testing.T, records ...sqlite.Record) sqlite.Repository {
	repo, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	if len(records) > 0 {
		ptrs := make([]*sqlite.Record, len(records))
		for i := range records {
			ptrs[i] = &records[i]
		}
		require.NoError(t, repo.PutRecords(context.Background(), ptrs))
	}
	return repo
}

func setupContainer(t *testing.T, records ...sqlite.Record) (*ServiceContainer, sqlite.Repository) {
	repo := setupRepo(t, records...)
	cfg := config.NewConfig()
	cfg.Time.Timezone = "UTC"
	return NewServiceContainer(repo, cfg, nil), repo
}

func utc(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC).Unix()
}
