//go:build integration

package postgres

import (
	"ShrinkIt-Backend/internal/config"
	"ShrinkIt-Backend/internal/database"
	"ShrinkIt-Backend/internal/domain"
	"ShrinkIt-Backend/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
)

// TestPostgresStorage_Integration гоняет репозиторий против настоящего PostgreSQL
func TestPostgresStorage_Integration(t *testing.T) {
	ctx := context.Background()

	container, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:16-alpine"),
		tcpostgres.WithDatabase("shrinkit"),
		tcpostgres.WithUsername("shrinkit"),
		tcpostgres.WithPassword("shrinkit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := zap.NewNop()
	db, err := database.Open(postgres.Open(dsn), config.EnvProduction)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db, log))

	s := New(db, log)

	user := &domain.User{Name: "Int", Email: "int@example.com", PasswordHash: "hash"}
	require.NoError(t, s.CreateUser(ctx, user))

	link := &domain.Link{UserID: user.ID, OriginalURL: "https://example.com", ShortCode: "intgr", IsActive: true}
	require.NoError(t, s.CreateLink(ctx, link))

	// уникальный индекс должен давать ErrShortCodeExists, а не сырую ошибку pgx
	err = s.CreateLink(ctx, &domain.Link{UserID: user.ID, OriginalURL: "https://x.example.com", ShortCode: "intgr", IsActive: true})
	assert.ErrorIs(t, err, repository.ErrShortCodeExists)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RecordClick(ctx, link.ID, &domain.Click{Timestamp: time.Now(), Country: "US"}))
	}

	stored, err := s.GetLinkByID(ctx, link.ID)
	require.NoError(t, err)
	history, err := s.ListClicks(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.ClickCount)
	assert.Len(t, history, 5)

	require.NoError(t, s.DeleteLink(ctx, link.ID))
	_, err = s.GetLinkByShortCode(ctx, "intgr")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)

	assert.NoError(t, s.Ping(ctx))
}
