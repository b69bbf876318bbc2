package database

import (
	"ShrinkIt-Backend/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
)

func TestDSN(t *testing.T) {
	cfg := &config.Database{
		Host:     "db",
		Port:     5432,
		User:     "shrinkit",
		Password: "secret",
		DBName:   "links",
		SSLMode:  "disable",
		Timezone: "UTC",
	}

	assert.Equal(t,
		"host=db user=shrinkit password=secret dbname=links port=5432 sslmode=disable TimeZone=UTC",
		DSN(cfg))
}

func TestAutoMigrate(t *testing.T) {
	db, err := Open(sqlite.Open("file:migrations?mode=memory&cache=shared"), config.EnvProduction)
	require.NoError(t, err)

	log := zap.NewNop()
	require.NoError(t, AutoMigrate(db, log))

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("links"))
	assert.True(t, db.Migrator().HasTable("clicks"))
	assert.True(t, db.Migrator().HasIndex("links", "idx_links_short_code"))

	require.NoError(t, Close(db, log))
}
