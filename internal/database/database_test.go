package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigApply(t *testing.T) {
	// sql.Open does not dial, so pool limits can be inspected without a
	// running Postgres.
	db, err := sql.Open("pgx", "postgres://postgres@localhost:5432/biltrack?sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	cfg := Config{
		MaxOpenConns:    10,
		MaxIdleConns:    3,
		ConnMaxLifetime: time.Minute,
	}
	cfg.apply(db)

	assert.Equal(t, 10, db.Stats().MaxOpenConnections)
}
