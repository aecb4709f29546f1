package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/x", migrateURL("postgresql://u:p@db:5432/x"))
	assert.Equal(t, "pgx5://u:p@db/x", migrateURL("postgres://u:p@db/x"))
	assert.Equal(t, "pgx5://db/x", migrateURL("pgx5://db/x"))
}
