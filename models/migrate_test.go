package models_test

import (
	"bytes"
	"testing"

	"github.com/rpupo63/personal-blog-backend/database/dbtest"
	"github.com/rpupo63/personal-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateCreatesTables(t *testing.T) {
	db := dbtest.OpenEmpty(t)

	require.NoError(t, models.Migrate(db))
	require.NoError(t, models.Migrate(db), "migrating twice is a no-op")

	for _, table := range []string{"posts", "comments", "subscribers"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Subscriber{}, "idx_subscriber_email"))
}

func TestColumnMismatches(t *testing.T) {
	db := dbtest.Open(t)

	report, err := models.ColumnMismatches(db)
	require.NoError(t, err)
	for table, columns := range report {
		assert.Empty(t, columns, table)
	}

	require.NoError(t, db.Exec("ALTER TABLE posts ADD COLUMN reading_time integer").Error)

	report, err = models.ColumnMismatches(db)
	require.NoError(t, err)
	assert.Equal(t, []string{"reading_time"}, report["posts"])

	var out bytes.Buffer
	require.NoError(t, models.GenerateColumnMismatchReport(db, &out))
	assert.Contains(t, out.String(), "--- Table: posts ---")
	assert.Contains(t, out.String(), "  - reading_time")
	assert.Contains(t, out.String(), "Total mismatched columns across all tables: 1")
}

func TestColumnMismatchesSkipsMissingTables(t *testing.T) {
	db := dbtest.OpenEmpty(t)

	report, err := models.ColumnMismatches(db)
	require.NoError(t, err)
	assert.Empty(t, report)
}
