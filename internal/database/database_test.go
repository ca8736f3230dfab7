// internal/database/database_test.go
package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/kk-storefront/internal/config"
	"github.com/javajoker/kk-storefront/internal/models"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Initialize(config.DatabaseConfig{
		URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}

func TestMigrationsAreIdempotent(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	ctx := context.Background()
	first, err := RunMigration(ctx, db, "all")
	require.NoError(t, err)
	require.Len(t, first, len(Migrations()))

	second, err := RunMigration(ctx, db, "all")
	require.NoError(t, err)
	for _, res := range second {
		var total int
		for _, m := range Migrations() {
			if m.Name == res.Name {
				total = len(m.Statements)
			}
		}
		assert.Equal(t, total, res.Applied+res.AlreadyApplied, res.Name)
	}

	// the ALTER statements report already applied once the column exists
	one, err := RunMigration(ctx, db, "products-story")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, 1, one[0].AlreadyApplied)
}

func TestRunUnknownMigration(t *testing.T) {
	db := openMemory(t)
	_, err := RunMigration(context.Background(), db, "nope")
	assert.ErrorIs(t, err, ErrUnknownMigration)
}

func TestIsAlreadyExists(t *testing.T) {
	assert.False(t, IsAlreadyExists(nil))
	assert.True(t, IsAlreadyExists(&pgconn.PgError{Code: "42701"}))
	assert.True(t, IsAlreadyExists(&pgconn.PgError{Code: "42P07"}))
	assert.False(t, IsAlreadyExists(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsAlreadyExists(errors.New("duplicate column name: story")))
	assert.True(t, IsAlreadyExists(errors.New(`relation "labels" already exists`)))
	assert.False(t, IsAlreadyExists(errors.New("no such table: products")))
}

func TestSeedInitialDataOnce(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, RunMigrations(db))

	require.NoError(t, SeedInitialData(db))
	var first int64
	db.Model(&models.ProductAttribute{}).Count(&first)
	require.NotZero(t, first)

	require.NoError(t, SeedInitialData(db))
	var second int64
	db.Model(&models.ProductAttribute{}).Count(&second)
	assert.Equal(t, first, second)

	var promo models.SiteSetting
	require.NoError(t, db.First(&promo, "key = ?", "promo_active").Error)
	assert.Equal(t, "false", promo.Value)
}
