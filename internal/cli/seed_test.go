package cli

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/seed"
)

func TestSeedCommand_ParseFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cmd := NewSeedCommand()
		require.NoError(t, cmd.ParseFlags(nil))
		assert.Equal(t, database.DriverSQLite, cmd.Driver)
		assert.False(t, cmd.Force)
	})

	t.Run("postgres requires url", func(t *testing.T) {
		cmd := NewSeedCommand()
		assert.Error(t, cmd.ParseFlags([]string{"-driver", "postgres"}))
	})
}

func TestSeedCommand_Run(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	cmd := NewSeedCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-db", dbPath}))
	require.NoError(t, cmd.Run())

	err := cmd.Run()
	assert.ErrorIs(t, err, seed.ErrNotEmpty)

	db, err := database.NewDatabase(database.Options{Path: dbPath, LogLevel: logger.Silent})
	require.NoError(t, err)
	defer db.Close()

	n, err := catalog.NewRepository(db.DB).CountBooks(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)
}
