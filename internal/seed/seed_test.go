package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/database"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
)

func setupSeeder(t *testing.T) (*Seeder, *catalog.Repository) {
	t.Helper()
	db, err := database.NewDatabase(database.Options{
		Path:     filepath.Join(t.TempDir(), "seed.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := catalog.NewRepository(db.DB)
	return NewSeeder(repo, integrity.NewGuard(repo), nil, nil), repo
}

func TestSeeder_Demo(t *testing.T) {
	seeder, repo := setupSeeder(t)
	ctx := context.Background()

	summary, err := seeder.Run(ctx, Demo)
	require.NoError(t, err)
	assert.Equal(t, Summary{Authors: 5, Genres: 3, Books: 7, BookInstances: 11}, summary)

	available, err := repo.CountAvailableBookInstances(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 5, available)

	books, err := repo.ListBooks(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, books)
	assert.Equal(t, "Apes and Angels", books[0].Title)
	assert.Equal(t, "Bova", books[0].Author.FamilyName)

	t.Run("refuses a non-empty catalog", func(t *testing.T) {
		_, err := seeder.Run(ctx, Demo)
		assert.ErrorIs(t, err, ErrNotEmpty)
	})

	t.Run("force reuses existing genres", func(t *testing.T) {
		seeder.Force = true
		defer func() { seeder.Force = false }()

		summary, err := seeder.Run(ctx, Library{
			Genres: []string{"fantasy", "Horror"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Genres)
	})
}

func TestSeeder_RejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		library Library
	}{
		{
			name:    "author without family name",
			library: Library{Authors: []Author{{Key: "a", FirstName: "Ada"}}},
		},
		{
			name:    "book with unknown author",
			library: Library{Books: []Book{{Key: "b", Title: "T", Author: "nobody", Summary: "S", ISBN: "1"}}},
		},
		{
			name:    "copy with unknown status",
			library: Library{Copies: []Copy{{Book: "x", Imprint: "I", Status: entities.BookInstanceStatus("Lost")}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seeder, _ := setupSeeder(t)
			_, err := seeder.Run(context.Background(), tt.library)
			assert.Error(t, err)
		})
	}
}
