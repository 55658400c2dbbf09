package catalog

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// ListGenres returns every genre ordered by name.
func (r *Repository) ListGenres(ctx context.Context) ([]entities.Genre, error) {
	var genres []entities.Genre
	if err := r.conn(ctx).Order("name ASC").Find(&genres).Error; err != nil {
		return nil, errors.Wrap(err, "list genres")
	}
	return genres, nil
}

func (r *Repository) GetGenre(ctx context.Context, id string) (*entities.Genre, error) {
	var genre entities.Genre
	if err := r.conn(ctx).Where("id = ?", id).First(&genre).Error; err != nil {
		return nil, notFoundOr(err, "get genre")
	}
	return &genre, nil
}

// FindGenreByName looks a genre up by name, ignoring case.
func (r *Repository) FindGenreByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.conn(ctx).Where("LOWER(name) = ?", strings.ToLower(name)).First(&genre).Error
	if err != nil {
		return nil, notFoundOr(err, "find genre by name")
	}
	return &genre, nil
}

func (r *Repository) CreateGenre(ctx context.Context, genre *entities.Genre) error {
	return errors.Wrap(r.conn(ctx).Create(genre).Error, "create genre")
}

func (r *Repository) ReplaceGenre(ctx context.Context, id string, genre *entities.Genre) error {
	genre.ID = id
	res := r.conn(ctx).Model(&entities.Genre{ID: id}).Select("name", "updated_at").Updates(genre)
	return affected(res, "replace genre")
}

func (r *Repository) DeleteGenre(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&entities.Genre{})
	return affected(res, "delete genre")
}
