package catalog

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// authorColumns are written on replace so that cleared optional dates are
// stored as NULL rather than skipped as zero values.
var authorColumns = []string{"first_name", "family_name", "date_of_birth", "date_of_death", "updated_at"}

// ListAuthors returns every author ordered by family name, then first name.
func (r *Repository) ListAuthors(ctx context.Context) ([]entities.Author, error) {
	var authors []entities.Author
	err := r.conn(ctx).Order("family_name ASC, first_name ASC").Find(&authors).Error
	if err != nil {
		return nil, errors.Wrap(err, "list authors")
	}
	return authors, nil
}

// GetAuthor retrieves an author by id.
func (r *Repository) GetAuthor(ctx context.Context, id string) (*entities.Author, error) {
	var author entities.Author
	if err := r.conn(ctx).Where("id = ?", id).First(&author).Error; err != nil {
		return nil, notFoundOr(err, "get author")
	}
	return &author, nil
}

func (r *Repository) CreateAuthor(ctx context.Context, author *entities.Author) error {
	return errors.Wrap(r.conn(ctx).Create(author).Error, "create author")
}

// ReplaceAuthor overwrites every mutable field of the author with the given id.
func (r *Repository) ReplaceAuthor(ctx context.Context, id string, author *entities.Author) error {
	author.ID = id
	res := r.conn(ctx).Model(&entities.Author{ID: id}).Select(authorColumns).Updates(author)
	return affected(res, "replace author")
}

func (r *Repository) DeleteAuthor(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&entities.Author{})
	return affected(res, "delete author")
}
