// Package catalog provides database operations for the library catalog:
// authors, genres, books and book copies.
//
// It is the persistence collaborator consumed by the HTTP controllers and
// the referential integrity guard.
//
// # Interface Implementation
//
//	var _ http.CatalogStore = (*Repository)(nil)
//	var _ integrity.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := catalog.NewRepository(db.DB)
//	book, err := repo.GetBook(ctx, id)
//
// Lookups of missing records return ErrNotFound. Every other failure is a
// storage error wrapped with the failing operation.
package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// notFoundOr maps gorm's missing-record error to ErrNotFound and wraps the rest.
func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, op)
}

// affected turns a write that touched no rows into ErrNotFound.
func affected(res *gorm.DB, op string) error {
	if res.Error != nil {
		return errors.Wrap(res.Error, op)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountReferencing counts records of kind whose field references id.
func (r *Repository) CountReferencing(ctx context.Context, kind entities.Kind, field string, id string) (int64, error) {
	var count int64
	var err error

	switch {
	case kind == entities.KindBook && field == "author":
		err = r.conn(ctx).Model(&entities.Book{}).Where("author_id = ?", id).Count(&count).Error
	case kind == entities.KindBook && field == "genre":
		err = r.conn(ctx).Model(&entities.BookGenre{}).Where("genre_id = ?", id).Count(&count).Error
	case kind == entities.KindBookInstance && field == "book":
		err = r.conn(ctx).Model(&entities.BookInstance{}).Where("book_id = ?", id).Count(&count).Error
	default:
		return 0, errors.Errorf("no reference %s.%s", kind, field)
	}

	if err != nil {
		return 0, errors.Wrapf(err, "count %s referencing %s", kind, field)
	}
	return count, nil
}

// CountByIDs counts how many of ids exist as records of kind.
func (r *Repository) CountByIDs(ctx context.Context, kind entities.Kind, ids []string) (int64, error) {
	model, err := modelFor(kind)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.conn(ctx).Model(model).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "count %s by ids", kind)
	}
	return count, nil
}

func modelFor(kind entities.Kind) (any, error) {
	switch kind {
	case entities.KindAuthor:
		return &entities.Author{}, nil
	case entities.KindGenre:
		return &entities.Genre{}, nil
	case entities.KindBook:
		return &entities.Book{}, nil
	case entities.KindBookInstance:
		return &entities.BookInstance{}, nil
	}
	return nil, errors.Errorf("unknown entity kind %q", kind)
}

// CatalogCounts holds the record totals shown on the catalog home page.
type CatalogCounts struct {
	Books              int64
	BookInstances      int64
	AvailableInstances int64
	Authors            int64
	Genres             int64
}

func (r *Repository) count(ctx context.Context, model any, op string, query ...any) (int64, error) {
	var n int64
	tx := r.conn(ctx).Model(model)
	if len(query) > 0 {
		tx = tx.Where(query[0], query[1:]...)
	}
	if err := tx.Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, op)
	}
	return n, nil
}

func (r *Repository) CountAuthors(ctx context.Context) (int64, error) {
	return r.count(ctx, &entities.Author{}, "count authors")
}

func (r *Repository) CountGenres(ctx context.Context) (int64, error) {
	return r.count(ctx, &entities.Genre{}, "count genres")
}

func (r *Repository) CountBooks(ctx context.Context) (int64, error) {
	return r.count(ctx, &entities.Book{}, "count books")
}

func (r *Repository) CountBookInstances(ctx context.Context) (int64, error) {
	return r.count(ctx, &entities.BookInstance{}, "count book instances")
}

func (r *Repository) CountAvailableBookInstances(ctx context.Context) (int64, error) {
	return r.count(ctx, &entities.BookInstance{}, "count available book instances", "status = ?", entities.StatusAvailable)
}
