package catalog

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/mrlokans/locallibrary/internal/entities"
)

var bookInstanceColumns = []string{"book_id", "imprint", "status", "due_back", "updated_at"}

// ListBookInstances returns every copy with its book, ordered by book title
// and then due date.
func (r *Repository) ListBookInstances(ctx context.Context) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	if err := r.conn(ctx).Preload("Book").Find(&instances).Error; err != nil {
		return nil, errors.Wrap(err, "list book instances")
	}

	sort.SliceStable(instances, func(i, j int) bool {
		a, b := instances[i], instances[j]
		if a.Book.Title != b.Book.Title {
			return a.Book.Title < b.Book.Title
		}
		return a.DueBack.Before(b.DueBack)
	})
	return instances, nil
}

// GetBookInstance retrieves a copy by id with its book populated.
func (r *Repository) GetBookInstance(ctx context.Context, id string) (*entities.BookInstance, error) {
	var instance entities.BookInstance
	if err := r.conn(ctx).Preload("Book").Where("id = ?", id).First(&instance).Error; err != nil {
		return nil, notFoundOr(err, "get book instance")
	}
	return &instance, nil
}

// InstancesByBook returns the copies of one book ordered by due date.
func (r *Repository) InstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error) {
	var instances []entities.BookInstance
	err := r.conn(ctx).Where("book_id = ?", bookID).Order("due_back ASC").Find(&instances).Error
	if err != nil {
		return nil, errors.Wrap(err, "list instances by book")
	}
	return instances, nil
}

func (r *Repository) CreateBookInstance(ctx context.Context, instance *entities.BookInstance) error {
	return errors.Wrap(r.conn(ctx).Omit("Book").Create(instance).Error, "create book instance")
}

func (r *Repository) ReplaceBookInstance(ctx context.Context, id string, instance *entities.BookInstance) error {
	instance.ID = id
	res := r.conn(ctx).Model(&entities.BookInstance{ID: id}).Select(bookInstanceColumns).Updates(instance)
	return affected(res, "replace book instance")
}

func (r *Repository) DeleteBookInstance(ctx context.Context, id string) error {
	res := r.conn(ctx).Where("id = ?", id).Delete(&entities.BookInstance{})
	return affected(res, "delete book instance")
}
