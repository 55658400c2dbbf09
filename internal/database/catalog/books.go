package catalog

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/mrlokans/locallibrary/internal/entities"
)

var bookColumns = []string{"title", "author_id", "summary", "isbn", "updated_at"}

// ListBooks returns every book with its author, ordered by title.
func (r *Repository) ListBooks(ctx context.Context) ([]entities.Book, error) {
	var books []entities.Book
	err := r.conn(ctx).Preload("Author").Order("title ASC").Find(&books).Error
	if err != nil {
		return nil, errors.Wrap(err, "list books")
	}
	return books, nil
}

// GetBook retrieves a book by id with its author and genres populated.
func (r *Repository) GetBook(ctx context.Context, id string) (*entities.Book, error) {
	var book entities.Book
	err := r.conn(ctx).
		Preload("Author").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Where("id = ?", id).
		First(&book).Error
	if err != nil {
		return nil, notFoundOr(err, "get book")
	}
	return &book, nil
}

// BooksByAuthor returns the author's books ordered by title.
func (r *Repository) BooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.conn(ctx).Where("author_id = ?", authorID).Order("title ASC").Find(&books).Error
	if err != nil {
		return nil, errors.Wrap(err, "list books by author")
	}
	return books, nil
}

// BooksByGenre returns the books tagged with the genre ordered by title.
func (r *Repository) BooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	var books []entities.Book
	err := r.conn(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("books.title ASC").
		Find(&books).Error
	if err != nil {
		return nil, errors.Wrap(err, "list books by genre")
	}
	return books, nil
}

// CreateBook stores the book and links it to genreIDs.
func (r *Repository) CreateBook(ctx context.Context, book *entities.Book, genreIDs []string) error {
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Genres").Create(book).Error; err != nil {
			return err
		}
		return linkGenres(tx, book.ID, genreIDs)
	})
	return errors.Wrap(err, "create book")
}

// ReplaceBook overwrites the book's fields and its full genre set. Genres
// not present in genreIDs are unlinked.
func (r *Repository) ReplaceBook(ctx context.Context, id string, book *entities.Book, genreIDs []string) error {
	book.ID = id
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Book{ID: id}).Omit("Author", "Genres").Select(bookColumns).Updates(book)
		if err := affected(res, "update book"); err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return linkGenres(tx, id, genreIDs)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, "replace book")
}

func (r *Repository) DeleteBook(ctx context.Context, id string) error {
	err := r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.BookGenre{}).Error; err != nil {
			return err
		}
		return affected(tx.Where("id = ?", id).Delete(&entities.Book{}), "delete book")
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	return errors.Wrap(err, "delete book")
}

func linkGenres(tx *gorm.DB, bookID string, genreIDs []string) error {
	seen := make(map[string]bool, len(genreIDs))
	links := make([]entities.BookGenre, 0, len(genreIDs))
	for _, id := range genreIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		links = append(links, entities.BookGenre{BookID: bookID, GenreID: id})
	}
	if len(links) == 0 {
		return nil
	}
	return tx.Create(&links).Error
}
