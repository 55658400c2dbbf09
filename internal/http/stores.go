package http

import (
	"context"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
)

// Each controller declares the slice of the catalog it reads and writes.
// CatalogStore combines them for wiring.

type AuthorStore interface {
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	GetAuthor(ctx context.Context, id string) (*entities.Author, error)
	BooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	ReplaceAuthor(ctx context.Context, id string, author *entities.Author) error
	DeleteAuthor(ctx context.Context, id string) error
}

type GenreStore interface {
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	GetGenre(ctx context.Context, id string) (*entities.Genre, error)
	FindGenreByName(ctx context.Context, name string) (*entities.Genre, error)
	BooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	ReplaceGenre(ctx context.Context, id string, genre *entities.Genre) error
	DeleteGenre(ctx context.Context, id string) error
}

type BookStore interface {
	ListBooks(ctx context.Context) ([]entities.Book, error)
	GetBook(ctx context.Context, id string) (*entities.Book, error)
	ListAuthors(ctx context.Context) ([]entities.Author, error)
	ListGenres(ctx context.Context) ([]entities.Genre, error)
	InstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
	CreateBook(ctx context.Context, book *entities.Book, genreIDs []string) error
	ReplaceBook(ctx context.Context, id string, book *entities.Book, genreIDs []string) error
	DeleteBook(ctx context.Context, id string) error
}

type BookInstanceStore interface {
	ListBookInstances(ctx context.Context) ([]entities.BookInstance, error)
	GetBookInstance(ctx context.Context, id string) (*entities.BookInstance, error)
	ListBooks(ctx context.Context) ([]entities.Book, error)
	CreateBookInstance(ctx context.Context, instance *entities.BookInstance) error
	ReplaceBookInstance(ctx context.Context, id string, instance *entities.BookInstance) error
	DeleteBookInstance(ctx context.Context, id string) error
}

type CountStore interface {
	CountBooks(ctx context.Context) (int64, error)
	CountBookInstances(ctx context.Context) (int64, error)
	CountAvailableBookInstances(ctx context.Context) (int64, error)
	CountAuthors(ctx context.Context) (int64, error)
	CountGenres(ctx context.Context) (int64, error)
}

// CatalogStore is everything the catalog controllers need from persistence.
type CatalogStore interface {
	AuthorStore
	GenreStore
	BookStore
	BookInstanceStore
	CountStore
}

// AuditLogger records catalog mutations.
type AuditLogger interface {
	LogMutation(m audit.Mutation)
}

// AuditReader serves the change history page.
type AuditReader interface {
	GetEvents(ctx context.Context, kind entities.Kind, limit, offset int) ([]entities.AuditEvent, int64, error)
}

// Pinger reports database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

var (
	_ CatalogStore    = (*catalog.Repository)(nil)
	_ integrity.Store = (*catalog.Repository)(nil)
	_ AuditLogger     = (*audit.Service)(nil)
	_ AuditReader     = (*audit.Service)(nil)
)
