package http

import (
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/validation"
)

// Page models handed to the views. Each view reads a fixed set of keys;
// none of these types carry behavior.

// Page is shared by every view.
type Page struct {
	Title     string
	CSRFToken string
	Flash     string
}

type IndexPage struct {
	Page
	Counts catalog.CatalogCounts
}

type ErrorPage struct {
	Page
	Status  int
	Message string
	Detail  string // development only
}

type AuthorListPage struct {
	Page
	Authors []entities.Author
}

type AuthorDetailPage struct {
	Page
	Author *entities.Author
	Books  []entities.Book
}

type AuthorFormPage struct {
	Page
	Author *entities.Author
	// Date inputs as yyyy-mm-dd, or as submitted when they failed to parse
	DateOfBirth string
	DateOfDeath string
	Errors      []validation.FieldError
}

type AuthorDeletePage struct {
	Page
	Author *entities.Author
	Books  []entities.Book
}

type GenreListPage struct {
	Page
	Genres []entities.Genre
}

type GenreDetailPage struct {
	Page
	Genre *entities.Genre
	Books []entities.Book
}

type GenreFormPage struct {
	Page
	Genre  *entities.Genre
	Errors []validation.FieldError
}

type GenreDeletePage struct {
	Page
	Genre *entities.Genre
	Books []entities.Book
}

type BookListPage struct {
	Page
	Books []entities.Book
}

type BookDetailPage struct {
	Page
	Book      *entities.Book
	Instances []entities.BookInstance
}

type BookFormPage struct {
	Page
	Book           *entities.Book
	Authors        []entities.Author
	Genres         []entities.Genre
	SelectedAuthor string
	CheckedGenres  map[string]bool
	Errors         []validation.FieldError
}

type BookDeletePage struct {
	Page
	Book      *entities.Book
	Instances []entities.BookInstance
}

type BookInstanceListPage struct {
	Page
	Instances []entities.BookInstance
}

type BookInstanceDetailPage struct {
	Page
	Instance *entities.BookInstance
}

type BookInstanceFormPage struct {
	Page
	Instance     *entities.BookInstance
	Books        []entities.Book
	SelectedBook string
	DueBack      string // date input, as submitted on a failed post
	Statuses     []entities.BookInstanceStatus
	Errors       []validation.FieldError
}

type BookInstanceDeletePage struct {
	Page
	Instance *entities.BookInstance
}

type AuditPage struct {
	Page
	Events []entities.AuditEvent
	Total  int64
	Kind   entities.Kind
	Limit  int
	Offset int
	Next   int // 0 when there is no further page
}
