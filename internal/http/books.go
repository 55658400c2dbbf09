package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/display"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/validation"
)

const bookNotFound = "Book not found"

type BooksController struct {
	Deps
	store BookStore
	guard *integrity.Guard
}

func NewBooksController(store BookStore, guard *integrity.Guard, deps Deps) *BooksController {
	return &BooksController{Deps: deps, store: store, guard: guard}
}

// List renders every book with its author, sorted by title.
// GET /catalog/book
func (bc *BooksController) List(c *gin.Context) {
	books, err := bc.store.ListBooks(c.Request.Context())
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "book_list", BookListPage{
		Page:  bc.page(c, "Book List"),
		Books: books,
	})
}

func (bc *BooksController) withInstances(c *gin.Context, id string) (*entities.Book, []entities.BookInstance, error) {
	var (
		book      *entities.Book
		instances []entities.BookInstance
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		book, err = bc.store.GetBook(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		instances, err = bc.store.InstancesByBook(ctx, id)
		return err
	})
	return book, instances, g.Wait()
}

// GET /catalog/book/:id
func (bc *BooksController) Detail(c *gin.Context) {
	book, instances, err := bc.withInstances(c, c.Param("id"))
	if err != nil {
		bc.fail(c, err, bookNotFound)
		return
	}
	c.HTML(http.StatusOK, "book_detail", BookDetailPage{
		Page:      bc.page(c, book.Title),
		Book:      book,
		Instances: instances,
	})
}

// choices loads the authors and genres a book form offers.
func (bc *BooksController) choices(c *gin.Context) ([]entities.Author, []entities.Genre, error) {
	var (
		authors []entities.Author
		genres  []entities.Genre
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		authors, err = bc.store.ListAuthors(ctx)
		return err
	})
	g.Go(func() (err error) {
		genres, err = bc.store.ListGenres(ctx)
		return err
	})
	return authors, genres, g.Wait()
}

// renderForm shows the book form with the reference choices loaded.
func (bc *BooksController) renderForm(c *gin.Context, title string, book *entities.Book, author string, genreIDs []string, errs []validation.FieldError) {
	authors, genres, err := bc.choices(c)
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "book_form", BookFormPage{
		Page:           bc.page(c, title),
		Book:           book,
		Authors:        authors,
		Genres:         genres,
		SelectedAuthor: author,
		CheckedGenres:  checkedGenres(genreIDs),
		Errors:         errs,
	})
}

// GET /catalog/book/create
func (bc *BooksController) CreateForm(c *gin.Context) {
	bc.renderForm(c, "Create Book", nil, "", nil, nil)
}

// validate runs the book form and checks that its author and genres exist.
func (bc *BooksController) validate(c *gin.Context) (validation.Result, error) {
	result := forms.BookSchema.Validate(formValues(c))
	err := forms.CheckBookReferences(c.Request.Context(), bc.guard, &result)
	return result, err
}

// POST /catalog/book/create
func (bc *BooksController) Create(c *gin.Context) {
	result, err := bc.validate(c)
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	book := forms.BookFromResult(result)
	genreIDs := result.All("genre")

	if !result.Valid() {
		bc.invalid(entities.KindBook, entities.AuditEventCreate)
		bc.renderForm(c, "Create Book", &book, book.AuthorID, genreIDs, result.Errors)
		return
	}

	err = bc.store.CreateBook(c.Request.Context(), &book, genreIDs)
	bc.record(c, audit.Mutation{
		Type:  entities.AuditEventCreate,
		Kind:  entities.KindBook,
		ID:    book.ID,
		Label: book.Title,
		Err:   err,
	})
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	redirect(c, display.BookURL(book.ID))
}

// UpdateForm pre-selects the book's current author and genres.
// GET /catalog/book/:id/update
func (bc *BooksController) UpdateForm(c *gin.Context) {
	book, err := bc.store.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		bc.fail(c, err, bookNotFound)
		return
	}
	bc.renderForm(c, "Update Book", book, book.AuthorID, book.GenreIDs(), nil)
}

// Update replaces the book's fields and genre set. Genres left unchecked
// are removed.
// POST /catalog/book/:id/update
func (bc *BooksController) Update(c *gin.Context) {
	id := c.Param("id")
	result, err := bc.validate(c)
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	book := forms.BookFromResult(result)
	book.ID = id
	genreIDs := result.All("genre")

	if !result.Valid() {
		bc.invalid(entities.KindBook, entities.AuditEventUpdate)
		bc.renderForm(c, "Update Book", &book, book.AuthorID, genreIDs, result.Errors)
		return
	}

	err = bc.store.ReplaceBook(c.Request.Context(), id, &book, genreIDs)
	if errors.Is(err, catalog.ErrNotFound) {
		bc.fail(c, err, bookNotFound)
		return
	}
	bc.record(c, audit.Mutation{
		Type:  entities.AuditEventUpdate,
		Kind:  entities.KindBook,
		ID:    id,
		Label: book.Title,
		Err:   err,
	})
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	redirect(c, display.BookURL(id))
}

// GET /catalog/book/:id/delete
func (bc *BooksController) DeleteForm(c *gin.Context) {
	book, instances, err := bc.withInstances(c, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/books")
		return
	}
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "book_delete", BookDeletePage{
		Page:      bc.page(c, "Delete Book"),
		Book:      book,
		Instances: instances,
	})
}

// Delete removes a book that has no copies left.
// POST /catalog/book/:id/delete
func (bc *BooksController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	book, err := bc.store.GetBook(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/books")
		return
	}
	if err != nil {
		bc.fail(c, err, "")
		return
	}

	blocking, err := bc.guard.Count(ctx, entities.KindBook, id)
	if err != nil {
		bc.fail(c, err, "")
		return
	}
	if blocking > 0 {
		deps, err := bc.guard.Dependents(ctx, entities.KindBook, id)
		if err != nil {
			bc.fail(c, err, "")
			return
		}
		bc.conflict(entities.KindBook, id, deps)
		c.HTML(http.StatusConflict, "book_delete", BookDeletePage{
			Page:      bc.page(c, "Delete Book"),
			Book:      book,
			Instances: deps.Instances,
		})
		return
	}

	err = bc.store.DeleteBook(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/books")
		return
	}
	bc.record(c, audit.Mutation{
		Type:  entities.AuditEventDelete,
		Kind:  entities.KindBook,
		ID:    id,
		Label: book.Title,
		Err:   err,
	})
	if err != nil {
		bc.fail(c, err, "")
		return
	}

	bc.flash(c, "Book deleted: "+book.Title)
	redirect(c, "/catalog/books")
}
