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
)

const authorNotFound = "Author not found"

type AuthorsController struct {
	Deps
	store AuthorStore
	guard *integrity.Guard
}

func NewAuthorsController(store AuthorStore, guard *integrity.Guard, deps Deps) *AuthorsController {
	return &AuthorsController{Deps: deps, store: store, guard: guard}
}

// List renders every author sorted by family name, then first name.
// GET /catalog/author
func (ac *AuthorsController) List(c *gin.Context) {
	authors, err := ac.store.ListAuthors(c.Request.Context())
	if err != nil {
		ac.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "author_list", AuthorListPage{
		Page:    ac.page(c, "Author List"),
		Authors: authors,
	})
}

// withBooks loads an author and the books written by them.
func (ac *AuthorsController) withBooks(c *gin.Context, id string) (*entities.Author, []entities.Book, error) {
	var (
		author *entities.Author
		books  []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		author, err = ac.store.GetAuthor(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = ac.store.BooksByAuthor(ctx, id)
		return err
	})
	return author, books, g.Wait()
}

// Detail renders one author with their books.
// GET /catalog/author/:id
func (ac *AuthorsController) Detail(c *gin.Context) {
	author, books, err := ac.withBooks(c, c.Param("id"))
	if err != nil {
		ac.fail(c, err, authorNotFound)
		return
	}
	c.HTML(http.StatusOK, "author_detail", AuthorDetailPage{
		Page:   ac.page(c, "Author Detail"),
		Author: author,
		Books:  books,
	})
}

// CreateForm renders an empty author form.
// GET /catalog/author/create
func (ac *AuthorsController) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "author_form", AuthorFormPage{Page: ac.page(c, "Create Author")})
}

// Create validates and stores a new author.
// POST /catalog/author/create
func (ac *AuthorsController) Create(c *gin.Context) {
	result := forms.AuthorSchema.Validate(formValues(c))
	author := forms.AuthorFromResult(result)

	if !result.Valid() {
		ac.invalid(entities.KindAuthor, entities.AuditEventCreate)
		c.HTML(http.StatusOK, "author_form", AuthorFormPage{
			Page:        ac.page(c, "Create Author"),
			Author:      &author,
			DateOfBirth: result.DateInput("date_of_birth"),
			DateOfDeath: result.DateInput("date_of_death"),
			Errors:      result.Errors,
		})
		return
	}

	err := ac.store.CreateAuthor(c.Request.Context(), &author)
	ac.record(c, audit.Mutation{
		Type:  entities.AuditEventCreate,
		Kind:  entities.KindAuthor,
		ID:    author.ID,
		Label: display.AuthorName(author),
		Err:   err,
	})
	if err != nil {
		ac.fail(c, err, "")
		return
	}
	redirect(c, display.AuthorURL(author.ID))
}

// UpdateForm renders the form pre-filled with the stored author.
// GET /catalog/author/:id/update
func (ac *AuthorsController) UpdateForm(c *gin.Context) {
	author, err := ac.store.GetAuthor(c.Request.Context(), c.Param("id"))
	if err != nil {
		ac.fail(c, err, authorNotFound)
		return
	}
	c.HTML(http.StatusOK, "author_form", AuthorFormPage{
		Page:        ac.page(c, "Update Author"),
		Author:      author,
		DateOfBirth: display.ISODate(author.DateOfBirth),
		DateOfDeath: display.ISODate(author.DateOfDeath),
	})
}

// Update replaces every field of the author, keeping its id.
// POST /catalog/author/:id/update
func (ac *AuthorsController) Update(c *gin.Context) {
	id := c.Param("id")
	result := forms.AuthorSchema.Validate(formValues(c))
	author := forms.AuthorFromResult(result)
	author.ID = id

	if !result.Valid() {
		ac.invalid(entities.KindAuthor, entities.AuditEventUpdate)
		c.HTML(http.StatusOK, "author_form", AuthorFormPage{
			Page:        ac.page(c, "Update Author"),
			Author:      &author,
			DateOfBirth: result.DateInput("date_of_birth"),
			DateOfDeath: result.DateInput("date_of_death"),
			Errors:      result.Errors,
		})
		return
	}

	err := ac.store.ReplaceAuthor(c.Request.Context(), id, &author)
	if errors.Is(err, catalog.ErrNotFound) {
		ac.fail(c, err, authorNotFound)
		return
	}
	ac.record(c, audit.Mutation{
		Type:  entities.AuditEventUpdate,
		Kind:  entities.KindAuthor,
		ID:    id,
		Label: display.AuthorName(author),
		Err:   err,
	})
	if err != nil {
		ac.fail(c, err, "")
		return
	}
	redirect(c, display.AuthorURL(id))
}

// DeleteForm asks for confirmation, or lists the books that must go first.
// An author that no longer exists redirects to the list.
// GET /catalog/author/:id/delete
func (ac *AuthorsController) DeleteForm(c *gin.Context) {
	author, books, err := ac.withBooks(c, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/authors")
		return
	}
	if err != nil {
		ac.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "author_delete", AuthorDeletePage{
		Page:   ac.page(c, "Delete Author"),
		Author: author,
		Books:  books,
	})
}

// Delete removes an author no book refers to.
// POST /catalog/author/:id/delete
func (ac *AuthorsController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	author, err := ac.store.GetAuthor(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/authors")
		return
	}
	if err != nil {
		ac.fail(c, err, "")
		return
	}

	blocking, err := ac.guard.Count(ctx, entities.KindAuthor, id)
	if err != nil {
		ac.fail(c, err, "")
		return
	}
	if blocking > 0 {
		deps, err := ac.guard.Dependents(ctx, entities.KindAuthor, id)
		if err != nil {
			ac.fail(c, err, "")
			return
		}
		ac.conflict(entities.KindAuthor, id, deps)
		c.HTML(http.StatusConflict, "author_delete", AuthorDeletePage{
			Page:   ac.page(c, "Delete Author"),
			Author: author,
			Books:  deps.Books,
		})
		return
	}

	err = ac.store.DeleteAuthor(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/authors")
		return
	}
	ac.record(c, audit.Mutation{
		Type:  entities.AuditEventDelete,
		Kind:  entities.KindAuthor,
		ID:    id,
		Label: display.AuthorName(*author),
		Err:   err,
	})
	if err != nil {
		ac.fail(c, err, "")
		return
	}

	ac.flash(c, "Author deleted: "+display.AuthorName(*author))
	redirect(c, "/catalog/authors")
}
