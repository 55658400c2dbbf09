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

const genreNotFound = "Genre not found"

type GenresController struct {
	Deps
	store GenreStore
	guard *integrity.Guard
}

func NewGenresController(store GenreStore, guard *integrity.Guard, deps Deps) *GenresController {
	return &GenresController{Deps: deps, store: store, guard: guard}
}

// GET /catalog/genre
func (gc *GenresController) List(c *gin.Context) {
	genres, err := gc.store.ListGenres(c.Request.Context())
	if err != nil {
		gc.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "genre_list", GenreListPage{
		Page:   gc.page(c, "Genre List"),
		Genres: genres,
	})
}

func (gc *GenresController) withBooks(c *gin.Context, id string) (*entities.Genre, []entities.Book, error) {
	var (
		genre *entities.Genre
		books []entities.Book
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		genre, err = gc.store.GetGenre(ctx, id)
		return err
	})
	g.Go(func() (err error) {
		books, err = gc.store.BooksByGenre(ctx, id)
		return err
	})
	return genre, books, g.Wait()
}

// GET /catalog/genre/:id
func (gc *GenresController) Detail(c *gin.Context) {
	genre, books, err := gc.withBooks(c, c.Param("id"))
	if err != nil {
		gc.fail(c, err, genreNotFound)
		return
	}
	c.HTML(http.StatusOK, "genre_detail", GenreDetailPage{
		Page:  gc.page(c, "Genre Detail"),
		Genre: genre,
		Books: books,
	})
}

// GET /catalog/genre/create
func (gc *GenresController) CreateForm(c *gin.Context) {
	c.HTML(http.StatusOK, "genre_form", GenreFormPage{Page: gc.page(c, "Create Genre")})
}

// Create stores a new genre. A name that already exists, ignoring case,
// redirects to the existing genre instead.
// POST /catalog/genre/create
func (gc *GenresController) Create(c *gin.Context) {
	ctx := c.Request.Context()
	result := forms.GenreSchema.Validate(formValues(c))
	genre := forms.GenreFromResult(result)

	if !result.Valid() {
		gc.invalid(entities.KindGenre, entities.AuditEventCreate)
		c.HTML(http.StatusOK, "genre_form", GenreFormPage{
			Page:   gc.page(c, "Create Genre"),
			Genre:  &genre,
			Errors: result.Errors,
		})
		return
	}

	existing, err := gc.store.FindGenreByName(ctx, genre.Name)
	switch {
	case err == nil:
		redirect(c, display.GenreURL(existing.ID))
		return
	case !errors.Is(err, catalog.ErrNotFound):
		gc.fail(c, err, "")
		return
	}

	err = gc.store.CreateGenre(ctx, &genre)
	gc.record(c, audit.Mutation{
		Type:  entities.AuditEventCreate,
		Kind:  entities.KindGenre,
		ID:    genre.ID,
		Label: genre.Name,
		Err:   err,
	})
	if err != nil {
		gc.fail(c, err, "")
		return
	}
	redirect(c, display.GenreURL(genre.ID))
}

// GET /catalog/genre/:id/update
func (gc *GenresController) UpdateForm(c *gin.Context) {
	genre, err := gc.store.GetGenre(c.Request.Context(), c.Param("id"))
	if err != nil {
		gc.fail(c, err, genreNotFound)
		return
	}
	c.HTML(http.StatusOK, "genre_form", GenreFormPage{
		Page:  gc.page(c, "Update Genre"),
		Genre: genre,
	})
}

// POST /catalog/genre/:id/update
func (gc *GenresController) Update(c *gin.Context) {
	id := c.Param("id")
	result := forms.GenreSchema.Validate(formValues(c))
	genre := forms.GenreFromResult(result)
	genre.ID = id

	if !result.Valid() {
		gc.invalid(entities.KindGenre, entities.AuditEventUpdate)
		c.HTML(http.StatusOK, "genre_form", GenreFormPage{
			Page:   gc.page(c, "Update Genre"),
			Genre:  &genre,
			Errors: result.Errors,
		})
		return
	}

	err := gc.store.ReplaceGenre(c.Request.Context(), id, &genre)
	if errors.Is(err, catalog.ErrNotFound) {
		gc.fail(c, err, genreNotFound)
		return
	}
	gc.record(c, audit.Mutation{
		Type:  entities.AuditEventUpdate,
		Kind:  entities.KindGenre,
		ID:    id,
		Label: genre.Name,
		Err:   err,
	})
	if err != nil {
		gc.fail(c, err, "")
		return
	}
	redirect(c, display.GenreURL(id))
}

// GET /catalog/genre/:id/delete
func (gc *GenresController) DeleteForm(c *gin.Context) {
	genre, books, err := gc.withBooks(c, c.Param("id"))
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/genres")
		return
	}
	if err != nil {
		gc.fail(c, err, "")
		return
	}
	c.HTML(http.StatusOK, "genre_delete", GenreDeletePage{
		Page:  gc.page(c, "Delete Genre"),
		Genre: genre,
		Books: books,
	})
}

// Delete removes a genre no book is filed under.
// POST /catalog/genre/:id/delete
func (gc *GenresController) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	genre, err := gc.store.GetGenre(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/genres")
		return
	}
	if err != nil {
		gc.fail(c, err, "")
		return
	}

	blocking, err := gc.guard.Count(ctx, entities.KindGenre, id)
	if err != nil {
		gc.fail(c, err, "")
		return
	}
	if blocking > 0 {
		deps, err := gc.guard.Dependents(ctx, entities.KindGenre, id)
		if err != nil {
			gc.fail(c, err, "")
			return
		}
		gc.conflict(entities.KindGenre, id, deps)
		c.HTML(http.StatusConflict, "genre_delete", GenreDeletePage{
			Page:  gc.page(c, "Delete Genre"),
			Genre: genre,
			Books: deps.Books,
		})
		return
	}

	err = gc.store.DeleteGenre(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		redirect(c, "/catalog/genres")
		return
	}
	gc.record(c, audit.Mutation{
		Type:  entities.AuditEventDelete,
		Kind:  entities.KindGenre,
		ID:    id,
		Label: genre.Name,
		Err:   err,
	})
	if err != nil {
		gc.fail(c, err, "")
		return
	}

	gc.flash(c, "Genre deleted: "+genre.Name)
	redirect(c, "/catalog/genres")
}
