package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database"
	auditdb "github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/middleware"
)

type testServer struct {
	router *gin.Engine
	repo   *catalog.Repository
	audit  *audit.Service
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.NewDatabase(database.Options{
		Path:     filepath.Join(t.TempDir(), "catalog.db"),
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)

	repo := catalog.NewRepository(db.DB)
	auditService := audit.NewService(auditdb.NewRepository(db.DB), nil)
	t.Cleanup(func() {
		auditService.Wait()
		db.Close()
	})

	sessions, err := middleware.NewSessionManager(nil, time.Hour, false)
	require.NoError(t, err)

	router, err := NewRouter(RouterConfig{
		Store:    repo,
		Guard:    integrity.NewGuard(repo),
		Audit:    auditService,
		Database: db,
		Sessions: sessions,
		Metrics:  middleware.NewMetrics(),
		Version:  "test",
	})
	require.NoError(t, err)

	return &testServer{router: router, repo: repo, audit: auditService}
}

func (s *testServer) get(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// fixtures creates an author with one book filed under one genre.
func (s *testServer) fixtures(t *testing.T) (*entities.Author, *entities.Genre, *entities.Book) {
	t.Helper()
	ctx := context.Background()

	author := &entities.Author{FirstName: "Patrick", FamilyName: "Rothfuss"}
	require.NoError(t, s.repo.CreateAuthor(ctx, author))
	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, s.repo.CreateGenre(ctx, genre))
	book := &entities.Book{
		Title:    "The Name of the Wind",
		AuthorID: author.ID,
		Summary:  "A tale.",
		ISBN:     "9781473211896",
	}
	require.NoError(t, s.repo.CreateBook(ctx, book, []string{genre.ID}))
	return author, genre, book
}

func TestIndex(t *testing.T) {
	s := setupTestServer(t)
	_, _, book := s.fixtures(t)
	require.NoError(t, s.repo.CreateBookInstance(context.Background(), &entities.BookInstance{
		BookID: book.ID, Imprint: "Gollancz, 2007", Status: entities.StatusAvailable,
	}))

	t.Run("root redirects to catalog", func(t *testing.T) {
		w := s.get(t, "/")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog", w.Header().Get("Location"))
	})

	t.Run("shows counts", func(t *testing.T) {
		w := s.get(t, "/catalog")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "<strong>Books:</strong> 1")
		assert.Contains(t, body, "<strong>Copies available:</strong> 1")
		assert.Contains(t, body, "<strong>Genres:</strong> 1")
	})
}

func TestAuthors(t *testing.T) {
	t.Run("list is sorted by family name then first name", func(t *testing.T) {
		s := setupTestServer(t)
		ctx := context.Background()
		for _, a := range []entities.Author{
			{FirstName: "Isaac", FamilyName: "Asimov"},
			{FirstName: "Ben", FamilyName: "Bova"},
			{FirstName: "Adam", FamilyName: "Asimov"},
		} {
			a := a
			require.NoError(t, s.repo.CreateAuthor(ctx, &a))
		}

		for _, path := range []string{"/catalog/author", "/catalog/authors"} {
			w := s.get(t, path)
			require.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()

			adam := strings.Index(body, "Asimov, Adam")
			isaac := strings.Index(body, "Asimov, Isaac")
			ben := strings.Index(body, "Bova, Ben")
			require.True(t, adam >= 0 && isaac >= 0 && ben >= 0, path)
			assert.Less(t, adam, isaac)
			assert.Less(t, isaac, ben)
		}
	})

	t.Run("invalid create re-renders with every error", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.post(t, "/catalog/author/create", url.Values{
			"first_name":    {"  "},
			"family_name":   {""},
			"date_of_birth": {"not-a-date"},
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "First name must be specified.")
		assert.Contains(t, body, "Family name must be specified.")
		assert.Contains(t, body, "Invalid date of birth")
		assert.Equal(t, 1, strings.Count(body, "First name must"))
		assert.NotContains(t, body, "must not exceed")
		assert.Contains(t, body, `name="date_of_birth" value="not-a-date"`)

		authors, err := s.repo.ListAuthors(context.Background())
		require.NoError(t, err)
		assert.Empty(t, authors)
	})

	t.Run("create redirects to the new author", func(t *testing.T) {
		s := setupTestServer(t)

		w := s.post(t, "/catalog/author/create", url.Values{
			"first_name":    {"Ursula"},
			"family_name":   {"Le Guin"},
			"date_of_birth": {"1929-10-21"},
		})

		require.Equal(t, http.StatusFound, w.Code)
		authors, err := s.repo.ListAuthors(context.Background())
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "/catalog/author/"+authors[0].ID, w.Header().Get("Location"))
		require.NotNil(t, authors[0].DateOfBirth)
		assert.Nil(t, authors[0].DateOfDeath)

		detail := s.get(t, w.Header().Get("Location"))
		require.Equal(t, http.StatusOK, detail.Code)
		assert.Contains(t, detail.Body.String(), "Oct 21, 1929")
	})

	t.Run("detail of a missing author is not found", func(t *testing.T) {
		s := setupTestServer(t)
		w := s.get(t, "/catalog/author/missing")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Author not found")
	})

	t.Run("delete is refused while books remain", func(t *testing.T) {
		s := setupTestServer(t)
		author, _, book := s.fixtures(t)

		w := s.post(t, "/catalog/author/"+author.ID+"/delete", url.Values{"authorid": {author.ID}})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), book.Title)
		_, err := s.repo.GetAuthor(context.Background(), author.ID)
		assert.NoError(t, err)
	})

	t.Run("delete form of a missing author redirects to the list", func(t *testing.T) {
		s := setupTestServer(t)
		w := s.get(t, "/catalog/author/missing/delete")
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/authors", w.Header().Get("Location"))
	})
}

func TestGenres(t *testing.T) {
	t.Run("delete of a referenced genre is refused", func(t *testing.T) {
		s := setupTestServer(t)
		_, genre, book := s.fixtures(t)

		w := s.post(t, "/catalog/genre/"+genre.ID+"/delete", url.Values{"genreid": {genre.ID}})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following books")
		assert.Contains(t, w.Body.String(), book.Title)

		_, err := s.repo.GetGenre(context.Background(), genre.ID)
		assert.NoError(t, err, "genre must survive a refused delete")
	})

	t.Run("delete of an unreferenced genre succeeds", func(t *testing.T) {
		s := setupTestServer(t)
		genre := &entities.Genre{Name: "Poetry"}
		require.NoError(t, s.repo.CreateGenre(context.Background(), genre))

		w := s.post(t, "/catalog/genre/"+genre.ID+"/delete", url.Values{"genreid": {genre.ID}})
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/genres", w.Header().Get("Location"))

		list := s.get(t, "/catalog/genres", w.Result().Cookies()...)
		assert.Contains(t, list.Body.String(), "Genre deleted: Poetry")

		detail := s.get(t, "/catalog/genre/"+genre.ID)
		assert.Equal(t, http.StatusNotFound, detail.Code)
	})

	t.Run("short names are rejected", func(t *testing.T) {
		s := setupTestServer(t)
		w := s.post(t, "/catalog/genre/create", url.Values{"name": {"ab"}})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Genre name must contain at least 3 characters")
	})

	t.Run("existing name redirects to the existing genre", func(t *testing.T) {
		s := setupTestServer(t)
		genre := &entities.Genre{Name: "Fantasy"}
		require.NoError(t, s.repo.CreateGenre(context.Background(), genre))

		w := s.post(t, "/catalog/genre/create", url.Values{"name": {" fantasy "}})

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/genre/"+genre.ID, w.Header().Get("Location"))
		genres, err := s.repo.ListGenres(context.Background())
		require.NoError(t, err)
		assert.Len(t, genres, 1)
	})

	t.Run("names are escaped once", func(t *testing.T) {
		s := setupTestServer(t)
		w := s.post(t, "/catalog/genre/create", url.Values{"name": {"Sci-Fi & <Horror>"}})
		require.Equal(t, http.StatusFound, w.Code)

		detail := s.get(t, w.Header().Get("Location"))
		body := detail.Body.String()
		assert.Contains(t, body, "Sci-Fi &amp; &lt;Horror&gt;")
		assert.NotContains(t, body, "&amp;lt;")
	})
}

func TestBooks(t *testing.T) {
	t.Run("list is sorted by title", func(t *testing.T) {
		s := setupTestServer(t)
		author, _, _ := s.fixtures(t)
		require.NoError(t, s.repo.CreateBook(context.Background(), &entities.Book{
			Title: "Apprentice", AuthorID: author.ID, Summary: "s", ISBN: "1",
		}, nil))

		w := s.get(t, "/catalog/books")
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Less(t, strings.Index(body, "Apprentice"), strings.Index(body, "The Name of the Wind"))
	})

	t.Run("update replaces every field and keeps the id", func(t *testing.T) {
		s := setupTestServer(t)
		author, fantasy, book := s.fixtures(t)
		ctx := context.Background()
		epic := &entities.Genre{Name: "Epic"}
		require.NoError(t, s.repo.CreateGenre(ctx, epic))

		w := s.post(t, "/catalog/book/"+book.ID+"/update", url.Values{
			"title":   {"The Wise Man's Fear"},
			"author":  {author.ID},
			"summary": {"The sequel."},
			"isbn":    {"9780756404734"},
			"genre":   {epic.ID},
		})

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/book/"+book.ID, w.Header().Get("Location"))

		updated, err := s.repo.GetBook(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, book.ID, updated.ID)
		assert.Equal(t, "The Wise Man&#x27;s Fear", updated.Title)
		assert.Equal(t, "The sequel.", updated.Summary)
		assert.Equal(t, []string{epic.ID}, updated.GenreIDs())
		assert.NotContains(t, updated.GenreIDs(), fantasy.ID)
	})

	t.Run("update without genres clears them", func(t *testing.T) {
		s := setupTestServer(t)
		author, _, book := s.fixtures(t)

		w := s.post(t, "/catalog/book/"+book.ID+"/update", url.Values{
			"title":   {book.Title},
			"author":  {author.ID},
			"summary": {book.Summary},
			"isbn":    {book.ISBN},
		})
		require.Equal(t, http.StatusFound, w.Code)

		updated, err := s.repo.GetBook(context.Background(), book.ID)
		require.NoError(t, err)
		assert.Empty(t, updated.Genres)
	})

	t.Run("unknown author is a validation error", func(t *testing.T) {
		s := setupTestServer(t)
		_, genre, _ := s.fixtures(t)

		w := s.post(t, "/catalog/book/create", url.Values{
			"title":   {"Orphan"},
			"author":  {"no-such-author"},
			"summary": {"s"},
			"isbn":    {"1"},
			"genre":   {genre.ID},
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Author not found")
		assert.Contains(t, body, `value="Orphan"`)
		assert.Contains(t, body, `value="`+genre.ID+`" checked`)
	})

	t.Run("update of a missing book is not found", func(t *testing.T) {
		s := setupTestServer(t)
		author, _, _ := s.fixtures(t)

		w := s.post(t, "/catalog/book/missing/update", url.Values{
			"title": {"t"}, "author": {author.ID}, "summary": {"s"}, "isbn": {"1"},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete is refused while copies remain", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)
		require.NoError(t, s.repo.CreateBookInstance(context.Background(), &entities.BookInstance{
			BookID: book.ID, Imprint: "Gollancz",
		}))

		w := s.post(t, "/catalog/book/"+book.ID+"/delete", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Delete the following copies")
	})
}

func TestBookInstances(t *testing.T) {
	t.Run("create without a book keeps the other values", func(t *testing.T) {
		s := setupTestServer(t)
		s.fixtures(t)

		w := s.post(t, "/catalog/bookinstance/create", url.Values{
			"book":     {""},
			"imprint":  {"  Penguin & Sons "},
			"status":   {"Loaned"},
			"due_back": {"2030-01-15"},
		})

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Book must be specified")
		assert.Contains(t, body, `value="Penguin &amp; Sons"`)
		assert.Contains(t, body, `value="2030-01-15"`)
		assert.Contains(t, body, `value="Loaned" selected`)

		instances, err := s.repo.ListBookInstances(context.Background())
		require.NoError(t, err)
		assert.Empty(t, instances)
	})

	t.Run("invalid due date is shown as typed", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)

		w := s.post(t, "/catalog/bookinstance/create", url.Values{
			"book": {book.ID}, "imprint": {"Tor"}, "due_back": {"2030-02-30"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Invalid date")
		assert.Contains(t, body, `name="due_back" value="2030-02-30"`)
	})

	t.Run("update form pre-fills the due date", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)
		instance := &entities.BookInstance{
			BookID:  book.ID,
			Imprint: "Gollancz",
			DueBack: time.Date(2031, 3, 9, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, s.repo.CreateBookInstance(context.Background(), instance))

		w := s.get(t, "/catalog/bookinstance/"+instance.ID+"/update")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `name="due_back" value="2031-03-09"`)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)

		w := s.post(t, "/catalog/bookinstance/create", url.Values{
			"book": {book.ID}, "imprint": {"x"}, "status": {"Lost"},
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid status")
	})

	t.Run("create defaults status and due date", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)

		w := s.post(t, "/catalog/bookinstance/create", url.Values{
			"book": {book.ID}, "imprint": {"Gollancz"},
		})
		require.Equal(t, http.StatusFound, w.Code)

		instances, err := s.repo.InstancesByBook(context.Background(), book.ID)
		require.NoError(t, err)
		require.Len(t, instances, 1)
		assert.Equal(t, entities.StatusMaintenance, instances[0].Status)
		assert.WithinDuration(t, time.Now(), instances[0].DueBack, time.Minute)
		assert.Equal(t, "/catalog/bookinstance/"+instances[0].ID, w.Header().Get("Location"))
	})

	t.Run("delete returns to the book", func(t *testing.T) {
		s := setupTestServer(t)
		_, _, book := s.fixtures(t)
		instance := &entities.BookInstance{BookID: book.ID, Imprint: "Gollancz"}
		require.NoError(t, s.repo.CreateBookInstance(context.Background(), instance))

		w := s.post(t, "/catalog/bookinstance/"+instance.ID+"/delete", nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/catalog/book/"+book.ID, w.Header().Get("Location"))

		_, err := s.repo.GetBookInstance(context.Background(), instance.ID)
		assert.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("missing copy is not found on delete", func(t *testing.T) {
		s := setupTestServer(t)
		assert.Equal(t, http.StatusNotFound, s.get(t, "/catalog/bookinstance/missing/delete").Code)
		assert.Equal(t, http.StatusNotFound, s.post(t, "/catalog/bookinstance/missing/delete", nil).Code)
	})
}

func TestAuditHistory(t *testing.T) {
	s := setupTestServer(t)

	w := s.post(t, "/catalog/genre/create", url.Values{"name": {"Mystery"}})
	require.Equal(t, http.StatusFound, w.Code)
	s.audit.Wait()

	req := httptest.NewRequest(http.MethodGet, "/catalog/audit?kind=genre", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AuditEventsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "genre_create", resp.Events[0].Action)
	assert.Equal(t, entities.AuditStatusSuccess, resp.Events[0].Status)
	assert.False(t, resp.HasMore)

	html := s.get(t, "/catalog/audit")
	require.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), "genre_create")
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupTestServer(t)

	w := s.get(t, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, "ok", health.Checks["database"])

	s.get(t, "/catalog/genres")
	metrics := s.get(t, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `route="/catalog/genres"`)
}

func TestNoRoute(t *testing.T) {
	s := setupTestServer(t)
	w := s.get(t, "/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not Found")
}
