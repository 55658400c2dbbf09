// Package seed populates an empty catalog with a small demo library.
//
// Every record goes through the same form schemas and reference checks
// as a submission from the web interface.
package seed

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mrlokans/locallibrary/internal/audit"
	"github.com/mrlokans/locallibrary/internal/database/catalog"
	"github.com/mrlokans/locallibrary/internal/display"
	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/forms"
	"github.com/mrlokans/locallibrary/internal/integrity"
	"github.com/mrlokans/locallibrary/internal/validation"
)

// ErrNotEmpty is returned when the catalog already has authors and Force
// is not set.
var ErrNotEmpty = errors.New("catalog is not empty")

// Store is the persistence the seeder writes through.
type Store interface {
	CountAuthors(ctx context.Context) (int64, error)
	FindGenreByName(ctx context.Context, name string) (*entities.Genre, error)
	CreateAuthor(ctx context.Context, author *entities.Author) error
	CreateGenre(ctx context.Context, genre *entities.Genre) error
	CreateBook(ctx context.Context, book *entities.Book, genreIDs []string) error
	CreateBookInstance(ctx context.Context, instance *entities.BookInstance) error
}

// AuditLogger records the created records.
type AuditLogger interface {
	LogMutation(m audit.Mutation)
}

// Summary counts the records created by one run.
type Summary struct {
	Authors       int
	Genres        int
	Books         int
	BookInstances int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d authors, %d genres, %d books, %d copies",
		s.Authors, s.Genres, s.Books, s.BookInstances)
}

type Seeder struct {
	store  Store
	guard  *integrity.Guard
	audit  AuditLogger
	logger *zap.Logger

	// Force seeds a catalog that already has records.
	Force bool
}

func NewSeeder(store Store, guard *integrity.Guard, auditLogger AuditLogger, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{store: store, guard: guard, audit: auditLogger, logger: logger}
}

// Run creates the demo catalog.
func (s *Seeder) Run(ctx context.Context, lib Library) (Summary, error) {
	var summary Summary

	if !s.Force {
		n, err := s.store.CountAuthors(ctx)
		if err != nil {
			return summary, err
		}
		if n > 0 {
			return summary, ErrNotEmpty
		}
	}

	authorIDs := make(map[string]string, len(lib.Authors))
	for _, a := range lib.Authors {
		result, err := s.validate(ctx, forms.AuthorSchema, a.form(), nil)
		if err != nil {
			return summary, errors.Wrapf(err, "author %s", a.Key)
		}
		author := forms.AuthorFromResult(result)
		if err := s.store.CreateAuthor(ctx, &author); err != nil {
			return summary, errors.Wrapf(err, "create author %s", a.Key)
		}
		authorIDs[a.Key] = author.ID
		s.created(entities.KindAuthor, author.ID, display.AuthorName(author))
		summary.Authors++
	}

	genreIDs := make(map[string]string, len(lib.Genres))
	for _, name := range lib.Genres {
		result, err := s.validate(ctx, forms.GenreSchema, url.Values{"name": {name}}, nil)
		if err != nil {
			return summary, errors.Wrapf(err, "genre %s", name)
		}
		genre := forms.GenreFromResult(result)

		existing, err := s.store.FindGenreByName(ctx, genre.Name)
		switch {
		case err == nil:
			genreIDs[name] = existing.ID
			continue
		case !errors.Is(err, catalog.ErrNotFound):
			return summary, err
		}

		if err := s.store.CreateGenre(ctx, &genre); err != nil {
			return summary, errors.Wrapf(err, "create genre %s", name)
		}
		genreIDs[name] = genre.ID
		s.created(entities.KindGenre, genre.ID, genre.Name)
		summary.Genres++
	}

	bookIDs := make(map[string]string, len(lib.Books))
	for _, b := range lib.Books {
		result, err := s.validate(ctx, forms.BookSchema, b.form(authorIDs, genreIDs), forms.CheckBookReferences)
		if err != nil {
			return summary, errors.Wrapf(err, "book %s", b.Key)
		}
		book := forms.BookFromResult(result)
		if err := s.store.CreateBook(ctx, &book, result.All("genre")); err != nil {
			return summary, errors.Wrapf(err, "create book %s", b.Key)
		}
		bookIDs[b.Key] = book.ID
		s.created(entities.KindBook, book.ID, book.Title)
		summary.Books++
	}

	for i, bi := range lib.Copies {
		result, err := s.validate(ctx, forms.BookInstanceSchema, bi.form(bookIDs), forms.CheckBookInstanceReferences)
		if err != nil {
			return summary, errors.Wrapf(err, "copy %d of %s", i, bi.Book)
		}
		instance := forms.BookInstanceFromResult(result)
		if err := s.store.CreateBookInstance(ctx, &instance); err != nil {
			return summary, errors.Wrapf(err, "create copy %d of %s", i, bi.Book)
		}
		s.created(entities.KindBookInstance, instance.ID, instance.Imprint)
		summary.BookInstances++
	}

	s.logger.Info("catalog seeded", zap.Stringer("summary", summary))
	return summary, nil
}

type referenceCheck func(ctx context.Context, guard *integrity.Guard, r *validation.Result) error

// validate runs schema over form and turns any field error into an error.
func (s *Seeder) validate(ctx context.Context, schema validation.Schema, form url.Values, check referenceCheck) (validation.Result, error) {
	result := schema.Validate(form)
	if check != nil {
		if err := check(ctx, s.guard, &result); err != nil {
			return result, err
		}
	}
	if !result.Valid() {
		first := result.Errors[0]
		return result, errors.Errorf("invalid %s: %s", first.Field, first.Message)
	}
	return result, nil
}

func (s *Seeder) created(kind entities.Kind, id, label string) {
	s.logger.Debug("created", zap.String("kind", string(kind)), zap.String("id", id))
	if s.audit != nil {
		s.audit.LogMutation(audit.Mutation{
			Type:  entities.AuditEventCreate,
			Kind:  kind,
			ID:    id,
			Label: label,
		})
	}
}
