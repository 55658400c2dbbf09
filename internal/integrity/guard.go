// Package integrity answers whether a catalog record may be deleted and
// whether the references on a submitted record point at existing records.
//
// The check runs before the write and is not transactional against
// concurrent writers: a dependent created between Dependents and the delete
// is not detected.
package integrity

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mrlokans/locallibrary/internal/entities"
)

//go:generate go run github.com/golang/mock/mockgen -source=guard.go -destination=mocks/mock.go

// Store is the slice of the persistence collaborator the guard reads from.
type Store interface {
	BooksByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	BooksByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
	InstancesByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
	CountReferencing(ctx context.Context, kind entities.Kind, field string, id string) (int64, error)
	CountByIDs(ctx context.Context, kind entities.Kind, ids []string) (int64, error)
}

// Reference is one field of one entity kind that points at another record.
type Reference struct {
	Kind  entities.Kind
	Field string
}

// References lists, per referenced kind, the fields that point at it.
var References = map[entities.Kind][]Reference{
	entities.KindAuthor: {{Kind: entities.KindBook, Field: "author"}},
	entities.KindGenre:  {{Kind: entities.KindBook, Field: "genre"}},
	entities.KindBook:   {{Kind: entities.KindBookInstance, Field: "book"}},
}

// Dependents are the records blocking the deletion of another record.
type Dependents struct {
	Books     []entities.Book
	Instances []entities.BookInstance
}

func (d Dependents) Count() int {
	return len(d.Books) + len(d.Instances)
}

// Blocked reports whether deletion must be refused.
func (d Dependents) Blocked() bool {
	return d.Count() > 0
}

type Guard struct {
	store Store
}

func NewGuard(store Store) *Guard {
	return &Guard{store: store}
}

// Count returns the number of records referencing the record of kind with id.
func (g *Guard) Count(ctx context.Context, kind entities.Kind, id string) (int64, error) {
	var total int64
	for _, ref := range References[kind] {
		n, err := g.store.CountReferencing(ctx, ref.Kind, ref.Field, id)
		if err != nil {
			return 0, errors.Wrapf(err, "count %s references to %s", ref.Kind, kind)
		}
		total += n
	}
	return total, nil
}

// Dependents lists the records referencing the record of kind with id.
// Bookinstances have no dependents.
func (g *Guard) Dependents(ctx context.Context, kind entities.Kind, id string) (Dependents, error) {
	var (
		deps Dependents
		err  error
	)

	switch kind {
	case entities.KindAuthor:
		deps.Books, err = g.store.BooksByAuthor(ctx, id)
	case entities.KindGenre:
		deps.Books, err = g.store.BooksByGenre(ctx, id)
	case entities.KindBook:
		deps.Instances, err = g.store.InstancesByBook(ctx, id)
	case entities.KindBookInstance:
	default:
		return deps, errors.Errorf("unknown entity kind %q", kind)
	}

	if err != nil {
		return Dependents{}, errors.Wrapf(err, "list dependents of %s", kind)
	}
	return deps, nil
}

// Exists reports whether every id names an existing record of kind.
// Empty and repeated ids are ignored.
func (g *Guard) Exists(ctx context.Context, kind entities.Kind, ids []string) (bool, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return true, nil
	}

	n, err := g.store.CountByIDs(ctx, kind, unique)
	if err != nil {
		return false, errors.Wrapf(err, "check %s references", kind)
	}
	return n == int64(len(unique)), nil
}
