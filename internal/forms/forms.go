// Package forms declares the validation schema of every catalog form and
// turns a validated result into the record it describes.
package forms

import (
	"context"
	"time"

	"github.com/mrlokans/locallibrary/internal/entities"
	"github.com/mrlokans/locallibrary/internal/integrity"
	v "github.com/mrlokans/locallibrary/internal/validation"
)

var AuthorSchema = v.Schema{
	v.NewField("first_name",
		v.Trim(),
		v.Required("First name must be specified."),
		v.MaxLength(100, "First name must not exceed 100 characters."),
		v.Escape(),
	),
	v.NewField("family_name",
		v.Trim(),
		v.Required("Family name must be specified."),
		v.MaxLength(100, "Family name must not exceed 100 characters."),
		v.Escape(),
	),
	v.NewField("date_of_birth", v.Optional(""), v.ISODate("Invalid date of birth")),
	v.NewField("date_of_death", v.Optional(""), v.ISODate("Invalid date of death")),
}

var GenreSchema = v.Schema{
	v.NewField("name",
		v.Trim(),
		v.Length(3, 100, "Genre name must contain at least 3 characters"),
		v.Escape(),
	),
}

var BookSchema = v.Schema{
	v.NewField("title", v.Trim(), v.Required("Title must not be empty."), v.Escape()),
	v.NewField("author", v.Trim(), v.Required("Author must not be empty."), v.Escape()),
	v.NewField("summary", v.Trim(), v.Required("Summary must not be empty."), v.Escape()),
	v.NewField("isbn", v.Trim(), v.Required("ISBN must not be empty"), v.Escape()),
	v.Each("genre", v.Trim(), v.Escape()),
}

var BookInstanceSchema = v.Schema{
	v.NewField("book", v.Trim(), v.Required("Book must be specified"), v.Escape()),
	v.NewField("imprint", v.Trim(), v.Required("Imprint must be specified"), v.Escape()),
	v.NewField("status",
		v.Trim(),
		v.Optional(string(entities.StatusMaintenance)),
		v.Escape(),
		v.OneOf("Invalid status", statusValues()...),
	),
	v.NewField("due_back", v.Optional(""), v.ISODate("Invalid date")),
}

func statusValues() []string {
	values := make([]string, len(entities.BookInstanceStatuses))
	for i, s := range entities.BookInstanceStatuses {
		values[i] = string(s)
	}
	return values
}

func AuthorFromResult(r v.Result) entities.Author {
	return entities.Author{
		FirstName:   r.Get("first_name"),
		FamilyName:  r.Get("family_name"),
		DateOfBirth: r.Date("date_of_birth"),
		DateOfDeath: r.Date("date_of_death"),
	}
}

func GenreFromResult(r v.Result) entities.Genre {
	return entities.Genre{Name: r.Get("name")}
}

func BookFromResult(r v.Result) entities.Book {
	return entities.Book{
		Title:    r.Get("title"),
		AuthorID: r.Get("author"),
		Summary:  r.Get("summary"),
		ISBN:     r.Get("isbn"),
	}
}

// BookInstanceFromResult defaults an empty due-back date to now.
func BookInstanceFromResult(r v.Result) entities.BookInstance {
	instance := entities.BookInstance{
		BookID:  r.Get("book"),
		Imprint: r.Get("imprint"),
		Status:  entities.BookInstanceStatus(r.Get("status")),
		DueBack: time.Now(),
	}
	if due := r.Date("due_back"); due != nil {
		instance.DueBack = *due
	}
	return instance
}

// CheckBookReferences rejects an author or genre that does not exist.
// Fields that already failed validation are not looked up.
func CheckBookReferences(ctx context.Context, guard *integrity.Guard, r *v.Result) error {
	if !r.HasError("author") {
		ok, err := guard.Exists(ctx, entities.KindAuthor, []string{r.Get("author")})
		if err != nil {
			return err
		}
		if !ok {
			r.AddError("author", "Author not found")
		}
	}

	ok, err := guard.Exists(ctx, entities.KindGenre, r.All("genre"))
	if err != nil {
		return err
	}
	if !ok {
		r.AddError("genre", "Genre not found")
	}
	return nil
}

func CheckBookInstanceReferences(ctx context.Context, guard *integrity.Guard, r *v.Result) error {
	if r.HasError("book") {
		return nil
	}
	ok, err := guard.Exists(ctx, entities.KindBook, []string{r.Get("book")})
	if err != nil {
		return err
	}
	if !ok {
		r.AddError("book", "Book not found")
	}
	return nil
}
