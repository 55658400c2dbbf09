// Package display computes the derived, human-facing values of catalog
// entities: names, lifespans, canonical URLs and formatted dates.
//
// Every function here is pure and works on the stored fields only. Page
// builders and templates call them on demand; the entity types themselves
// carry no derived state.
package display

import (
	"time"

	"github.com/mrlokans/locallibrary/internal/entities"
)

const (
	// DateMedium renders dates like "Jan 1, 1990".
	DateMedium = "Jan 2, 2006"
	// DateISO is the yyyy-mm-dd form used by date inputs.
	DateISO = "2006-01-02"
)

const catalogPrefix = "/catalog"

// AuthorName returns "family_name, first_name", or "" when either part is missing.
func AuthorName(a entities.Author) string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// AuthorLifespan formats the author's birth and death dates.
func AuthorLifespan(a entities.Author) string {
	dob := FormatDate(a.DateOfBirth)
	dod := FormatDate(a.DateOfDeath)

	switch {
	case dob == "" && dod == "":
		return ""
	case dob == "":
		return "Unknown - " + dod
	case dod == "":
		return dob
	default:
		return dob + " - " + dod
	}
}

// FormatDate renders t in the medium date format, "" for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateMedium)
}

// ISODate renders t as yyyy-mm-dd, "" for nil.
func ISODate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateISO)
}

// DueBack formats the due-back date of a book copy.
func DueBack(bi entities.BookInstance) string {
	return FormatDate(&bi.DueBack)
}

// DueBackISO returns the due-back date as yyyy-mm-dd for form pre-fill.
func DueBackISO(bi entities.BookInstance) string {
	return ISODate(&bi.DueBack)
}

func AuthorURL(id string) string {
	return catalogPrefix + "/author/" + id
}

func GenreURL(id string) string {
	return catalogPrefix + "/genre/" + id
}

func BookURL(id string) string {
	return catalogPrefix + "/book/" + id
}

func BookInstanceURL(id string) string {
	return catalogPrefix + "/bookinstance/" + id
}

// ListURL is the listing page for kind.
func ListURL(kind entities.Kind) string {
	return catalogPrefix + "/" + string(kind)
}

// URL is the detail page of the entity with the given kind and id.
func URL(kind entities.Kind, id string) string {
	return ListURL(kind) + "/" + id
}
