package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mrlokans/locallibrary/internal/entities"
)

func date(t *testing.T, s string) *time.Time {
	t.Helper()
	d, err := time.Parse(DateISO, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return &d
}

func TestAuthorName(t *testing.T) {
	tests := []struct {
		name   string
		author entities.Author
		want   string
	}{
		{"both parts", entities.Author{FirstName: "Patrick", FamilyName: "Rothfuss"}, "Rothfuss, Patrick"},
		{"missing first name", entities.Author{FamilyName: "Rothfuss"}, ""},
		{"missing family name", entities.Author{FirstName: "Patrick"}, ""},
		{"both missing", entities.Author{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorName(tt.author))
		})
	}
}

func TestAuthorLifespan(t *testing.T) {
	tests := []struct {
		name string
		dob  string
		dod  string
		want string
	}{
		{"no dates", "", "", ""},
		{"death only", "", "1990-01-01", "Unknown - Jan 1, 1990"},
		{"birth only", "1973-06-06", "", "Jun 6, 1973"},
		{"both dates", "1920-01-02", "1992-04-06", "Jan 2, 1920 - Apr 6, 1992"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a entities.Author
			if tt.dob != "" {
				a.DateOfBirth = date(t, tt.dob)
			}
			if tt.dod != "" {
				a.DateOfDeath = date(t, tt.dod)
			}
			assert.Equal(t, tt.want, AuthorLifespan(a))
		})
	}
}

func TestISODate(t *testing.T) {
	assert.Equal(t, "", ISODate(nil))
	assert.Equal(t, "1990-01-01", ISODate(date(t, "1990-01-01")))
}

func TestURLs(t *testing.T) {
	assert.Equal(t, "/catalog/author/a1", AuthorURL("a1"))
	assert.Equal(t, "/catalog/genre/g1", GenreURL("g1"))
	assert.Equal(t, "/catalog/book/b1", BookURL("b1"))
	assert.Equal(t, "/catalog/bookinstance/i1", BookInstanceURL("i1"))
	assert.Equal(t, "/catalog/genre", ListURL(entities.KindGenre))
	assert.Equal(t, BookURL("b1"), URL(entities.KindBook, "b1"))
}

func TestDueBack(t *testing.T) {
	bi := entities.BookInstance{DueBack: *date(t, "2024-03-15")}
	assert.Equal(t, "Mar 15, 2024", DueBack(bi))
	assert.Equal(t, "2024-03-15", DueBackISO(bi))
}
