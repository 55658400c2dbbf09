package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names one of the catalog entity types.
type Kind string

const (
	KindAuthor       Kind = "author"
	KindGenre        Kind = "genre"
	KindBook         Kind = "book"
	KindBookInstance Kind = "bookinstance"
)

type BookInstanceStatus string

const (
	StatusAvailable   BookInstanceStatus = "Available"
	StatusMaintenance BookInstanceStatus = "Maintenance"
	StatusLoaned      BookInstanceStatus = "Loaned"
	StatusReserved    BookInstanceStatus = "Reserved"
)

// BookInstanceStatuses lists every status in display order.
var BookInstanceStatuses = []BookInstanceStatus{
	StatusMaintenance,
	StatusAvailable,
	StatusLoaned,
	StatusReserved,
}

// IsValid reports whether s is one of the known statuses.
func (s BookInstanceStatus) IsValid() bool {
	for _, status := range BookInstanceStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Free-text columns hold the HTML-escaped form of the input, which can be
// several times longer than the validated length, so they are unbounded.
type Author struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string     `gorm:"type:text;not null" json:"first_name"`
	FamilyName  string     `gorm:"type:text;not null;index" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"type:text;not null;index" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"type:text;not null;index" json:"title"`
	AuthorID  string    `gorm:"size:36;not null;index" json:"author_id"`
	Author    Author    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Summary   string    `gorm:"type:text;not null" json:"summary"`
	ISBN      string    `gorm:"type:text;not null" json:"isbn"`
	Genres    []Genre   `gorm:"many2many:book_genres;" json:"genres,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenreIDs returns the ids of the genres attached to the book.
func (b Book) GenreIDs() []string {
	ids := make([]string, 0, len(b.Genres))
	for _, g := range b.Genres {
		ids = append(ids, g.ID)
	}
	return ids
}

type BookInstance struct {
	ID        string             `gorm:"primaryKey;size:36" json:"id"`
	BookID    string             `gorm:"size:36;not null;index" json:"book_id"`
	Book      Book               `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint   string             `gorm:"type:text;not null" json:"imprint"`
	Status    BookInstanceStatus `gorm:"size:20;not null;default:'Maintenance';index" json:"status"`
	DueBack   time.Time          `json:"due_back"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// BookGenre is the join row linking a book to one of its genres.
type BookGenre struct {
	BookID  string `gorm:"primaryKey;size:36"`
	GenreID string `gorm:"primaryKey;size:36;index"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (bi *BookInstance) BeforeCreate(tx *gorm.DB) error {
	if bi.ID == "" {
		bi.ID = uuid.NewString()
	}
	if bi.Status == "" {
		bi.Status = StatusMaintenance
	}
	if bi.DueBack.IsZero() {
		bi.DueBack = time.Now()
	}
	return nil
}
