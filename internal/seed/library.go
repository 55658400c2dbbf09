package seed

import (
	"net/url"

	"github.com/mrlokans/locallibrary/internal/entities"
)

// Library is a catalog to seed. Books and copies refer to authors, genres
// and books by key.
type Library struct {
	Authors []Author
	Genres  []string
	Books   []Book
	Copies  []Copy
}

type Author struct {
	Key         string
	FirstName   string
	FamilyName  string
	DateOfBirth string // yyyy-mm-dd, optional
	DateOfDeath string
}

func (a Author) form() url.Values {
	return url.Values{
		"first_name":    {a.FirstName},
		"family_name":   {a.FamilyName},
		"date_of_birth": {a.DateOfBirth},
		"date_of_death": {a.DateOfDeath},
	}
}

type Book struct {
	Key     string
	Title   string
	Author  string
	Summary string
	ISBN    string
	Genres  []string
}

func (b Book) form(authors, genres map[string]string) url.Values {
	form := url.Values{
		"title":   {b.Title},
		"author":  {authors[b.Author]},
		"summary": {b.Summary},
		"isbn":    {b.ISBN},
	}
	for _, g := range b.Genres {
		form.Add("genre", genres[g])
	}
	return form
}

type Copy struct {
	Book    string
	Imprint string
	Status  entities.BookInstanceStatus // empty for the default
	DueBack string
}

func (c Copy) form(books map[string]string) url.Values {
	return url.Values{
		"book":     {books[c.Book]},
		"imprint":  {c.Imprint},
		"status":   {string(c.Status)},
		"due_back": {c.DueBack},
	}
}

// Demo is the classic small library: five authors, three genres, seven
// books and eleven copies.
var Demo = Library{
	Authors: []Author{
		{Key: "rothfuss", FirstName: "Patrick", FamilyName: "Rothfuss", DateOfBirth: "1973-06-06"},
		{Key: "bova", FirstName: "Ben", FamilyName: "Bova", DateOfBirth: "1932-11-08"},
		{Key: "asimov", FirstName: "Isaac", FamilyName: "Asimov", DateOfBirth: "1920-01-02", DateOfDeath: "1992-04-06"},
		{Key: "billings", FirstName: "Bob", FamilyName: "Billings"},
		{Key: "jones", FirstName: "Jim", FamilyName: "Jones", DateOfBirth: "1971-12-16"},
	},
	Genres: []string{"Fantasy", "Science Fiction", "French Poetry"},
	Books: []Book{
		{
			Key:     "wind",
			Title:   "The Name of the Wind (The Kingkiller Chronicle, #1)",
			Author:  "rothfuss",
			Summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon. I have spent the night with Felurian and left with both my sanity and my life. I was expelled from the University at a younger age than most people are allowed in. I tread paths by moonlight that others fear to speak of during day. I have talked to Gods, loved women, and written songs that make the minstrels weep.",
			ISBN:    "9781473211896",
			Genres:  []string{"Fantasy"},
		},
		{
			Key:     "fear",
			Title:   "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
			Author:  "rothfuss",
			Summary: "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile, into political intrigue, courtship, adventure, love and magic... and further along the path that has turned Kvothe, the mightiest magician of his age, a legend in his own time, into Kote, the unassuming pub landlord.",
			ISBN:    "9788401352836",
			Genres:  []string{"Fantasy"},
		},
		{
			Key:     "slow",
			Title:   "The Slow Regard of Silent Things (Kingkiller Chronicle)",
			Author:  "rothfuss",
			Summary: "Deep below the University, there is a dark place. Few people know of it: a broken web of ancient passageways and abandoned rooms. A young woman lives there, tucked among the sprawling tunnels of the Underthing, snug in the heart of this forgotten place.",
			ISBN:    "9780756411336",
			Genres:  []string{"Fantasy"},
		},
		{
			Key:     "apes",
			Title:   "Apes and Angels",
			Author:  "bova",
			Summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity. Humans went to the stars in a desperate crusade to save intelligent life wherever they found it. A wave of death is spreading through the Milky Way galaxy, an expanding sphere of lethal gamma rays.",
			ISBN:    "9780765379528",
			Genres:  []string{"Science Fiction"},
		},
		{
			Key:     "death",
			Title:   "Death Wave",
			Author:  "bova",
			Summary: "In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system. They discovered the ruins of an ancient alien civilization. But one alien AI survived, and it revealed to Jordan Kell that an explosion in the black hole at the heart of the Milky Way galaxy has created a wave of deadly radiation, expanding out from the core toward Earth.",
			ISBN:    "9780765379504",
			Genres:  []string{"Science Fiction"},
		},
		{
			Key:     "test1",
			Title:   "Test Book 1",
			Author:  "billings",
			Summary: "Summary of test book 1",
			ISBN:    "ISBN111111",
			Genres:  []string{"Fantasy", "Science Fiction"},
		},
		{
			Key:     "test2",
			Title:   "Test Book 2",
			Author:  "billings",
			Summary: "Summary of test book 2",
			ISBN:    "ISBN222222",
		},
	},
	Copies: []Copy{
		{Book: "wind", Imprint: "London Gollancz, 2014.", Status: entities.StatusAvailable},
		{Book: "fear", Imprint: " Gollancz, 2011.", Status: entities.StatusLoaned},
		{Book: "slow", Imprint: " Gollancz, 2015."},
		{Book: "apes", Imprint: "New York Tom Doherty Associates, 2016.", Status: entities.StatusAvailable},
		{Book: "apes", Imprint: "New York Tom Doherty Associates, 2016.", Status: entities.StatusAvailable},
		{Book: "apes", Imprint: "New York Tom Doherty Associates, 2016.", Status: entities.StatusAvailable},
		{Book: "death", Imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", Status: entities.StatusAvailable},
		{Book: "death", Imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", Status: entities.StatusMaintenance},
		{Book: "death", Imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", Status: entities.StatusLoaned},
		{Book: "wind", Imprint: "Imprint XXX2"},
		{Book: "fear", Imprint: "Imprint XXX3"},
	},
}
