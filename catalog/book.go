package catalog

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Book is a catalog entry as stored in books_by_id.
//
// AvailableCopies is only authoritative in books_by_id; books_by_category mirrors
// the identity fields under a different partition key.
type Book struct {
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	Publisher       string `json:"publisher"`
	PublicationYear int    `json:"publication_year"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`
}

// CategoryBook is the browse projection of a Book stored in books_by_category.
// AvailableCopies is the value captured when the book was created, not a live counter.
type CategoryBook struct {
	Category        string `json:"category"`
	ISBN            string `json:"isbn"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	AvailableCopies int    `json:"available_copies"`
}

// BuildBook is a factory method for a new normalized Book with all copies available.
func BuildBook(
	isbn string,
	title string,
	author string,
	category string,
	publisher string,
	publicationYear int,
	copies int,
) (Book, error) {
	book := Book{
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		Category:        category,
		Publisher:       publisher,
		PublicationYear: publicationYear,
		TotalCopies:     copies,
		AvailableCopies: copies,
	}.Normalize()

	if err := book.Validate(); err != nil {
		return Book{}, err
	}

	return book, nil
}

// Validate checks the fields a catalog entry must carry before it is persisted.
func (b Book) Validate() error {
	err := validation.ValidateStruct(&b,
		validation.Field(&b.ISBN, validation.Required, validation.Length(1, 64)),
		validation.Field(&b.Title, validation.Required),
		validation.Field(&b.Author, validation.Required),
		validation.Field(&b.Category, validation.Required),
		validation.Field(&b.PublicationYear, validation.Min(0)),
		validation.Field(&b.TotalCopies, validation.Min(0)),
		validation.Field(&b.AvailableCopies, validation.Min(0), validation.Max(b.TotalCopies)),
	)
	if err != nil {
		return errors.Join(ErrInvalidInput, err)
	}

	return nil
}

// CategoryProjection returns the books_by_category row for this book.
func (b Book) CategoryProjection() CategoryBook {
	return CategoryBook{
		Category:        b.Category,
		ISBN:            b.ISBN,
		Title:           b.Title,
		Author:          b.Author,
		AvailableCopies: b.AvailableCopies,
	}
}

// Normalize returns the book with surrounding whitespace removed from its text fields.
func (b Book) Normalize() Book {
	b.ISBN = NormalizeISBN(b.ISBN)
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Category = strings.TrimSpace(b.Category)
	b.Publisher = strings.TrimSpace(b.Publisher)

	return b
}

// NormalizeISBN is the form an isbn is stored and looked up in.
func NormalizeISBN(isbn string) string {
	return strings.TrimSpace(isbn)
}
