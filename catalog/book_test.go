package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/AntonStoeckl/library-views-go/catalog" //nolint:revive
)

func Test_BuildBook_ShouldMakeAllCopiesAvailable(t *testing.T) {
	// act
	book, err := BuildBook("978-0", "Dune", "Frank Herbert", "SciFi", "Chilton", 1965, 3)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, 3, book.TotalCopies)
	assert.Equal(t, 3, book.AvailableCopies)
}

func Test_BuildBook_ShouldFail_WithInvalidInput(t *testing.T) {
	testCases := []struct {
		name     string
		isbn     string
		title    string
		author   string
		category string
		copies   int
	}{
		{name: "empty isbn", isbn: "", title: "Dune", author: "Frank Herbert", category: "SciFi", copies: 1},
		{name: "empty title", isbn: "978-0", title: "", author: "Frank Herbert", category: "SciFi", copies: 1},
		{name: "empty author", isbn: "978-0", title: "Dune", author: "", category: "SciFi", copies: 1},
		{name: "empty category", isbn: "978-0", title: "Dune", author: "Frank Herbert", category: "", copies: 1},
		{name: "negative copies", isbn: "978-0", title: "Dune", author: "Frank Herbert", category: "SciFi", copies: -1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := BuildBook(tc.isbn, tc.title, tc.author, tc.category, "", 1965, tc.copies)

			// assert
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func Test_Book_Validate_ShouldFail_WhenMoreCopiesAreAvailableThanExist(t *testing.T) {
	// arrange
	book := Book{ISBN: "978-0", Title: "Dune", Author: "Frank Herbert", Category: "SciFi", TotalCopies: 1, AvailableCopies: 2}

	// act
	err := book.Validate()

	// assert
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func Test_Book_CategoryProjection_ShouldCarryIdentityAndStockSnapshot(t *testing.T) {
	// arrange
	book, err := BuildBook("978-0", "Dune", "Frank Herbert", "SciFi", "Chilton", 1965, 2)
	assert.NoError(t, err, "error in arranging test data")

	// act
	projection := book.CategoryProjection()

	// assert
	assert.Equal(t, CategoryBook{
		Category:        "SciFi",
		ISBN:            "978-0",
		Title:           "Dune",
		Author:          "Frank Herbert",
		AvailableCopies: 2,
	}, projection)
}

func Test_BuildBook_ShouldTrimTheTextFields(t *testing.T) {
	// act
	book, err := BuildBook(" 978-0 ", " Dune", "Frank Herbert ", " SciFi ", "Chilton ", 1965, 1)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "978-0", book.ISBN)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "SciFi", book.Category)
	assert.Equal(t, "Chilton", book.Publisher)
}

func Test_NormalizeISBN(t *testing.T) {
	assert.Equal(t, "978-0", NormalizeISBN("\t978-0 "))
	assert.Equal(t, "978-0", NormalizeISBN("978-0"))
}
