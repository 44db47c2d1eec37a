package catalog

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

// User is a registered library member as stored in users_by_id.
// TotalBorrows and ActiveBorrows are informational and may drift.
type User struct {
	ID            uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	RegisteredAt  time.Time `json:"registration_date"`
	TotalBorrows  int       `json:"total_borrows"`
	ActiveBorrows int       `json:"active_borrows"`
}

// DisplayName is the denormalized name written to borrows_by_book.
func (u User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// NormalizeRegistration removes surrounding whitespace from the registration input.
func NormalizeRegistration(email, firstName, lastName string) (string, string, string) {
	return strings.TrimSpace(email), strings.TrimSpace(firstName), strings.TrimSpace(lastName)
}

// ValidateRegistration checks the input of a user registration.
func ValidateRegistration(email, firstName, lastName string) error {
	err := validation.Errors{
		"email":      validation.Validate(email, validation.Required, is.EmailFormat),
		"first_name": validation.Validate(firstName, validation.Required),
		"last_name":  validation.Validate(lastName, validation.Required),
	}.Filter()
	if err != nil {
		return errors.Join(ErrInvalidInput, err)
	}

	return nil
}

// ParseUserID parses the canonical hyphenated hex form of a user id.
func ParseUserID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, errors.Join(ErrInvalidIdentifier, err)
	}

	return id, nil
}
