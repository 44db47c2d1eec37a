package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

var (
	seedCategories = []string{
		"Science Fiction", "Fantasy", "Thriller", "Romance",
		"Histoire", "Science", "Biographie", "Philosophie",
	}

	seedPublishers = []string{"Gallimard", "Flammarion", "Hachette", "Albin Michel", "Seuil"}

	seedFirstNames = []string{
		"Camille", "Louis", "Chloé", "Hugo", "Léa", "Arthur", "Manon", "Jules", "Inès", "Gabriel",
	}

	seedLastNames = []string{
		"Martin", "Bernard", "Dubois", "Thomas", "Robert", "Richard", "Petit", "Durand", "Leroy", "Moreau",
	}

	seedTitleWords = []string{
		"ombre", "jardin", "mémoire", "nuit", "voyage", "silence", "étoile", "rivière", "secret", "empire",
		"lumière", "horizon", "tempête", "miroir", "royaume",
	}
)

type seedResult struct {
	Books           int `json:"books"`
	BooksCreated    int `json:"books_created"`
	DuplicateBooks  int `json:"duplicate_books"`
	Users           int `json:"users"`
	UsersCreated    int `json:"users_created"`
	DuplicateEmails int `json:"duplicate_emails"`
	Failed          int `json:"failed"`
}

// seeder draws random catalog and membership data from one source.
type seeder struct {
	rnd *rand.Rand
}

func newSeeder(seed uint64) *seeder {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return &seeder{rnd: rand.New(rand.NewPCG(seed, seed))}
}

func (s *seeder) pick(values []string) string {
	return values[s.rnd.IntN(len(values))]
}

func (s *seeder) isbn() string {
	return fmt.Sprintf("978-%d-%06d-%02d-%d",
		s.rnd.IntN(10), 100000+s.rnd.IntN(900000), 10+s.rnd.IntN(90), s.rnd.IntN(10))
}

func (s *seeder) title() string {
	words := make([]string, 3)
	for i := range words {
		words[i] = s.pick(seedTitleWords)
	}

	title := []rune(strings.Join(words, " "))
	title[0] = unicode.ToUpper(title[0])

	return string(title)
}

func (s *seeder) book() (catalog.Book, error) {
	return catalog.BuildBook(
		s.isbn(),
		s.title(),
		s.pick(seedFirstNames)+" "+s.pick(seedLastNames),
		s.pick(seedCategories),
		s.pick(seedPublishers),
		1950+s.rnd.IntN(75),
		1+s.rnd.IntN(10),
	)
}

func (s *seeder) user() (email, firstName, lastName string) {
	firstName = s.pick(seedFirstNames)
	lastName = s.pick(seedLastNames)
	email = fmt.Sprintf("%s.%08x@library.test", strings.ToLower(lastName), s.rnd.Uint32())

	return email, firstName, lastName
}

func newSeedCommand(a *app) *cobra.Command {
	var (
		books int
		users int
		seed  uint64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the catalog with random books and users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if books < 0 || users < 0 {
				return fmt.Errorf("%w: counts must not be negative", catalog.ErrInvalidInput)
			}

			ctx := cmd.Context()
			gen := newSeeder(seed)
			result := seedResult{Books: books, Users: users}

			for range books {
				book, err := gen.book()
				if err != nil {
					return err
				}

				err = a.lib.Store.CreateBook(ctx, book)
				switch {
				case err == nil:
					result.BooksCreated++
				case errors.Is(err, catalog.ErrBookAlreadyExists):
					result.DuplicateBooks++
				default:
					a.logger.Warn("seed book failed", "isbn", book.ISBN, "error", err.Error())
					result.Failed++
				}
			}

			for range users {
				email, firstName, lastName := gen.user()

				_, err := a.lib.Store.CreateUser(ctx, email, firstName, lastName)
				switch {
				case err == nil:
					result.UsersCreated++
				case errors.Is(err, catalog.ErrEmailAlreadyRegistered):
					result.DuplicateEmails++
				default:
					a.logger.Warn("seed user failed", "email", email, "error", err.Error())
					result.Failed++
				}
			}

			a.logger.Info("catalog seeded",
				"books_created", result.BooksCreated, "users_created", result.UsersCreated, "failed", result.Failed)

			return a.emit(cmd.OutOrStdout(), result, func() error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(),
					"created %d of %d books (%d duplicate isbns), %d of %d users (%d duplicate emails), %d failed\n",
					result.BooksCreated, books, result.DuplicateBooks,
					result.UsersCreated, users, result.DuplicateEmails, result.Failed)

				return err
			})
		},
	}

	cmd.Flags().IntVar(&books, "books", 100, "number of books to generate")
	cmd.Flags().IntVar(&users, "users", 50, "number of users to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed, 0 picks one at random")

	return cmd
}
