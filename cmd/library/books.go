package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

func newBooksCommand(a *app) *cobra.Command {
	books := &cobra.Command{
		Use:   "books",
		Short: "Catalog operations",
	}

	books.AddCommand(
		newBooksAddCommand(a),
		newBooksSearchCommand(a),
		newBooksListByCategoryCommand(a),
		newBooksListCommand(a),
	)

	return books
}

func newBooksAddCommand(a *app) *cobra.Command {
	var (
		isbn, title, author, category, publisher string
		year, copies                             int
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to books_by_id and books_by_category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			book, err := catalog.BuildBook(isbn, title, author, category, publisher, year, copies)
			if err != nil {
				return err
			}

			if err = a.lib.Store.CreateBook(cmd.Context(), book); err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), book, func() error {
				_, printErr := fmt.Fprintf(cmd.OutOrStdout(), "book added: %s (%s)\n", book.Title, book.ISBN)
				return printErr
			})
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "isbn of the book")
	cmd.Flags().StringVar(&title, "title", "", "title")
	cmd.Flags().StringVar(&author, "author", "", "author")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().StringVar(&publisher, "publisher", "", "publisher")
	cmd.Flags().IntVar(&year, "year", 0, "publication year")
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")

	for _, name := range []string{"isbn", "title", "author", "category"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newBooksSearchCommand(a *app) *cobra.Command {
	var isbn string

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Look up a book by isbn",
		RunE: func(cmd *cobra.Command, _ []string) error {
			book, found, err := a.lib.Gateway.BookByISBN(cmd.Context(), isbn)
			if err != nil {
				return err
			}

			if !found {
				return errors.Join(catalog.ErrNotFound, fmt.Errorf("book %q", isbn))
			}

			return a.emit(cmd.OutOrStdout(), book, func() error {
				return printFields(cmd.OutOrStdout(), [][2]string{
					{"ISBN", book.ISBN},
					{"Title", book.Title},
					{"Author", book.Author},
					{"Category", book.Category},
					{"Publisher", book.Publisher},
					{"Year", strconv.Itoa(book.PublicationYear)},
					{"Available", fmt.Sprintf("%d / %d", book.AvailableCopies, book.TotalCopies)},
				})
			})
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "isbn of the book")
	_ = cmd.MarkFlagRequired("isbn")

	return cmd
}

func newBooksListByCategoryCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list-by-category",
		Short: "List the books of a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := query.Collect(a.lib.Gateway.BooksByCategory(cmd.Context(), category))
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), books, func() error {
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					rows = append(rows, []string{b.ISBN, b.Title, b.Author, strconv.Itoa(b.AvailableCopies)})
				}

				return printTable(cmd.OutOrStdout(), []string{"ISBN", "TITLE", "AUTHOR", "COPIES AT CREATION"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "exact, case-sensitive category")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func newBooksListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the whole catalog (full scan)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			books, err := query.Collect(a.lib.Gateway.AllBooks(cmd.Context()))
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), books, func() error {
				rows := make([][]string, 0, len(books))
				for _, b := range books {
					rows = append(rows, []string{
						b.ISBN, b.Title, b.Author, b.Category,
						fmt.Sprintf("%d / %d", b.AvailableCopies, b.TotalCopies),
					})
				}

				return printTable(cmd.OutOrStdout(), []string{"ISBN", "TITLE", "AUTHOR", "CATEGORY", "AVAILABLE"}, rows)
			})
		},
	}
}
