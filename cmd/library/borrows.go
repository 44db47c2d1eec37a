package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

func newBorrowsCommand(a *app) *cobra.Command {
	borrows := &cobra.Command{
		Use:   "borrows",
		Short: "Borrow and return books",
	}

	borrows.AddCommand(
		newBorrowCommand(a),
		newReturnCommand(a),
		newHistoryCommand(a),
		newBookHistoryCommand(a),
	)

	return borrows
}

func newBorrowCommand(a *app) *cobra.Command {
	var rawID, isbn string

	cmd := &cobra.Command{
		Use:   "borrow",
		Short: "Borrow one copy of a book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := catalog.ParseUserID(rawID)
			if err != nil {
				return err
			}

			record, err := a.lib.Coordinator.Borrow(cmd.Context(), id, isbn)
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), record, func() error {
				_, printErr := fmt.Fprintf(cmd.OutOrStdout(),
					"borrowed: %s\nborrow date (needed for the return): %s\n",
					record.BookTitle, catalog.FormatTimestamp(record.BorrowedAt))

				return printErr
			})
		},
	}

	cmd.Flags().StringVar(&rawID, "user-id", "", "user id")
	cmd.Flags().StringVar(&isbn, "isbn", "", "isbn of the book")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("isbn")

	return cmd
}

func newReturnCommand(a *app) *cobra.Command {
	var rawID, isbn, rawDate string

	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a borrowed copy",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := catalog.ParseUserID(rawID)
			if err != nil {
				return err
			}

			borrowedAt, err := catalog.ParseTimestamp(rawDate)
			if err != nil {
				return err
			}

			if err = a.lib.Coordinator.Return(cmd.Context(), id, isbn, borrowedAt); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "returned")

			return err
		},
	}

	cmd.Flags().StringVar(&rawID, "user-id", "", "user id")
	cmd.Flags().StringVar(&isbn, "isbn", "", "isbn of the book")
	cmd.Flags().StringVar(&rawDate, "date", "", "borrow date, YYYY-MM-DD HH:MM:SS[.ffffff] in UTC")

	for _, name := range []string{"user-id", "isbn", "date"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newHistoryCommand(a *app) *cobra.Command {
	var rawID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the borrow history of a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := catalog.ParseUserID(rawID)
			if err != nil {
				return err
			}

			records, err := query.Collect(a.lib.Gateway.UserBorrowHistory(cmd.Context(), id))
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), records, func() error {
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{r.ISBN, r.BookTitle, catalog.FormatTimestamp(r.BorrowedAt), string(r.Status)})
				}

				return printTable(cmd.OutOrStdout(), []string{"ISBN", "TITLE", "BORROW DATE", "STATUS"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&rawID, "user-id", "", "user id")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func newBookHistoryCommand(a *app) *cobra.Command {
	var isbn string

	cmd := &cobra.Command{
		Use:   "book-history",
		Short: "Show every borrow event of a book",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := query.Collect(a.lib.Gateway.BookBorrowHistory(cmd.Context(), isbn))
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), entries, func() error {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{catalog.FormatTimestamp(e.BorrowedAt), e.UserID.String(), e.UserName})
				}

				return printTable(cmd.OutOrStdout(), []string{"BORROW DATE", "USER ID", "NAME"}, rows)
			})
		},
	}

	cmd.Flags().StringVar(&isbn, "isbn", "", "isbn of the book")
	_ = cmd.MarkFlagRequired("isbn")

	return cmd
}
