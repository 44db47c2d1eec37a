package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/AntonStoeckl/library-views-go/catalog"
	"github.com/AntonStoeckl/library-views-go/catalog/query"
)

func newUsersCommand(a *app) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Membership operations",
	}

	users.AddCommand(
		newUsersRegisterCommand(a),
		newUsersProfileCommand(a),
		newUsersFindByEmailCommand(a),
		newUsersListCommand(a),
	)

	return users
}

func newUsersRegisterCommand(a *app) *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := a.lib.Store.CreateUser(cmd.Context(), email, firstName, lastName)
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), map[string]string{"user_id": id.String()}, func() error {
				_, printErr := fmt.Fprintf(cmd.OutOrStdout(), "user registered: %s\n", id)
				return printErr
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")

	for _, name := range []string{"email", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newUsersProfileCommand(a *app) *cobra.Command {
	var rawID string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user by id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := catalog.ParseUserID(rawID)
			if err != nil {
				return err
			}

			user, found, err := a.lib.Gateway.UserByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			if !found {
				return errors.Join(catalog.ErrNotFound, fmt.Errorf("user %s", id))
			}

			return a.printUser(cmd, user)
		},
	}

	cmd.Flags().StringVar(&rawID, "user-id", "", "user id")
	_ = cmd.MarkFlagRequired("user-id")

	return cmd
}

func newUsersFindByEmailCommand(a *app) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "find-by-email",
		Short: "Show a user by email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, found, err := a.lib.Gateway.UserByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}

			if !found {
				return errors.Join(catalog.ErrNotFound, fmt.Errorf("user with email %q", email))
			}

			return a.printUser(cmd, user)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newUsersListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users (full scan)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := query.Collect(a.lib.Gateway.AllUsers(cmd.Context()))
			if err != nil {
				return err
			}

			return a.emit(cmd.OutOrStdout(), users, func() error {
				rows := make([][]string, 0, len(users))
				for _, u := range users {
					rows = append(rows, []string{u.ID.String(), u.DisplayName(), u.Email})
				}

				return printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "EMAIL"}, rows)
			})
		},
	}
}

func (a *app) printUser(cmd *cobra.Command, user catalog.User) error {
	return a.emit(cmd.OutOrStdout(), user, func() error {
		return printFields(cmd.OutOrStdout(), [][2]string{
			{"ID", user.ID.String()},
			{"Name", user.DisplayName()},
			{"Email", user.Email},
			{"Registered", catalog.FormatTimestamp(user.RegisteredAt)},
			{"Total borrows", strconv.Itoa(user.TotalBorrows)},
			{"Active borrows", strconv.Itoa(user.ActiveBorrows)},
		})
	})
}
