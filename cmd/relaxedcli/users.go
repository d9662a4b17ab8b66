package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/relaxedbase/relaxedbase/cmd/relaxedbase/config"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

func loadUsers() (model.UsersStore, func() error, error) {
	conf, err := config.LoadFile(configFile)
	if err != nil {
		return nil, nil, err
	}
	warehouse, backs, err := config.LoadStorageBackends(conf)
	if err != nil {
		return nil, nil, err
	}
	return backs.Users, warehouse.Close, nil
}

func usersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage the accounts stored in the configured database",
	}

	var admin bool
	var firstName, lastName, email string
	add := &cobra.Command{
		Use:   "add LOGIN",
		Short: "Add an account; with the first account the API stops being open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return errors.New("a password is required, use --password")
			}
			users, closeFn, err := loadUsers()
			if err != nil {
				return err
			}
			defer closeFn()
			u, err := users.Create(
				cmd.Context(), model.User{
					Login:     args[0],
					FirstName: firstName,
					LastName:  lastName,
					Email:     email,
					Admin:     admin,
				}, password,
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s %v\n", u.Login, u.Authorities())
			return nil
		},
	}
	add.Flags().BoolVar(&admin, "admin", false, "grant ROLE_ADMIN")
	add.Flags().StringVar(&firstName, "first-name", "", "first name")
	add.Flags().StringVar(&lastName, "last-name", "", "last name")
	add.Flags().StringVar(&email, "email", "", "email address")

	list := &cobra.Command{
		Use:   "list",
		Short: "List all accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, closeFn, err := loadUsers()
			if err != nil {
				return err
			}
			defer closeFn()
			all, err := users.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "login\temail\tactivated\tauthorities")
			for _, u := range all {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%v\n", u.Login, u.Email, u.Activated, u.Authorities())
			}
			return tw.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "delete LOGIN",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			users, closeFn, err := loadUsers()
			if err != nil {
				return err
			}
			defer closeFn()
			return users.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}
