package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/relaxedbase/relaxedbase/client"
	"github.com/relaxedbase/relaxedbase/client/views"
	"github.com/relaxedbase/relaxedbase/storage/model"
)

// entityCommand builds the list, get, create, update and delete commands of
// one entity on top of its views
func entityCommand[E any, P model.RecordPtr[E]](
	use, short string, pick func(*client.Stores) *client.Store[E],
) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
	}

	var page, size int
	var sort string
	list := &cobra.Command{
		Use:   "list",
		Short: "List one page of records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stores, err := newStores(cmd)
			if err != nil {
				return err
			}
			v := views.NewListView(pick(stores), fmt.Sprintf("page=%d&sort=%s", page, sort))
			v.ItemsPerPage = size
			if err = v.Mount(cmd.Context()); err != nil {
				return err
			}
			st := v.State()
			if err = renderList[E, P](cmd.OutOrStdout(), st.Entities); err != nil {
				return err
			}
			if v.ShowPagination() && (output == "" || output == "table") {
				_, err = fmt.Fprintf(
					cmd.OutOrStdout(), "\npage %d of %d, %d records (%s)\n",
					v.ActivePage, v.TotalPages(), st.TotalItems, v.Query(),
				)
			}
			return err
		},
	}
	list.Flags().IntVar(&page, "page", 1, "the page to show, starting at 1")
	list.Flags().IntVar(&size, "size", model.DefaultPageSize, "records per page")
	list.Flags().StringVar(&sort, "sort", "id,asc", "sort order, e.g. id,desc")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show a single record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stores, err := newStores(cmd)
			if err != nil {
				return err
			}
			v := views.NewDetailView(pick(stores), id)
			if err = v.Mount(cmd.Context()); err != nil {
				return err
			}
			return renderOne[E, P](cmd.OutOrStdout(), v.Entity())
		},
	}

	create := &cobra.Command{
		Use:   "create [FIELD=VALUE...]",
		Short: "Create a record",
		Long: "Create a record. References take the id of an employee, date-times the form " +
			views.DateTimeLayout + " in local time.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return submit[E, P](cmd, pick, 0, args)
		},
	}

	update := &cobra.Command{
		Use:   "update ID [FIELD=VALUE...]",
		Short: "Change fields of a record",
		Long:  "Change fields of a record. Fields not given keep their value, an empty value clears it.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return submit[E, P](cmd, pick, id, args[1:])
		},
	}

	var yes bool
	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			stores, err := newStores(cmd)
			if err != nil {
				return err
			}
			d := views.NewDeleteDialog(pick(stores), id)
			defer d.Unmount()
			if err = d.Mount(cmd.Context()); err != nil {
				return err
			}
			if !yes {
				if err = renderOne[E, P](cmd.OutOrStdout(), d.Entity()); err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), "Delete this record? [y/N] ")
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
					return nil
				}
			}
			if err = d.Confirm(cmd.Context()); err != nil {
				return err
			}
			if d.Done() {
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", id)
			}
			return nil
		},
	}
	del.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

func submit[E any, P model.RecordPtr[E]](
	cmd *cobra.Command, pick func(*client.Stores) *client.Store[E], id int64, args []string,
) error {
	input, err := parseAssignments(args)
	if err != nil {
		return err
	}
	stores, err := newStores(cmd)
	if err != nil {
		return err
	}
	v := views.NewUpdateView[E, P](pick(stores), stores.Employees, id)
	defer v.Unmount()
	if err = v.Mount(cmd.Context()); err != nil {
		return err
	}
	form := views.Form{}
	if v.IsNew() {
		if form, err = v.Values(); err != nil {
			return err
		}
	}
	for k, val := range input {
		form[k] = val
	}
	if err = v.Submit(cmd.Context(), form); err != nil {
		return err
	}
	if !v.Done() {
		return errors.New("record was not saved")
	}
	return renderOne[E, P](cmd.OutOrStdout(), pick(stores).State().Entity)
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Errorf("invalid id '%s'", v)
	}
	return id, nil
}

func parseAssignments(args []string) (views.Form, error) {
	form := views.Form{}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok || k == "" {
			return nil, errors.Errorf("expected FIELD=VALUE, got '%s'", arg)
		}
		form[k] = v
	}
	return form, nil
}
