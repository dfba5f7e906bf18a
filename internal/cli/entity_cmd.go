package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/alexanderramin/opsboard/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newEntityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "entity",
		Aliases: []string{"e"},
		Short:   "Manage entities without the live view",
	}

	cmd.AddCommand(
		newEntityAddCmd(app),
		newEntityListCmd(app),
		newEntityShowCmd(app),
		newEntityMoveCmd(app),
		newEntitySetCmd(app),
		newEntityDeleteCmd(app),
	)

	return cmd
}

func newEntityAddCmd(app *App) *cobra.Command {
	var title, status, start, end, owner, client string
	var tags []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entity",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := domain.ParseStatus(status)
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			startDate, err := domain.ParseOptionalDate(start)
			if err != nil {
				return err
			}
			endDate, err := domain.ParseOptionalDate(end)
			if err != nil {
				return err
			}

			e := &domain.Entity{
				ID:        uuid.New().String(),
				Title:     title,
				Status:    st,
				StartDate: startDate,
				EndDate:   endDate,
				Owner:     parseOwner(owner),
				Client:    client,
				Tags:      domain.NormalizeTags(tags),
				UpdatedAt: app.now(),
			}
			if err := app.Entities.Create(cmd.Context(), e); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s [%s]\n", e.Title, formatter.ShortID(e.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Entity title")
	cmd.Flags().StringVar(&status, "status", string(domain.StatusUnscheduled), "Status lane")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner as id or id:Name")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "Tag (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newEntityListCmd(app *App) *cobra.Command {
	var scope, status, tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := app.Entities.List(cmd.Context(), scope)
			if err != nil {
				return err
			}
			st := domain.ParseStatus(status)
			kept := entities[:0]
			for _, e := range entities {
				if status != "" && e.Status != st {
					continue
				}
				if tag != "" && !e.HasTag(tag) {
					continue
				}
				kept = append(kept, e)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntityList(kept))
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "Only entities of this client")
	cmd.Flags().StringVar(&status, "status", "", "Only entities in this lane")
	cmd.Flags().StringVar(&tag, "tag", "", "Only entities carrying this tag")

	return cmd
}

func newEntityShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one entity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEntityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			e, err := app.Entities.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEntity(e))
			return nil
		},
	}
}

func newEntityMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move an entity to another lane",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEntityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			st := domain.ParseStatus(args[1])
			if !st.Valid() {
				return fmt.Errorf("unknown status %q", args[1])
			}
			if err := app.Entities.Move(cmd.Context(), id, st); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s to %s\n", formatter.ShortID(id), st.Label())
			return nil
		},
	}
}

func newEntitySetCmd(app *App) *cobra.Command {
	fieldNames := make([]string, len(editableFields))
	for i, f := range editableFields {
		fieldNames[i] = string(f)
	}

	return &cobra.Command{
		Use:   "set <id> <field> <value>",
		Short: "Set one field of an entity",
		Long:  "Set one field of an entity. Fields: " + strings.Join(fieldNames, ", ") + ".\nAn empty date value clears it.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEntityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			field, err := domain.ParseField(args[1])
			if err != nil {
				return err
			}
			value, err := parseFieldValue(field, args[2])
			if err != nil {
				return err
			}
			if err := app.Entities.Patch(cmd.Context(), id, domain.Patch{field: value}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s of %s\n", field, formatter.ShortID(id))
			return nil
		},
	}
}

func newEntityDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an entity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveEntityID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			e, err := app.Entities.GetByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %q without --yes", e.Title)
				}
				confirmed := false
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %q?", e.Title)).
						Affirmative("Delete").
						Negative("Keep").
						Value(&confirmed),
				)).WithTheme(opsboardHuhTheme())
				if err := form.RunWithContext(cmd.Context()); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Kept.")
					return nil
				}
			}

			if err := app.Entities.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", e.Title)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}
