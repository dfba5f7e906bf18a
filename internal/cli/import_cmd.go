package cli

import (
	"fmt"

	"github.com/alexanderramin/opsboard/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import entities from a JSON or YAML file",
		Long:  "Import entities from a JSON or YAML file. Either every entity is created or none is.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %d entities (%d scheduled, %d sub-items)\n",
				len(result.Entities), result.ScheduledCount, result.SubItemCount)
			if list {
				fmt.Fprint(out, formatter.FormatEntityList(result.Entities))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "List the imported entities")

	return cmd
}
