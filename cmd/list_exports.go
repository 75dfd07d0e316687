package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tag-admin/pkg/services"
)

// newListExportsCmd creates a new command for listing uploaded exports
func newListExportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-exports",
		Short: "List uploaded tag exports",
		Long:  `List the tag exports stored in the configured bucket.`,
		Run: func(cmd *cobra.Command, args []string) {
			_, logger := setup()
			listExports(cmd.Context(), logger)
		},
	}
}

// listExports displays all uploaded exports
func listExports(ctx context.Context, logger zerolog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}

	exports, err := services.ListExports(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list exports")
		os.Exit(1)
	}

	if len(exports) == 0 {
		fmt.Println("No exports found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tCREATED")
	for _, export := range exports {
		fmt.Fprintf(w, "%s\t%d\t%s\n", export.Name, export.Size, export.Created.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}
