package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tag-admin/pkg/services"
)

// Command options
var (
	exportFilter string
	exportUpload bool
)

// newExportCmd creates a new command for exporting tags
func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tags as JSON",
		Long: `Export every tag, optionally filtered by title, as a JSON document. By default the
document is written to stdout; with --upload it is stored in the configured bucket.`,
		Run: func(cmd *cobra.Command, args []string) {
			_, logger := setup()
			exportTags(cmd.Context(), logger)
		},
	}

	cmd.Flags().StringVarP(&exportFilter, "filter", "f", "", "Only export tags whose title matches")
	cmd.Flags().BoolVar(&exportUpload, "upload", false, "Upload the export to the bucket instead of printing it")

	return cmd
}

// exportTags exports all matching tags
func exportTags(ctx context.Context, logger zerolog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	now := time.Now()

	export, err := services.BuildExport(ctx, exportFilter, now)
	if err != nil {
		logger.Error().Err(err).Str("filter", exportFilter).Msg("Failed to collect tags")
		os.Exit(1)
	}

	if exportUpload {
		name, err := services.UploadExport(ctx, export, now)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to upload export")
			os.Exit(1)
		}
		fmt.Printf("Uploaded %d tag(s) to %s\n", export.Items, name)
		return
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		logger.Error().Err(err).Msg("Error marshaling export")
		os.Exit(1)
	}

	fmt.Println(string(data))
}
