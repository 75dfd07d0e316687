package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tag-admin/pkg/services"
)

// newCreateTagCmd creates a new command for creating a tag
func newCreateTagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create-tag [title]",
		Short: "Create a new tag",
		Long:  `Create a new tag with the given title. The slug is derived from the title.`,
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			_, logger := setup()
			createTag(cmd.Context(), logger, strings.Join(args, " "))
		},
	}
}

// createTag creates a tag and prints it
func createTag(ctx context.Context, logger zerolog.Logger, title string) {
	if ctx == nil {
		ctx = context.Background()
	}

	tag, err := services.CreateTag(ctx, title)
	if err != nil {
		logger.Error().Err(err).Str("title", title).Msg("Failed to create tag")
		os.Exit(1)
	}

	fmt.Printf("Created tag %q (slug: %s, id: %s)\n", tag.Title, tag.Slug, tag.ID)
}
