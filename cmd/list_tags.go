package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tag-admin/pkg/models"
	"tag-admin/pkg/services"
)

// Command options
var (
	listPage   int
	listFilter string
)

// newListTagsCmd creates a new command for listing one page of tags
func newListTagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-tags",
		Short: "List one page of tags",
		Long:  `List one page of tags, optionally filtered by title, with the number of videos in each.`,
		Run: func(cmd *cobra.Command, args []string) {
			_, logger := setup()
			listTags(cmd.Context(), logger)
		},
	}

	cmd.Flags().IntVar(&listPage, "page", 1, "Page to show (1-based)")
	cmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only show tags whose title matches")

	return cmd
}

// listTags displays a single page of tags
func listTags(ctx context.Context, logger zerolog.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}

	query := services.NewQueryState("")
	query.CommitFilter(listFilter)
	query.SetPage(listPage)
	intent := query.ReadIntent()

	page, err := services.GetPage(ctx, intent)
	if err != nil {
		logger.Error().Err(err).Str("intent", intent.String()).Msg("Failed to fetch tags")
		os.Exit(1)
	}

	printTagTable(os.Stdout, page.Data)
	printPageSummary(os.Stdout, intent, page)
}

// printTagTable writes tags as an aligned table
func printTagTable(w io.Writer, tags []models.Tag) {
	if len(tags) == 0 {
		fmt.Fprintln(w, "No tags found.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tSLUG\tVIDEOS")
	for _, tag := range tags {
		fmt.Fprintf(tw, "%s\t%s\t%d video(s)\n", tag.Title, tag.Slug, tag.AmountOfVideos)
	}
	tw.Flush()
}

func printPageSummary(w io.Writer, intent models.QueryIntent, page *models.TagPage) {
	pages := page.Pages
	if pages < 1 {
		pages = 1
	}
	fmt.Fprintf(w, "Showing %d of %d items, page %d of %d\n", len(page.Data), page.Items, intent.Page, pages)
}
