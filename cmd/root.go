package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"tag-admin/pkg/config"
	"tag-admin/pkg/logger"
	"tag-admin/pkg/services"
)

// Configuration flags
var (
	apiBaseURL string
	bucketName string
	portNumber string
	logLevel   string
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tag-admin",
		Short: "Tag Admin is a tool for browsing and managing video tags",
		Long: `Tag Admin is a command line application that lists, filters and creates the tags
used to group videos, backed by a remote tags API. It can also serve the tags admin
screen via a web interface.`,
	}

	// Define persistent flags that will be available for all commands
	rootCmd.PersistentFlags().StringVarP(&apiBaseURL, "api-url", "a", "", "Set the TAGS_API_BASE_URL (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&bucketName, "bucket", "b", "", "Set the BUCKET_NAME used for exports (overrides environment variable)")
	rootCmd.PersistentFlags().StringVarP(&portNumber, "port", "p", "", "Set the PORT (overrides environment variable)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set the LOG_LEVEL (overrides environment variable)")

	// Add commands to root
	rootCmd.AddCommand(newListTagsCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newCreateTagCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newListExportsCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

// LoadConfig loads configuration with respect to command line flags
func LoadConfig() (*config.Config, error) {
	// Set environment variables from flags if provided
	if apiBaseURL != "" {
		os.Setenv("TAGS_API_BASE_URL", apiBaseURL)
	}

	if bucketName != "" {
		os.Setenv("BUCKET_NAME", bucketName)
	}

	if portNumber != "" {
		os.Setenv("PORT", portNumber)
	}

	if logLevel != "" {
		os.Setenv("LOG_LEVEL", logLevel)
	}

	// Load configuration from environment variables (potentially set above)
	return config.Load()
}

// setup loads the configuration and initializes the tag service, exiting on failure
func setup() (*config.Config, zerolog.Logger) {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	appLogger := logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	services.InitService(cfg, appLogger)

	return cfg, appLogger
}
