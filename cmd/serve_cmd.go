package cmd

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tag-admin/pkg/config"
	"tag-admin/pkg/handlers"
	"tag-admin/pkg/services"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the tags admin screen via HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg, logger := setup()
			serveWebsite(cfg, logger)
		},
	}
}

// serveWebsite runs the web server for the tags admin screen
func serveWebsite(cfg *config.Config, logger zerolog.Logger) {
	if err := ListenAndServe(cfg, services.Default(), logger); err != nil {
		logger.Error().Err(err).Msg("Server error")
		os.Exit(1)
	}
}

// ListenAndServe builds the router for svc and serves it on the configured port
func ListenAndServe(cfg *config.Config, svc *services.Service, logger zerolog.Logger) error {
	h := handlers.New(svc, handlers.PugRenderer{Path: "./assets/templates/tags.pug"}, logger)

	mux := chi.NewRouter()
	mux.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./public"))))
	mux.Mount("/", handlers.NewRouter(h))

	server := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	cfg.PrintServerStartMessage()
	return server.ListenAndServe()
}
