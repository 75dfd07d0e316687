package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/eknkc/pug"
	"github.com/rs/zerolog"

	"tag-admin/pkg/models"
	"tag-admin/pkg/services"
)

// Renderer writes the tags page for a view model
type Renderer interface {
	Render(w io.Writer, view models.TagsView) error
}

// PugRenderer renders the tags page from a pug template on disk
type PugRenderer struct {
	Path string
}

// Render compiles the template and executes it with view
func (p PugRenderer) Render(w io.Writer, view models.TagsView) error {
	template, err := pug.CompileFile(p.Path, pug.Options{})
	if err != nil {
		return err
	}
	return template.Execute(w, view)
}

// Handler serves the tags admin screen
type Handler struct {
	svc      *services.Service
	renderer Renderer
	logger   zerolog.Logger
}

// New creates a handler for svc
func New(svc *services.Service, renderer Renderer, logger zerolog.Logger) *Handler {
	return &Handler{
		svc:      svc,
		renderer: renderer,
		logger:   logger,
	}
}

// TagsHandler renders the tag list for the page and filter in the request URL
func (h *Handler) TagsHandler(w http.ResponseWriter, r *http.Request) {
	query := services.NewQueryState(r.URL.RawQuery)
	intent := query.ReadIntent()
	view := h.svc.View(sessionID(r))

	done := view.Select(intent)
	state := view.Wait(r.Context(), done, h.svc.Config().RenderWait)

	h.logger.Debug().
		Str("intent", intent.String()).
		Bool("loading", state.IsLoading).
		Bool("fetching", state.IsFetching).
		Msg("Generating Tags Page")

	if err := h.renderer.Render(w, BuildTagsView(query, state)); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		h.logger.Error().Err(err).Msg("Template execution error")
	}
}

// FilterHandler commits the submitted filter and sends the browser to the first page
func (h *Handler) FilterHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	query := services.NewQueryState(r.URL.RawQuery)
	query.CommitFilter(r.PostForm.Get(services.FilterParam))

	http.Redirect(w, r, "/tags?"+query.Encode(), http.StatusSeeOther)
}

// StateHandler returns the session's list state as JSON
func (h *Handler) StateHandler(w http.ResponseWriter, r *http.Request) {
	state := h.svc.View(sessionID(r)).State()

	payload := struct {
		models.ListState
		Error string `json:"error,omitempty"`
	}{ListState: state}
	if state.Err != nil {
		payload.Error = state.Err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error().Err(err).Msg("failed to encode list state")
	}
}

// CreateTagHandler creates a tag from a form post or a JSON body
func (h *Handler) CreateTagHandler(w http.ResponseWriter, r *http.Request) {
	isJSON := strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")

	var title string
	if isJSON {
		var req struct {
			Title string `json:"title"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		title = req.Title
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}
		title = r.PostForm.Get("title")
	}

	tag, err := h.svc.CreateTag(r.Context(), title)
	if err != nil {
		if errors.Is(err, services.ErrInvalidTag) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error().Err(err).Str("title", title).Msg("Error creating tag")
		http.Error(w, "Failed to create tag", http.StatusBadGateway)
		return
	}

	if !isJSON {
		// Back to the list the form was posted from
		http.Redirect(w, r, TagsURL(services.NewQueryState(r.URL.RawQuery)), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tag)
}
