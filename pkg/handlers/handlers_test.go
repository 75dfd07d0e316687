package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tag-admin/pkg/config"
	"tag-admin/pkg/logger"
	"tag-admin/pkg/models"
	"tag-admin/pkg/services"
)

type recordingRenderer struct {
	mu    sync.Mutex
	views []models.TagsView
}

func (r *recordingRenderer) Render(w io.Writer, view models.TagsView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
	_, err := fmt.Fprintf(w, "%d tags", len(view.Tags))
	return err
}

func (r *recordingRenderer) last(t *testing.T) models.TagsView {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.views)
	return r.views[len(r.views)-1]
}

// tagsAPI is a minimal stand-in for the remote tags collection
func tagsAPI(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		switch r.Method {
		case http.MethodPost:
			var tag models.Tag
			if err := json.NewDecoder(r.Body).Decode(&tag); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			tag.ID = "created"
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(tag)
			return
		}

		page := models.TagPage{First: 1, Last: 1, Pages: 1}
		if r.URL.Query().Get("title") == "sports" {
			page.Data = []models.Tag{
				{ID: "1", Title: "sports", Slug: "sports", AmountOfVideos: 3},
				{ID: "2", Title: "sports news", Slug: "sports-news", AmountOfVideos: 1},
				{ID: "3", Title: "e-sports", Slug: "e-sports"},
			}
		} else {
			page.Data = []models.Tag{{ID: "9", Title: "music", Slug: "music", AmountOfVideos: 7}}
		}
		page.Items = len(page.Data)
		json.NewEncoder(w).Encode(page)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T, apiURL string) (http.Handler, *recordingRenderer) {
	t.Helper()
	cfg := &config.Config{
		APIBaseURL:     apiURL,
		PageSize:       config.DefaultPageSize,
		CacheTTL:       time.Minute,
		RequestTimeout: 2 * time.Second,
		RenderWait:     2 * time.Second,
		APIRateLimit:   1000,
	}
	log := logger.Nop()
	svc := services.NewService(cfg, services.NewTagClient(cfg, log), log)
	renderer := &recordingRenderer{}
	return NewRouter(New(svc, renderer, log)), renderer
}

func TestTagsHandler_DefaultIntent(t *testing.T) {
	api := tagsAPI(t, http.StatusOK)
	router, renderer := newTestRouter(t, api.URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 tags", rec.Body.String())
	assert.NotEmpty(t, rec.Result().Cookies())

	view := renderer.last(t)
	assert.Equal(t, "", view.Filter)
	assert.False(t, view.IsLoading)
	assert.True(t, view.HasPage)
	assert.Equal(t, 1, view.Pagination.Page)
	assert.Equal(t, "/tags/filter?", view.FilterURL)
}

func TestTagsHandler_SportsScenario(t *testing.T) {
	api := tagsAPI(t, http.StatusOK)
	router, renderer := newTestRouter(t, api.URL)

	form := url.Values{"filter": {"sports"}}
	req := httptest.NewRequest(http.MethodPost, "/tags/filter", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get("Location")
	assert.Equal(t, "/tags?filter=sports&page=1", location)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	view := renderer.last(t)
	assert.Equal(t, "sports", view.Filter)
	assert.Len(t, view.Tags, 3)
	assert.Equal(t, 3, view.Pagination.Items)
	assert.Equal(t, 1, view.Pagination.Pages)
	assert.Empty(t, view.Pagination.NextHref)
}

func TestFilterHandler_ResetsPage(t *testing.T) {
	router, _ := newTestRouter(t, "http://127.0.0.1:1")

	form := url.Values{"filter": {"music"}}
	req := httptest.NewRequest(http.MethodPost, "/tags/filter?page=2&filter=sports", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/tags?filter=music&page=1", rec.Header().Get("Location"))
}

func TestTagsHandler_RemoteFailure(t *testing.T) {
	api := tagsAPI(t, http.StatusInternalServerError)
	router, renderer := newTestRouter(t, api.URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags?page=abc", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	view := renderer.last(t)
	assert.Equal(t, "Could not load tags.", view.Error)
	assert.False(t, view.IsLoading)
	assert.False(t, view.HasPage)
}

func TestStateHandler(t *testing.T) {
	api := tagsAPI(t, http.StatusOK)
	router, _ := newTestRouter(t, api.URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags?filter=sports", nil))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/tags/state", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Intent     models.QueryIntent `json:"intent"`
		Page       *models.TagPage    `json:"page"`
		IsLoading  bool               `json:"isLoading"`
		IsFetching bool               `json:"isFetching"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, models.QueryIntent{Page: 1, FilterText: "sports"}, body.Intent)
	assert.False(t, body.IsLoading)
	require.NotNil(t, body.Page)
	assert.Equal(t, 3, body.Page.Items)
}

func TestStateHandler_NewSessionIsLoading(t *testing.T) {
	router, _ := newTestRouter(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tags/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isLoading":true`)
}

func TestCreateTagHandler(t *testing.T) {
	api := tagsAPI(t, http.StatusOK)
	router, _ := newTestRouter(t, api.URL)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
		wantBody    string
	}{
		{
			name:        "json",
			contentType: "application/json",
			body:        `{"title": "Live Music"}`,
			wantStatus:  http.StatusCreated,
			wantBody:    `"slug":"live-music"`,
		},
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        "title=Live+Music",
			wantStatus:  http.StatusSeeOther,
		},
		{
			name:        "invalid title",
			contentType: "application/json",
			body:        `{"title": ""}`,
			wantStatus:  http.StatusBadRequest,
			wantBody:    "title is required",
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{`,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tags", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestCreateTagHandler_FormKeepsListQuery(t *testing.T) {
	api := tagsAPI(t, http.StatusOK)
	router, _ := newTestRouter(t, api.URL)

	tests := []struct {
		target string
		want   string
	}{
		{target: "/tags", want: "/tags"},
		{target: "/tags?filter=sports&page=2", want: "/tags?filter=sports&page=2"},
		{target: "/tags?filter=live+music", want: "/tags?filter=live+music"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, tt.target, strings.NewReader("title=Live+Music"))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestCreateTagHandler_RemoteFailure(t *testing.T) {
	api := tagsAPI(t, http.StatusServiceUnavailable)
	router, _ := newTestRouter(t, api.URL)

	req := httptest.NewRequest(http.MethodPost, "/tags", strings.NewReader(`{"title": "Live Music"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRootRedirects(t *testing.T) {
	router, _ := newTestRouter(t, "http://127.0.0.1:1")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/tags", rec.Header().Get("Location"))
}
