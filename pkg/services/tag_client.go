package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"tag-admin/pkg/config"
	"tag-admin/pkg/models"
)

const (
	defaultBurst   = 5
	defaultTimeout = 30 * time.Second

	// Cap on error bodies echoed back in error messages
	maxErrorBody = 512
)

// PageSource fetches one page of tags for an intent
type PageSource interface {
	FetchPage(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error)
}

// TagClient is a rate-limited client for the remote tags collection
type TagClient struct {
	http     *http.Client
	limiter  *rate.Limiter
	baseURL  string
	pageSize int
	logger   zerolog.Logger
}

// NewTagClient creates a client for the API configured in cfg
func NewTagClient(cfg *config.Config, logger zerolog.Logger) *TagClient {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = config.DefaultPageSize
	}
	limit := rate.Inf
	if cfg.APIRateLimit > 0 {
		limit = rate.Limit(cfg.APIRateLimit)
	}

	return &TagClient{
		http:     &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, defaultBurst),
		baseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		pageSize: pageSize,
		logger:   logger,
	}
}

// PageSize returns the number of tags requested per page
func (c *TagClient) PageSize() int {
	return c.pageSize
}

// PageURL builds the list request URL for intent. Every value is percent-encoded.
func (c *TagClient) PageURL(intent models.QueryIntent) string {
	query := url.Values{}
	query.Set("_page", strconv.Itoa(intent.Page))
	query.Set("_per_page", strconv.Itoa(c.pageSize))
	if intent.FilterText != "" {
		query.Set("title", intent.FilterText)
	}
	return c.baseURL + "/tags?" + query.Encode()
}

// FetchPage retrieves one page of tags
func (c *TagClient) FetchPage(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error) {
	key := string(intent.Key())

	body, err := c.do(ctx, http.MethodGet, c.PageURL(intent), nil)
	if err != nil {
		return nil, wrapError("fetchPage", key, err)
	}

	var page models.TagPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, wrapError("fetchPage", key, fmt.Errorf("%w: %v", ErrDecode, err))
	}
	if page.Data == nil {
		return nil, wrapError("fetchPage", key, fmt.Errorf("%w: missing data field", ErrDecode))
	}

	return &page, nil
}

// createTagRequest is the body of a create call. The id is assigned remotely.
type createTagRequest struct {
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	AmountOfVideos int    `json:"amountOfVideos"`
}

// CreateTag posts a new tag to the collection and returns the stored tag
func (c *TagClient) CreateTag(ctx context.Context, tag models.Tag) (*models.Tag, error) {
	payload, err := json.Marshal(createTagRequest{
		Title:          tag.Title,
		Slug:           tag.Slug,
		AmountOfVideos: tag.AmountOfVideos,
	})
	if err != nil {
		return nil, wrapError("createTag", tag.Title, err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/tags", payload)
	if err != nil {
		return nil, wrapError("createTag", tag.Title, err)
	}

	var created models.Tag
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, wrapError("createTag", tag.Title, fmt.Errorf("%w: %v", ErrDecode, err))
	}

	return &created, nil
}

// do executes an HTTP request with rate limiting and returns the response body
func (c *TagClient) do(ctx context.Context, method, target string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", target).Msg("tags api request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return body, nil
}
