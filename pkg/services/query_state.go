package services

import (
	"net/url"
	"strconv"
	"strings"
	"sync"

	"tag-admin/pkg/models"
)

// URL query parameter names owned by the list view
const (
	PageParam   = "page"
	FilterParam = "filter"
)

// ParseIntent projects URL query values onto a QueryIntent.
// A missing, non-numeric, zero or negative page is read as 1.
func ParseIntent(values url.Values) models.QueryIntent {
	return models.QueryIntent{
		Page:       parsePage(values.Get(PageParam)),
		FilterText: values.Get(FilterParam),
	}
}

func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// QueryState is the addressable URL query for the list view. It is the only owner of the
// applied page and filter; page and filter are always read and written together.
type QueryState struct {
	mu     sync.RWMutex
	values url.Values
}

// NewQueryState parses a raw URL query string. Parameters other than page and filter
// are preserved untouched.
func NewQueryState(rawQuery string) *QueryState {
	// ParseQuery keeps every pair it could decode, so a malformed pair is just dropped
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return &QueryState{values: values}
}

// ReadIntent returns the intent currently encoded in the query
func (q *QueryState) ReadIntent() models.QueryIntent {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return ParseIntent(q.values)
}

// CommitFilter applies filter and resets the page to 1 in a single update
func (q *QueryState) CommitFilter(filter string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.values.Set(PageParam, "1")
	q.values.Set(FilterParam, filter)
}

// SetPage navigates to page, keeping the applied filter
func (q *QueryState) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.values.Set(PageParam, strconv.Itoa(page))
}

// Encode returns the query string without a leading '?'
func (q *QueryState) Encode() string {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.values.Encode()
}

// WithPage returns the encoded query for page without changing q
func (q *QueryState) WithPage(page int) string {
	if page < 1 {
		page = 1
	}
	q.mu.RLock()
	values := cloneValues(q.values)
	q.mu.RUnlock()
	values.Set(PageParam, strconv.Itoa(page))
	return values.Encode()
}

func cloneValues(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
