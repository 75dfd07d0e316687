package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"tag-admin/pkg/models"
)

// PageGetter is the part of PageCache a ListView needs
type PageGetter interface {
	Cached(intent models.QueryIntent) (*models.TagPage, bool)
	Get(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error)
}

// ListView tracks what one viewer of the tag list currently sees.
//
// The exposed page is always the last completed result: selecting a new key keeps the
// previous page visible until the new one resolves. Only the most recent Select is
// authoritative; a response for a superseded selection is dropped when it arrives.
type ListView struct {
	pages   PageGetter
	timeout time.Duration
	logger  zerolog.Logger

	mu       sync.Mutex
	intent   models.QueryIntent
	selected bool
	gen      uint64
	page     *models.TagPage
	resolved bool
	fetching bool
	err      error
	done     chan struct{}
}

// NewListView creates a view reading through pages. timeout bounds each background fetch.
func NewListView(pages PageGetter, timeout time.Duration, logger zerolog.Logger) *ListView {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ListView{
		pages:   pages,
		timeout: timeout,
		logger:  logger,
	}
}

// Select makes intent the current key. The returned channel is closed once the page for
// intent has settled (immediately on a cache hit). Selecting the key that is already in
// flight joins that request instead of starting another.
func (v *ListView) Select(intent models.QueryIntent) <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.selected && v.fetching && v.intent.Key() == intent.Key() {
		return v.done
	}

	v.gen++
	v.intent = intent
	v.selected = true
	v.err = nil

	if page, ok := v.pages.Cached(intent); ok {
		v.page = page
		v.resolved = true
		v.fetching = false
		v.done = closedChan()
		return v.done
	}

	v.fetching = true
	done := make(chan struct{})
	v.done = done
	go v.fetch(v.gen, intent, done)

	return done
}

func (v *ListView) fetch(gen uint64, intent models.QueryIntent, done chan struct{}) {
	defer close(done)

	// Detached from callers: a render that stops waiting must not cancel the fetch
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	page, err := v.pages.Get(ctx, intent)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		v.logger.Debug().Str("intent", intent.String()).Msg("discarding stale tag page")
		return
	}

	v.fetching = false
	if err != nil {
		v.err = err
		return
	}
	v.page = page
	v.resolved = true
}

// State returns a snapshot for rendering
func (v *ListView) State() models.ListState {
	v.mu.Lock()
	defer v.mu.Unlock()

	return models.ListState{
		Intent:     v.intent,
		Page:       v.page,
		IsLoading:  !v.resolved,
		IsFetching: v.fetching,
		Err:        v.err,
	}
}

// Wait blocks until done is closed, wait elapses, or ctx ends, then returns the state.
// A zero wait only returns what is already known.
func (v *ListView) Wait(ctx context.Context, done <-chan struct{}, wait time.Duration) models.ListState {
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
		case <-ctx.Done():
		}
	}
	return v.State()
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
