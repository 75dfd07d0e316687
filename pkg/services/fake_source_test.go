package services

import (
	"context"
	"fmt"
	"sync"

	"tag-admin/pkg/models"
)

// fakeSource is a PageSource whose responses can be held back per key
type fakeSource struct {
	mu    sync.Mutex
	calls map[models.QueryKey]int
	pages map[models.QueryKey]*models.TagPage
	errs  map[models.QueryKey]error
	gates map[models.QueryKey]chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		calls: make(map[models.QueryKey]int),
		pages: make(map[models.QueryKey]*models.TagPage),
		errs:  make(map[models.QueryKey]error),
		gates: make(map[models.QueryKey]chan struct{}),
	}
}

func (f *fakeSource) setPage(intent models.QueryIntent, page *models.TagPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[intent.Key()] = page
}

func (f *fakeSource) setErr(intent models.QueryIntent, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[intent.Key()] = err
}

// hold makes fetches for intent block until the returned func is called
func (f *fakeSource) hold(intent models.QueryIntent) func() {
	gate := make(chan struct{})
	f.mu.Lock()
	f.gates[intent.Key()] = gate
	f.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (f *fakeSource) callCount(intent models.QueryIntent) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[intent.Key()]
}

func (f *fakeSource) FetchPage(ctx context.Context, intent models.QueryIntent) (*models.TagPage, error) {
	key := intent.Key()

	f.mu.Lock()
	f.calls[key]++
	gate := f.gates[key]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	if page, ok := f.pages[key]; ok {
		return page, nil
	}
	return nil, fmt.Errorf("no page for %s", key)
}

func pageOf(titles ...string) *models.TagPage {
	tags := make([]models.Tag, 0, len(titles))
	for i, title := range titles {
		tags = append(tags, models.Tag{ID: fmt.Sprintf("id-%d", i), Title: title, Slug: title})
	}
	return &models.TagPage{
		Data:  tags,
		First: 1,
		Last:  1,
		Pages: 1,
		Items: len(tags),
	}
}
