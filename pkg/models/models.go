package models

import (
	"fmt"
	"strconv"
)

// Tag represents a named category attached to videos
type Tag struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	AmountOfVideos int    `json:"amountOfVideos"`
}

// TagPage is one page of the remote tag collection, as returned by the tags API
type TagPage struct {
	Data  []Tag `json:"data"`
	First int   `json:"first"`
	Prev  *int  `json:"prev"`
	Next  *int  `json:"next"`
	Last  int   `json:"last"`
	Pages int   `json:"pages"`
	Items int   `json:"items"`
}

// QueryIntent is the applied (page, filter) pair driving the list view
type QueryIntent struct {
	Page       int    `json:"page"`
	FilterText string `json:"filter"`
}

// QueryKey identifies one cached page of results
type QueryKey string

// Key returns the cache key for the intent. Distinct pages or filters never share a key.
func (q QueryIntent) Key() QueryKey {
	return QueryKey(strconv.Itoa(q.Page) + "|" + strconv.Quote(q.FilterText))
}

func (q QueryIntent) String() string {
	return fmt.Sprintf("page=%d filter=%q", q.Page, q.FilterText)
}

// ListState is the snapshot of the list view handed to renderers
type ListState struct {
	Intent     QueryIntent `json:"intent"`
	Page       *TagPage    `json:"page,omitempty"`
	IsLoading  bool        `json:"isLoading"`
	IsFetching bool        `json:"isFetching"`
	Err        error       `json:"-"`
}

// Pagination holds the data needed to render pagination controls.
// Empty hrefs mean the control is disabled.
type Pagination struct {
	Page      int
	Pages     int
	Items     int
	Shown     int
	FirstHref string
	PrevHref  string
	NextHref  string
	LastHref  string
}

// TagsView represents the tags admin page data
type TagsView struct {
	Filter     string
	FilterURL  string
	CreateURL  string
	IsLoading  bool
	IsFetching bool
	Error      string
	Tags       []Tag
	HasPage    bool
	Pagination Pagination
}

// TagExport is the document written by the export command
type TagExport struct {
	Filter     string `json:"filter"`
	ExportedAt string `json:"exportedAt"`
	Items      int    `json:"items"`
	Tags       []Tag  `json:"tags"`
}
