package handlers

import (
	"tag-admin/pkg/models"
	"tag-admin/pkg/services"
)

// BuildTagsView turns a list state into the data the tags template renders
func BuildTagsView(query *services.QueryState, state models.ListState) models.TagsView {
	intent := query.ReadIntent()

	view := models.TagsView{
		Filter:     intent.FilterText,
		FilterURL:  "/tags/filter?" + query.Encode(),
		CreateURL:  TagsURL(query),
		IsLoading:  state.IsLoading && state.Err == nil,
		IsFetching: state.IsFetching,
	}
	if state.Err != nil {
		view.Error = "Could not load tags. Showing the last loaded results."
		if state.Page == nil {
			view.Error = "Could not load tags."
		}
	}

	if state.Page != nil {
		view.HasPage = true
		view.Tags = state.Page.Data
		view.Pagination = BuildPagination(query, intent.Page, state.Page)
	}

	return view
}

// BuildPagination computes the pagination controls for page of result
func BuildPagination(query *services.QueryState, page int, result *models.TagPage) models.Pagination {
	pages := result.Pages
	if pages < 1 {
		pages = 1
	}

	p := models.Pagination{
		Page:  page,
		Pages: pages,
		Items: result.Items,
		Shown: len(result.Data),
	}

	if page > 1 {
		p.FirstHref = "/tags?" + query.WithPage(1)
		prev := page - 1
		if prev > pages {
			prev = pages
		}
		p.PrevHref = "/tags?" + query.WithPage(prev)
	}
	if page < pages {
		p.NextHref = "/tags?" + query.WithPage(page+1)
		p.LastHref = "/tags?" + query.WithPage(pages)
	}

	return p
}

// TagsURL returns the tags page address for query
func TagsURL(query *services.QueryState) string {
	if encoded := query.Encode(); encoded != "" {
		return "/tags?" + encoded
	}
	return "/tags"
}
