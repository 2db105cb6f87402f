package render

import (
	"bytes"
	"html/template"

	"anicatalog/models"
)

// User-visible status messages
const (
	MsgNoResults        = "No results found."
	MsgSuggestionsError = "Error loading suggestions."
	MsgCatalogError     = "Error loading anime."
	MsgDetailError      = "Error loading anime details."
	MsgDetailNotFound   = "Anime not found."
	MsgInvalidID        = "Invalid anime id."
	MsgSearchPrompt     = "Type a title to search the catalog."
	MsgNothingScheduled = "Nothing announced yet."
	msgRenderFailed     = "Something went wrong while rendering."
)

const (
	kindInfo  = "info"
	kindError = "error"
)

func execute(t *template.Template, name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		// Template errors only come from programming mistakes; keep the page alive.
		return Error(msgRenderFailed)
	}
	return template.HTML(buf.String())
}

// FeaturedSlide renders one carousel slide.
func FeaturedSlide(m models.MediaSummary) template.HTML {
	return execute(fragments, "slide", NewSlideView(m))
}

// FeaturedSlides renders the carousel container with one slide per entry.
func FeaturedSlides(list []models.MediaSummary) template.HTML {
	views := make([]SlideView, 0, len(list))
	for _, m := range list {
		views = append(views, NewSlideView(m))
	}
	return execute(fragments, "slides", views)
}

// Card renders one grid card.
func Card(m models.MediaSummary) template.HTML {
	return execute(fragments, "card", NewCardView(m))
}

// CardGrid renders a grid of cards, or emptyText when there is nothing to show.
func CardGrid(list []models.MediaSummary, emptyText string) template.HTML {
	if len(list) == 0 {
		return Info(emptyText)
	}
	views := make([]CardView, 0, len(list))
	for _, m := range list {
		views = append(views, NewCardView(m))
	}
	return execute(fragments, "grid", views)
}

// RankedItem renders one ranked row; rank is 1-based.
func RankedItem(rank int, m models.MediaSummary) template.HTML {
	return execute(fragments, "ranked", NewRankedView(rank, m))
}

// RankedList renders entries numbered in the given order.
func RankedList(list []models.MediaSummary) template.HTML {
	if len(list) == 0 {
		return Info(MsgNoResults)
	}
	views := make([]RankedView, 0, len(list))
	for i, m := range list {
		views = append(views, NewRankedView(i+1, m))
	}
	return execute(fragments, "rankedList", views)
}

// Suggestion renders one type-ahead row.
func Suggestion(h models.SearchHit) template.HTML {
	return execute(fragments, "suggestion", NewSuggestionView(h))
}

// Suggestions renders hits in the order returned, or the empty-state message.
func Suggestions(hits []models.SearchHit) template.HTML {
	if len(hits) == 0 {
		return Info(MsgNoResults)
	}
	views := make([]SuggestionView, 0, len(hits))
	for _, h := range hits {
		views = append(views, NewSuggestionView(h))
	}
	return execute(fragments, "suggestions", views)
}

// SuggestionResult renders the outcome of a suggestion fetch: the list, the
// empty state, or the inline error when err is set.
func SuggestionResult(hits []models.SearchHit, err error) template.HTML {
	if err != nil {
		return Error(MsgSuggestionsError)
	}
	return Suggestions(hits)
}

// Detail renders the detail page body.
func Detail(m models.MediaDetail) template.HTML {
	return execute(fragments, "detail", NewDetailView(m))
}

type statusMessage struct {
	Kind string
	Text string
}

// Info renders a neutral inline message.
func Info(text string) template.HTML {
	return execute(fragments, "message", statusMessage{Kind: kindInfo, Text: text})
}

// Error renders an inline error message.
func Error(text string) template.HTML {
	var buf bytes.Buffer
	// Cannot recurse through execute: a broken message template would loop.
	if err := fragments.ExecuteTemplate(&buf, "message", statusMessage{Kind: kindError, Text: text}); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String())
}

type section struct {
	ID    string
	Title string
	Body  template.HTML
}

// Section wraps body in a titled catalog section.
func Section(id, title string, body template.HTML) template.HTML {
	return execute(fragments, "section", section{ID: id, Title: title, Body: body})
}

// Home composes the home page body from the browse aggregate.
// A nil data renders the catalog error in every section.
func Home(data *models.BrowseData) template.HTML {
	if data == nil {
		failed := Error(MsgCatalogError)
		return Section("featured", "Trending Now", failed) +
			Section("seasonal", "Popular This Season", failed) +
			Section("top-rated", "Top Rated", failed) +
			Section("upcoming", "Upcoming Next Season", failed)
	}
	return FeaturedSlides(data.Trending) +
		Section("seasonal", "Popular This Season", CardGrid(data.Seasonal, MsgNoResults)) +
		Section("top-rated", "Top Rated", RankedList(data.TopRated)) +
		Section("upcoming", "Upcoming Next Season", CardGrid(data.Upcoming, MsgNothingScheduled))
}

// SearchResults renders the body of the search page.
func SearchResults(term string, hits []models.SearchHit) template.HTML {
	list := make([]models.MediaSummary, 0, len(hits))
	for _, h := range hits {
		list = append(list, models.MediaSummary{
			ID:         h.ID,
			Title:      h.Title,
			CoverImage: h.CoverImage,
			Format:     h.Format,
			Genres:     []string{},
		})
	}
	return Section("search-results", "Results for \""+term+"\"", CardGrid(list, MsgNoResults))
}

// PageData is the input of the page layout.
type PageData struct {
	Title   string
	Nav     string
	Query   string
	Content template.HTML
}

// Page renders a complete document around already-rendered content.
func Page(data PageData) template.HTML {
	return execute(layout, "page", data)
}
