package render

import (
	"fmt"
	"strings"

	"anicatalog/models"
)

// imageSpec describes the placeholder art used by one template.
type imageSpec struct {
	Width, Height int
	DefaultColor  string
}

var (
	featuredImage   = imageSpec{1920, 600, "1a1a2e"}
	cardImage       = imageSpec{460, 650, "2b2d42"}
	rankedImage     = imageSpec{100, 140, "3d405b"}
	suggestionImage = imageSpec{50, 70, "4a4e69"}
	bannerImage     = imageSpec{1920, 400, "1a1a2e"}
	coverImage      = imageSpec{460, 650, "2b2d42"}
	personImage     = imageSpec{100, 150, "22223b"}
	relationImage   = imageSpec{230, 325, "2b2d42"}
)

// FeaturedDescriptionLimit is the rune budget of a carousel slide blurb.
const FeaturedDescriptionLimit = 220

// Image is an <img> source with its degradation target.
type Image struct {
	Src      string
	Fallback string
	Alt      string
}

func (s imageSpec) image(accent, label, alt string, candidates ...string) Image {
	fallback := PlaceholderURL(s.Width, s.Height, AccentHex(accent, s.DefaultColor), label)
	src := PickImage(candidates...)
	if src == "" {
		src = fallback
	}
	return Image{Src: src, Fallback: fallback, Alt: alt}
}

// SlideView is one featured carousel slide.
type SlideView struct {
	Href        string
	Title       string
	Image       Image
	Description string
	Genres      string
	Score       string
	Episodes    string
	Format      string
	Status      string
}

// NewSlideView maps a summary onto a carousel slide.
func NewSlideView(m models.MediaSummary) SlideView {
	title := PickTitle(m.Title)
	return SlideView{
		Href:        DetailHref(m.ID),
		Title:       title,
		Image:       featuredImage.image(m.CoverImage.Color, title, title, m.BannerImage, m.CoverImage.ExtraLarge, m.CoverImage.Large),
		Description: Truncate(PlainText(m.Description), FeaturedDescriptionLimit),
		Genres:      JoinGenres(m.Genres),
		Score:       FormatScore(m.AverageScore),
		Episodes:    FormatCount(m.Episodes),
		Format:      FormatFormat(m.Format),
		Status:      Humanize(string(m.Status)),
	}
}

// CardView is one grid card.
type CardView struct {
	Href     string
	Title    string
	Image    Image
	Score    string
	Format   string
	Episodes string
	Genres   string
}

// NewCardView maps a summary onto a grid card.
func NewCardView(m models.MediaSummary) CardView {
	title := PickTitle(m.Title)
	return CardView{
		Href:     DetailHref(m.ID),
		Title:    title,
		Image:    cardImage.image(m.CoverImage.Color, title, title, m.CoverImage.Large, m.CoverImage.ExtraLarge, m.CoverImage.Medium),
		Score:    FormatScore(m.AverageScore),
		Format:   FormatFormat(m.Format),
		Episodes: FormatCount(m.Episodes),
		Genres:   JoinGenres(m.Genres),
	}
}

// RankedView is one row of a ranked list.
type RankedView struct {
	Rank       int
	Href       string
	Title      string
	Image      Image
	Genres     string
	Score      string
	Popularity string
}

// NewRankedView maps a summary onto a ranked row; rank is 1-based.
func NewRankedView(rank int, m models.MediaSummary) RankedView {
	title := PickTitle(m.Title)
	return RankedView{
		Rank:       rank,
		Href:       DetailHref(m.ID),
		Title:      title,
		Image:      rankedImage.image(m.CoverImage.Color, fmt.Sprintf("#%d", rank), title, m.CoverImage.Medium, m.CoverImage.Large),
		Genres:     JoinGenres(m.Genres),
		Score:      FormatScore(m.AverageScore),
		Popularity: FormatNumber(m.Popularity),
	}
}

// SuggestionView is one type-ahead suggestion.
type SuggestionView struct {
	Href   string
	Title  string
	Format string
	Image  Image
}

// NewSuggestionView maps a search hit onto a suggestion row.
func NewSuggestionView(h models.SearchHit) SuggestionView {
	title := PickTitle(h.Title)
	return SuggestionView{
		Href:   DetailHref(h.ID),
		Title:  title,
		Format: FormatFormat(h.Format),
		Image:  suggestionImage.image(h.CoverImage.Color, NotAvailable, title, h.CoverImage.Medium, h.CoverImage.Large),
	}
}

// PersonView is a character or staff credit.
type PersonView struct {
	Name  string
	Role  string
	Image Image
}

// RelationView is a related title.
type RelationView struct {
	Href     string
	Title    string
	Relation string
	Format   string
	Image    Image
	// Linkable is false for non-anime relations, which have no detail page here.
	Linkable bool
}

// InfoRow is one label/value line of the detail info table.
type InfoRow struct {
	Label string
	Value string
}

// DetailView is the whole detail page body.
type DetailView struct {
	Title       string
	Native      string
	Banner      Image
	Cover       Image
	Description string
	Genres      []string
	Info        []InfoRow
	TrailerURL  string
	Characters  []PersonView
	Staff       []PersonView
	Relations   []RelationView
}

// NewDetailView maps a full media record onto the detail page.
func NewDetailView(m models.MediaDetail) DetailView {
	title := PickTitle(m.Title)
	v := DetailView{
		Title:       title,
		Banner:      bannerImage.image(m.CoverImage.Color, title, title, m.BannerImage),
		Cover:       coverImage.image(m.CoverImage.Color, title, title, m.CoverImage.ExtraLarge, m.CoverImage.Large, m.CoverImage.Medium),
		Description: PlainText(m.Description),
		Genres:      append([]string{}, m.Genres...),
		TrailerURL:  TrailerEmbedURL(m.Trailer),
	}
	if m.Title.Native != "" && m.Title.Native != title {
		v.Native = m.Title.Native
	}
	if v.Description == "" {
		v.Description = "No description available."
	}

	studios := make([]string, 0, len(m.Studios))
	for _, s := range m.Studios {
		if s.Name != "" {
			studios = append(studios, s.Name)
		}
	}
	studioValue := NotAvailable
	if len(studios) > 0 {
		studioValue = strings.Join(studios, ", ")
	}

	v.Info = []InfoRow{
		{"Format", FormatFormat(m.Format)},
		{"Episodes", FormatCount(m.Episodes)},
		{"Duration", FormatDuration(m.Duration)},
		{"Status", Humanize(string(m.Status))},
		{"Season", FormatSeason(m.Season, m.SeasonYear)},
		{"Start Date", FormatDate(m.StartDate)},
		{"End Date", FormatDate(m.EndDate)},
		{"Average Score", FormatScore(m.AverageScore)},
		{"Popularity", FormatNumber(m.Popularity)},
		{"Studios", studioValue},
	}

	for _, c := range m.Characters {
		name := c.Name
		if name == "" {
			name = "Unknown"
		}
		v.Characters = append(v.Characters, PersonView{
			Name:  name,
			Role:  Humanize(c.Role),
			Image: personImage.image(m.CoverImage.Color, name, name, c.Image),
		})
	}
	for _, s := range m.Staff {
		name := s.Name
		if name == "" {
			name = "Unknown"
		}
		role := s.Role
		if role == "" {
			role = NotAvailable
		}
		v.Staff = append(v.Staff, PersonView{
			Name:  name,
			Role:  role,
			Image: personImage.image(m.CoverImage.Color, name, name, s.Image),
		})
	}
	for _, r := range m.Relations {
		rt := PickTitle(r.Title)
		v.Relations = append(v.Relations, RelationView{
			Href:     DetailHref(r.ID),
			Title:    rt,
			Relation: Humanize(r.RelationType),
			Format:   FormatFormat(r.Format),
			Image:    relationImage.image(r.CoverImage.Color, rt, rt, r.CoverImage.Large, r.CoverImage.Medium),
			Linkable: r.Type == "" || r.Type == "ANIME",
		})
	}
	return v
}
