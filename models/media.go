// Package models defines the data structures used throughout the application.
package models

// MediaStatus represents the release status reported by the catalog API
type MediaStatus string

// Media status constants
const (
	StatusFinished       MediaStatus = "FINISHED"
	StatusReleasing      MediaStatus = "RELEASING"
	StatusNotYetReleased MediaStatus = "NOT_YET_RELEASED"
	StatusCancelled      MediaStatus = "CANCELLED"
	StatusHiatus         MediaStatus = "HIATUS"
)

// Title holds the localized title variants of a media entry
type Title struct {
	Romaji  string `json:"romaji"`
	English string `json:"english"`
	Native  string `json:"native"`
}

// CoverImage holds the cover art variants and the accent color of the artwork
type CoverImage struct {
	ExtraLarge string `json:"extraLarge"`
	Large      string `json:"large"`
	Medium     string `json:"medium"`
	Color      string `json:"color"`
}

// FuzzyDate is a partial date; any part may be unknown
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// IsZero reports whether no part of the date is known
func (d FuzzyDate) IsZero() bool {
	return d.Year == nil && d.Month == nil && d.Day == nil
}

// MediaSummary is the projection used by listings (carousel, grids, ranked lists)
type MediaSummary struct {
	ID           int         `json:"id"`
	Title        Title       `json:"title"`
	CoverImage   CoverImage  `json:"coverImage"`
	BannerImage  string      `json:"bannerImage,omitempty"`
	AverageScore *int        `json:"averageScore,omitempty"`
	Popularity   int         `json:"popularity"`
	Episodes     *int        `json:"episodes,omitempty"`
	Status       MediaStatus `json:"status,omitempty"`
	Genres       []string    `json:"genres"`
	Format       string      `json:"format,omitempty"`
	Description  string      `json:"description,omitempty"`
	Season       string      `json:"season,omitempty"`
	SeasonYear   *int        `json:"seasonYear,omitempty"`
}

// Trailer references an externally hosted trailer video
type Trailer struct {
	ID   string `json:"id"`
	Site string `json:"site"`
}

// CharacterRole pairs a character with its role in the show
type CharacterRole struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

// StaffRole pairs a staff member with the job they did
type StaffRole struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Role  string `json:"role"`
}

// Relation is another entry linked to the media (sequel, prequel, adaptation...)
type Relation struct {
	RelationType string     `json:"relationType"`
	ID           int        `json:"id"`
	Title        Title      `json:"title"`
	Format       string     `json:"format,omitempty"`
	Type         string     `json:"type,omitempty"`
	CoverImage   CoverImage `json:"coverImage"`
}

// Studio is an animation studio credited on the media
type Studio struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaDetail is the full projection shown on the detail page
type MediaDetail struct {
	MediaSummary
	Duration   *int            `json:"duration,omitempty"` // minutes per episode
	StartDate  FuzzyDate       `json:"startDate"`
	EndDate    FuzzyDate       `json:"endDate"`
	Trailer    *Trailer        `json:"trailer,omitempty"`
	Characters []CharacterRole `json:"characters"`
	Staff      []StaffRole     `json:"staff"`
	Relations  []Relation      `json:"relations"`
	Studios    []Studio        `json:"studios"`
}

// SearchHit is the minimal projection used for type-ahead suggestions
type SearchHit struct {
	ID         int        `json:"id"`
	Title      Title      `json:"title"`
	CoverImage CoverImage `json:"coverImage"`
	Format     string     `json:"format,omitempty"`
}

// BrowseData is the home page aggregate
type BrowseData struct {
	Trending []MediaSummary `json:"trending"`
	Seasonal []MediaSummary `json:"seasonal"`
	TopRated []MediaSummary `json:"topRated"`
	Upcoming []MediaSummary `json:"upcoming"`
}
