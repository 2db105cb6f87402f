package services

import "time"

// AniListEndpoint is the public GraphQL endpoint queried by default
const AniListEndpoint = "https://graphql.anilist.co"

const mediaSummaryFields = `
	id
	title { romaji english native }
	coverImage { extraLarge large medium color }
	bannerImage
	averageScore
	popularity
	episodes
	status
	genres
	format
	season
	seasonYear
	description(asHtml: false)`

// BrowseQuery aggregates every list shown on the home page in one round trip
const BrowseQuery = `
query ($season: MediaSeason, $seasonYear: Int, $nextSeason: MediaSeason, $nextYear: Int, $perPage: Int) {
	trending: Page(page: 1, perPage: $perPage) {
		media(type: ANIME, sort: TRENDING_DESC, isAdult: false) {` + mediaSummaryFields + `
		}
	}
	seasonal: Page(page: 1, perPage: $perPage) {
		media(type: ANIME, season: $season, seasonYear: $seasonYear, sort: POPULARITY_DESC, isAdult: false) {` + mediaSummaryFields + `
		}
	}
	topRated: Page(page: 1, perPage: 10) {
		media(type: ANIME, sort: SCORE_DESC, isAdult: false) {` + mediaSummaryFields + `
		}
	}
	upcoming: Page(page: 1, perPage: $perPage) {
		media(type: ANIME, season: $nextSeason, seasonYear: $nextYear, status: NOT_YET_RELEASED, sort: POPULARITY_DESC, isAdult: false) {` + mediaSummaryFields + `
		}
	}
}`

// DetailQuery loads a single media entry with its credits and relations
const DetailQuery = `
query ($id: Int) {
	Media(id: $id, type: ANIME) {` + mediaSummaryFields + `
		duration
		startDate { year month day }
		endDate { year month day }
		trailer { id site }
		characters(sort: [ROLE, RELEVANCE], perPage: 12) {
			edges {
				role
				node { name { full } image { medium } }
			}
		}
		staff(sort: RELEVANCE, perPage: 8) {
			edges {
				role
				node { name { full } image { medium } }
			}
		}
		relations {
			edges {
				relationType(version: 2)
				node {
					id
					type
					format
					title { romaji english native }
					coverImage { large medium color }
				}
			}
		}
		studios(isMain: true) {
			nodes { id name }
		}
	}
}`

// SearchQuery powers both type-ahead suggestions and the search results page
const SearchQuery = `
query ($search: String, $perPage: Int) {
	Page(page: 1, perPage: $perPage) {
		media(search: $search, type: ANIME, sort: SEARCH_MATCH, isAdult: false) {
			id
			title { romaji english native }
			coverImage { medium large color }
			format
		}
	}
}`

// Season names as understood by the API
const (
	SeasonWinter = "WINTER"
	SeasonSpring = "SPRING"
	SeasonSummer = "SUMMER"
	SeasonFall   = "FALL"
)

// DefaultBrowsePageSize is the number of entries fetched per home page list
const DefaultBrowsePageSize = 12

// BrowseVariables are the inputs of BrowseQuery
type BrowseVariables struct {
	Season     string
	SeasonYear int
	NextSeason string
	NextYear   int
	PerPage    int
}

func (v BrowseVariables) asMap() map[string]any {
	perPage := v.PerPage
	if perPage <= 0 {
		perPage = DefaultBrowsePageSize
	}
	return map[string]any{
		"season":     v.Season,
		"seasonYear": v.SeasonYear,
		"nextSeason": v.NextSeason,
		"nextYear":   v.NextYear,
		"perPage":    perPage,
	}
}

// CurrentSeason returns the broadcast season containing t
func CurrentSeason(t time.Time) (string, int) {
	switch t.Month() {
	case time.January, time.February, time.March:
		return SeasonWinter, t.Year()
	case time.April, time.May, time.June:
		return SeasonSpring, t.Year()
	case time.July, time.August, time.September:
		return SeasonSummer, t.Year()
	default:
		return SeasonFall, t.Year()
	}
}

// NextSeason returns the season following season/year, rolling the year after FALL
func NextSeason(season string, year int) (string, int) {
	switch season {
	case SeasonWinter:
		return SeasonSpring, year
	case SeasonSpring:
		return SeasonSummer, year
	case SeasonSummer:
		return SeasonFall, year
	default:
		return SeasonWinter, year + 1
	}
}

// BrowseVariablesAt builds the home page variables for the season containing t
func BrowseVariablesAt(t time.Time, perPage int) BrowseVariables {
	season, year := CurrentSeason(t)
	next, nextYear := NextSeason(season, year)
	return BrowseVariables{
		Season:     season,
		SeasonYear: year,
		NextSeason: next,
		NextYear:   nextYear,
		PerPage:    perPage,
	}
}
