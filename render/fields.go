// Package render turns catalog records into HTML fragments.
//
// Every fragment goes through a view model first; the view model applies the
// field fallbacks (title, image, placeholder art, score, dates) so templates
// never see a missing value.
package render

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"anicatalog/models"
)

// Literal fallbacks shared by the templates
const (
	Untitled      = "Untitled"
	NotAvailable  = "N/A"
	UnknownCount  = "?"
	UnknownDate   = "TBA"
	GenreSep      = " • "
	MaxGenres     = 3
	placeholderFG = "ffffff"
)

// PlaceholderURL builds a generated placeholder image URL.
// colorHex may carry a leading '#'; it is stripped.
func PlaceholderURL(width, height int, colorHex, label string) string {
	color := strings.TrimPrefix(strings.TrimSpace(colorHex), "#")
	return fmt.Sprintf("https://placehold.co/%dx%d/%s/%s?text=%s",
		width, height, color, placeholderFG, url.QueryEscape(label))
}

// AccentHex returns the accent color without its '#' marker, or fallback when absent.
func AccentHex(color, fallback string) string {
	c := strings.TrimPrefix(strings.TrimSpace(color), "#")
	if c == "" {
		return strings.TrimPrefix(fallback, "#")
	}
	return c
}

// PickTitle returns the first non-empty of English, Romaji, Native, else Untitled.
func PickTitle(t models.Title) string {
	for _, candidate := range []string{t.English, t.Romaji, t.Native} {
		if s := strings.TrimSpace(candidate); s != "" {
			return s
		}
	}
	return Untitled
}

// PickImage returns the first non-empty candidate, or "" when there is none.
func PickImage(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return ""
}

// JoinGenres keeps at most MaxGenres genres, joined with GenreSep.
func JoinGenres(genres []string) string {
	kept := make([]string, 0, MaxGenres)
	for _, g := range genres {
		if strings.TrimSpace(g) == "" {
			continue
		}
		kept = append(kept, g)
		if len(kept) == MaxGenres {
			break
		}
	}
	return strings.Join(kept, GenreSep)
}

// PlainText strips markup from an API description and collapses whitespace.
func PlainText(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		return strings.Join(strings.Fields(description), " ")
	}
	doc.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithNodes(&html.Node{Type: html.TextNode, Data: " "})
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Truncate cuts s to at most limit runes, appending "..." when it had to cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit])) + "..."
}

// FormatScore renders a 0-100 score as a percentage.
// Out-of-range values pass through unchanged.
func FormatScore(score *int) string {
	if score == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%d%%", *score)
}

// FormatCount renders an optional count, e.g. episodes.
func FormatCount(n *int) string {
	if n == nil {
		return UnknownCount
	}
	return fmt.Sprintf("%d", *n)
}

// FormatNumber renders n with thousands separators.
func FormatNumber(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// Humanize turns an API enum such as NOT_YET_RELEASED into "Not Yet Released".
func Humanize(enum string) string {
	enum = strings.TrimSpace(enum)
	if enum == "" {
		return NotAvailable
	}
	words := strings.ReplaceAll(strings.ToLower(enum), "_", " ")
	return cases.Title(language.English).String(words)
}

// FormatFormat renders a format tag; short tags like TV and OVA stay upper case.
func FormatFormat(format string) string {
	format = strings.TrimSpace(format)
	if format == "" {
		return NotAvailable
	}
	if len(format) <= 3 {
		return format
	}
	if rest, ok := strings.CutPrefix(format, "TV_"); ok {
		return "TV " + Humanize(rest)
	}
	return Humanize(format)
}

// FormatSeason renders "Spring 2024", or whichever half is known.
func FormatSeason(season string, year *int) string {
	switch {
	case season != "" && year != nil:
		return fmt.Sprintf("%s %d", Humanize(season), *year)
	case season != "":
		return Humanize(season)
	case year != nil:
		return fmt.Sprintf("%d", *year)
	default:
		return UnknownDate
	}
}

// FormatDate renders a partial date with whatever parts are known.
func FormatDate(d models.FuzzyDate) string {
	if d.Year == nil {
		return UnknownDate
	}
	if d.Month == nil || *d.Month < 1 || *d.Month > 12 {
		return fmt.Sprintf("%d", *d.Year)
	}
	month := time.Month(*d.Month).String()[:3]
	if d.Day == nil {
		return fmt.Sprintf("%s %d", month, *d.Year)
	}
	return fmt.Sprintf("%s %d, %d", month, *d.Day, *d.Year)
}

// FormatDuration renders minutes per episode.
func FormatDuration(minutes *int) string {
	if minutes == nil {
		return NotAvailable
	}
	return fmt.Sprintf("%d min", *minutes)
}

// DetailHref is the link to the detail page of a media entry.
func DetailHref(id int) string {
	return fmt.Sprintf("/anime?id=%d", id)
}

// TrailerEmbedURL returns an embeddable player URL, or "" for unknown hosts.
func TrailerEmbedURL(t *models.Trailer) string {
	if t == nil || t.ID == "" {
		return ""
	}
	switch strings.ToLower(t.Site) {
	case "youtube":
		return "https://www.youtube.com/embed/" + url.PathEscape(t.ID)
	case "dailymotion":
		return "https://www.dailymotion.com/embed/video/" + url.PathEscape(t.ID)
	default:
		return ""
	}
}
