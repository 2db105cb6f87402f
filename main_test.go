package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"anicatalog/config"
	"anicatalog/render"
	"anicatalog/services"
	"anicatalog/ui"
)

const browseResponse = `{"data":{
	"trending":{"media":[
		{"id":1,"title":{"english":"Cowboy Bebop"},"coverImage":{"large":"cb.jpg"},"bannerImage":"cb-banner.jpg","averageScore":86,"popularity":300000,"episodes":26,"status":"FINISHED","genres":["Action","Sci-Fi"],"format":"TV"},
		{"id":2,"title":{"romaji":"Shingeki no Kyojin"},"coverImage":{"color":"#e4a15d"},"popularity":900000,"status":"FINISHED","genres":[],"format":"TV"}
	]},
	"seasonal":{"media":[
		{"id":3,"title":{"english":"Dandadan"},"coverImage":{"large":"dd.jpg"},"popularity":100000,"status":"RELEASING","genres":["Comedy"],"format":"TV"}
	]},
	"topRated":{"media":[
		{"id":4,"title":{"english":"Gintama"},"coverImage":{},"averageScore":91,"popularity":200000,"genres":[],"format":"TV"},
		{"id":5,"title":{"english":"Monster"},"coverImage":{},"averageScore":89,"popularity":150000,"genres":[],"format":"TV"}
	]},
	"upcoming":{"media":[]}
}}`

const detailResponse = `{"data":{"Media":{
	"id":1,
	"title":{"english":"Cowboy Bebop","native":"カウボーイビバップ"},
	"coverImage":{"large":"cb.jpg"},
	"averageScore":86,
	"episodes":26,
	"status":"FINISHED",
	"genres":["Action"],
	"format":"TV",
	"description":"Bounty hunters<br>in space.",
	"characters":{"edges":[]},
	"staff":{"edges":[]},
	"relations":{"edges":[]},
	"studios":{"nodes":[{"id":14,"name":"Sunrise"}]}
}}}`

const searchResponse = `{"data":{"Page":{"media":[
	{"id":1,"title":{"english":"Cowboy Bebop"},"coverImage":{"medium":"cb-m.jpg"},"format":"TV"},
	{"id":7,"title":{"english":"Cowboy Bebop: The Movie"},"coverImage":{},"format":"MOVIE"}
]}}}`

type graphQLBody struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// fakeAniList answers the three query shapes with canned data.
// Detail id 404 reports a not-found error and id 500 fails at the transport level.
func fakeAniList(t *testing.T) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body graphQLBody
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")

		switch {
		case strings.Contains(body.Query, "trending:"):
			_, _ = w.Write([]byte(browseResponse))
		case strings.Contains(body.Query, "Media(id:"):
			switch body.Variables["id"] {
			case float64(404):
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"data":{"Media":null},"errors":[{"message":"Not Found.","status":404}]}`))
			case float64(500):
				w.WriteHeader(http.StatusInternalServerError)
			default:
				_, _ = w.Write([]byte(detailResponse))
			}
		case strings.Contains(body.Query, "search: $search"):
			if body.Variables["search"] == "broken" {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = w.Write([]byte(searchResponse))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func setupTestApp(t *testing.T, endpoint string) *App {
	logger := zaptest.NewLogger(t)
	cfg := config.Default()
	cfg.Endpoint = endpoint
	app := NewApp(services.NewAniListService(endpoint, 5*time.Second, logger), cfg, logger)
	app.now = func() time.Time { return time.Date(2024, time.November, 2, 12, 0, 0, 0, time.UTC) }
	return app
}

func get(t *testing.T, app *App, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	req, err := http.NewRequest("GET", target, nil)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	app.router().ServeHTTP(rr, req)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	return rr, doc
}

func TestHealthHandler(t *testing.T) {
	req, err := http.NewRequest("GET", "/health", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(healthHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "OK", rr.Body.String())
}

func TestHomeHandler_RendersCatalog(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	slides := doc.Find("#hero-carousel .swiper-slide")
	assert.Equal(t, 2, slides.Length())
	assert.Equal(t, "Cowboy Bebop", strings.TrimSpace(slides.Eq(0).Find(".featured-title").Text()))
	assert.Equal(t, "Shingeki no Kyojin", strings.TrimSpace(slides.Eq(1).Find(".featured-title").Text()))

	// decorated server-side by the carousel initializer
	assert.Equal(t, 2, doc.Find("#hero-carousel ."+ui.BulletClass).Length())
	assert.True(t, slides.Eq(0).HasClass(ui.SlideActiveClass))

	assert.Equal(t, 1, doc.Find("#seasonal .anime-card").Length())
	assert.Equal(t, "/anime?id=3", doc.Find("#seasonal .anime-card").AttrOr("href", ""))
	assert.Equal(t, 2, doc.Find("#top-rated .ranked-item").Length())
	assert.Contains(t, doc.Find("#upcoming").Text(), render.MsgNothingScheduled)
	assert.Equal(t, 1, doc.Find("#search-input").Length())
}

func TestHomeHandler_CatalogErrorKeepsPageUp(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()
	app := setupTestApp(t, upstream.URL)

	rr, doc := get(t, app, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 4, doc.Find(".status-message.error").Length())
	assert.Contains(t, doc.Find("main").Text(), render.MsgCatalogError)
	assert.Equal(t, 0, doc.Find("#hero-carousel").Length())
}

func TestDetailHandler_Valid(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/anime?id=1")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Cowboy Bebop", doc.Find(".detail-title").Text())
	assert.Equal(t, "Bounty hunters in space.", doc.Find(".detail-description").Text())
	assert.Contains(t, doc.Find("title").Text(), "Cowboy Bebop")
	assert.Contains(t, doc.Find(".detail-info").Text(), "Sunrise")
}

func TestDetailHandler_InvalidID(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	for _, target := range []string{"/anime", "/anime?id=abc", "/anime?id=-3", "/anime?id=0"} {
		rr, doc := get(t, app, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, doc.Find("main").Text(), render.MsgInvalidID, target)
	}
}

func TestDetailHandler_NotFound(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/anime?id=404")

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, doc.Find("main").Text(), render.MsgDetailNotFound)
}

func TestDetailHandler_UpstreamFailure(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/anime?id=500")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, doc.Find("main").Text(), render.MsgDetailError)
}

func TestSearchHandler_EmptyQuery(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/search?q=%20%20")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, doc.Find("main").Text(), render.MsgSearchPrompt)
}

func TestSearchHandler_Results(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/search?q=cowboy")

	assert.Equal(t, http.StatusOK, rr.Code)
	cards := doc.Find("#search-results .anime-card")
	assert.Equal(t, 2, cards.Length())
	assert.Equal(t, "/anime?id=7", cards.Eq(1).AttrOr("href", ""))
	assert.Equal(t, "cowboy", doc.Find("#search-input").AttrOr("value", ""))
}

func TestSearchHandler_UpstreamFailure(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/search?q=broken")

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, doc.Find("main").Text(), render.MsgCatalogError)
}

func TestSuggestHandler_ShortQuery(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	for _, q := range []string{"", "co", "%20co%20"} {
		req, err := http.NewRequest("GET", "/api/suggest?q="+q, nil)
		require.NoError(t, err)
		rr := httptest.NewRecorder()
		app.router().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code, q)
		assert.Empty(t, rr.Body.String(), q)
	}
}

func TestSuggestHandler_Results(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/api/suggest?q=cowboy")

	assert.Equal(t, http.StatusOK, rr.Code)
	var titles []string
	doc.Find(".suggestion-title").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	assert.Equal(t, []string{"Cowboy Bebop", "Cowboy Bebop: The Movie"}, titles)
}

func TestSuggestHandler_Failure(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)

	rr, doc := get(t, app, "/api/suggest?q=broken")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, render.MsgSuggestionsError, doc.Find(".status-message.error").Text())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := setupTestApp(t, fakeAniList(t).URL)
	app.logger = zap.New(core)

	req, err := http.NewRequest("GET", "/health", nil)
	require.NoError(t, err)
	app.router().ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("Request completed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.Len(t, fields["request_id"], 5)
}

func TestRenderFragment(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)
	ctx := context.Background()

	html, err := app.renderFragment(ctx, "suggest", "cowboy")
	require.NoError(t, err)
	assert.Contains(t, string(html), "Cowboy Bebop: The Movie")

	html, err = app.renderFragment(ctx, "detail", "nope")
	assert.ErrorIs(t, err, errInvalidID)
	assert.Contains(t, string(html), render.MsgInvalidID)

	_, err = app.renderFragment(ctx, "sidebar", "")
	assert.ErrorIs(t, err, errUnknownFragment)
}

func TestRunShell(t *testing.T) {
	app := setupTestApp(t, fakeAniList(t).URL)
	opts := ui.DefaultSessionOptions()
	opts.Search.Debounce = 10 * time.Millisecond

	in := strings.NewReader(strings.Join([]string{
		"state",
		"click #menu-open",
		"press ArrowRight",
		"type cowboy",
		"wait 300ms",
		"show #search-suggestions",
		"state",
		"dance",
		"quit",
		"state",
	}, "\n"))
	var out bytes.Buffer

	require.NoError(t, runShell(context.Background(), app, opts, in, &out))

	lines := out.String()
	assert.Contains(t, lines, "search=idle menu=false slide=1/2")
	assert.Contains(t, lines, "Cowboy Bebop: The Movie")
	assert.Contains(t, lines, "search=shown menu=true slide=2/2")
	assert.Contains(t, lines, `unknown command "dance"`)
	assert.Equal(t, 2, strings.Count(lines, "search="), "nothing runs after quit")
}

func TestRunShell_CatalogErrorIsLogged(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()
	core, logs := observer.New(zapcore.WarnLevel)
	app := setupTestApp(t, upstream.URL)
	app.logger = zap.New(core)

	var out bytes.Buffer
	in := strings.NewReader("show main\nquit\n")
	require.NoError(t, runShell(context.Background(), app, ui.DefaultSessionOptions(), in, &out))

	assert.Contains(t, out.String(), render.MsgCatalogError)
	entries := logs.FilterMessage("Failed to load catalog").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap(), "error")
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
