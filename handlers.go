package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"anicatalog/config"
	"anicatalog/logx"
	"anicatalog/models"
	"anicatalog/render"
	"anicatalog/services"
	"anicatalog/ui"
)

// searchPageSize is the number of results on the full search page
const searchPageSize = 24

// Catalog is the slice of the AniList service the handlers use
type Catalog interface {
	Browse(ctx context.Context, vars services.BrowseVariables) (*models.BrowseData, error)
	GetMedia(ctx context.Context, id int) (*models.MediaDetail, error)
	Search(ctx context.Context, term string, perPage int) ([]models.SearchHit, error)
}

// App represents the application with its dependencies
type App struct {
	catalog Catalog
	cfg     config.Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewApp creates the HTTP application
func NewApp(catalog Catalog, cfg config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		catalog: catalog,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (app *App) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(app.requestLogger)

	// Health check endpoint
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// Pages
	r.HandleFunc("/", app.homeHandler).Methods("GET")
	r.HandleFunc("/anime", app.detailHandler).Methods("GET")
	r.HandleFunc("/search", app.searchHandler).Methods("GET")

	// Fragments fetched by the search box
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/suggest", app.suggestHandler).Methods("GET")

	return r
}

type contextKey string

const requestIDKey contextKey = "requestID"

// generateRequestID creates a unique 5-character identifier
func generateRequestID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "00000"
	}
	return hex.EncodeToString(b)[:5]
}

// responseRecorder wraps http.ResponseWriter to capture status code
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rr *responseRecorder) WriteHeader(statusCode int) {
	rr.statusCode = statusCode
	rr.ResponseWriter.WriteHeader(statusCode)
}

// requestLogger tags each request with an ID and puts a request-scoped logger
// on the context for handlers to pick up with logx.FromContext.
func (app *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := generateRequestID()
		start := time.Now()

		logger := app.logger.With(
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		ctx = logx.WithLogger(ctx, logger)

		recorder := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r.WithContext(ctx))

		logger.Info("Request completed",
			zap.Int("status", recorder.statusCode),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("OK")); err != nil {
		logx.FromContext(r.Context()).Warn("Failed to write response", zap.Error(err))
	}
}

func writeHTML(w http.ResponseWriter, r *http.Request, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		logx.FromContext(r.Context()).Warn("Failed to write response", zap.Error(err))
	}
}

func (app *App) writePage(w http.ResponseWriter, r *http.Request, status int, data render.PageData) {
	writeHTML(w, r, status, string(render.Page(data)))
}

func (app *App) homeHandler(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())

	vars := services.BrowseVariablesAt(app.now(), services.DefaultBrowsePageSize)
	data, err := app.catalog.Browse(r.Context(), vars)
	if err != nil {
		logger.Error("Error loading catalog", zap.Error(err))
	}

	html := render.Page(render.PageData{Nav: "home", Content: render.Home(data)})
	writeHTML(w, r, http.StatusOK, decorateCarousel(string(html), logger))
}

// decorateCarousel runs the carousel initializer over the rendered page so
// the first paint already has pagination and an active slide. On any failure
// the undecorated page is served.
func decorateCarousel(html string, logger *zap.Logger) string {
	page, err := ui.ParsePageString(html)
	if err != nil {
		logger.Warn("Failed to parse page for carousel", zap.Error(err))
		return html
	}
	if ui.NewCarouselController(page, nil, nil, nil, ui.DefaultCarouselOptions(), logger).Init() == nil {
		return html
	}
	out, err := page.HTML()
	if err != nil {
		logger.Warn("Failed to serialise decorated page", zap.Error(err))
		return html
	}
	return out
}

func (app *App) detailHandler(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())

	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id <= 0 {
		app.writePage(w, r, http.StatusBadRequest, render.PageData{
			Title:   "Anime",
			Content: render.Error(render.MsgInvalidID),
		})
		return
	}

	media, err := app.catalog.GetMedia(r.Context(), id)
	switch {
	case err == nil:
		app.writePage(w, r, http.StatusOK, render.PageData{
			Title:   render.PickTitle(media.Title),
			Content: render.Detail(*media),
		})
	case services.IsNotFound(err):
		logger.Info("Anime not found", zap.Int("id", id))
		app.writePage(w, r, http.StatusNotFound, render.PageData{
			Title:   "Anime",
			Content: render.Error(render.MsgDetailNotFound),
		})
	default:
		logger.Error("Error loading anime details", zap.Int("id", id), zap.Error(err))
		app.writePage(w, r, http.StatusBadGateway, render.PageData{
			Title:   "Anime",
			Content: render.Error(render.MsgDetailError),
		})
	}
}

func (app *App) searchHandler(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	data := render.PageData{Title: "Search", Nav: "search", Query: term}
	if term == "" {
		data.Content = render.Info(render.MsgSearchPrompt)
		app.writePage(w, r, http.StatusOK, data)
		return
	}

	hits, err := app.catalog.Search(r.Context(), term, searchPageSize)
	if err != nil {
		logger.Error("Error searching catalog", zap.String("term", term), zap.Error(err))
		data.Content = render.Section("search-results", "Search", render.Error(render.MsgCatalogError))
		app.writePage(w, r, http.StatusBadGateway, data)
		return
	}

	data.Content = render.SearchResults(term, hits)
	app.writePage(w, r, http.StatusOK, data)
}

func (app *App) suggestHandler(w http.ResponseWriter, r *http.Request) {
	logger := logx.FromContext(r.Context())
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	if utf8.RuneCountInString(term) < app.cfg.SearchMinChars {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	hits, err := app.catalog.Search(r.Context(), term, app.cfg.SuggestPageSize)
	if err != nil {
		logger.Warn("Suggestion request failed", zap.String("term", term), zap.Error(err))
	}
	writeHTML(w, r, http.StatusOK, string(render.SuggestionResult(hits, err)))
}

// renderFragment renders what the named page would contain, for the render command
func (app *App) renderFragment(ctx context.Context, kind, arg string) (template.HTML, error) {
	switch kind {
	case "home":
		data, err := app.catalog.Browse(ctx, services.BrowseVariablesAt(app.now(), services.DefaultBrowsePageSize))
		if err != nil {
			return render.Home(nil), err
		}
		return render.Home(data), nil
	case "detail":
		id, err := strconv.Atoi(arg)
		if err != nil || id <= 0 {
			return render.Error(render.MsgInvalidID), errInvalidID
		}
		media, err := app.catalog.GetMedia(ctx, id)
		if err != nil {
			if services.IsNotFound(err) {
				return render.Error(render.MsgDetailNotFound), err
			}
			return render.Error(render.MsgDetailError), err
		}
		return render.Detail(*media), nil
	case "search":
		hits, err := app.catalog.Search(ctx, arg, searchPageSize)
		if err != nil {
			return render.Error(render.MsgCatalogError), err
		}
		return render.SearchResults(arg, hits), nil
	case "suggest":
		hits, err := app.catalog.Search(ctx, arg, app.cfg.SuggestPageSize)
		return render.SuggestionResult(hits, err), err
	default:
		return "", errUnknownFragment
	}
}
