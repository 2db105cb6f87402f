package ui

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"anicatalog/models"
	"anicatalog/render"
)

// SearchState is the visibility state of the suggestion panel
type SearchState int

// Search states
const (
	SearchIdle SearchState = iota
	SearchPending
	SearchShown
)

func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchPending:
		return "pending"
	case SearchShown:
		return "shown"
	default:
		return "unknown"
	}
}

// Searcher runs a text search against the catalog
type Searcher interface {
	Search(ctx context.Context, term string, perPage int) ([]models.SearchHit, error)
}

// SearchOptions configures the suggestion controller
type SearchOptions struct {
	InputSelector       string
	SuggestionsSelector string
	TriggerSelector     string
	MinChars            int
	Debounce            time.Duration
	// BlurGrace leaves time for a click on a suggestion to land before hiding.
	BlurGrace time.Duration
	PageSize  int
}

// DefaultSearchOptions matches the page layout rendered by the render package
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		InputSelector:       "#search-input",
		SuggestionsSelector: "#search-suggestions",
		TriggerSelector:     "#search-trigger",
		MinChars:            3,
		Debounce:            350 * time.Millisecond,
		BlurGrace:           200 * time.Millisecond,
		PageSize:            8,
	}
}

// SearchController drives type-ahead suggestions for the search box.
//
// Input is debounced; only the last keystroke inside the delay window issues
// a request. Each request gets a sequence number and a response is applied
// only if no newer request was issued since, so a slow early response can
// never overwrite a later one.
type SearchController struct {
	page     *Page
	bus      *Bus
	loop     *Loop
	clock    Clock
	searcher Searcher
	opts     SearchOptions
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	state       SearchState
	debounce    Timer
	debounceGen uint64
	hide        Timer
	hideGen     uint64
	seq         uint64
	requests    int

	unsubscribe []func()
	attached    bool
}

// NewSearchController creates a detached controller
func NewSearchController(page *Page, bus *Bus, loop *Loop, clock Clock, searcher Searcher, opts SearchOptions, logger *zap.Logger) *SearchController {
	if clock == nil {
		clock = RealClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SearchController{
		page:     page,
		bus:      bus,
		loop:     loop,
		clock:    clock,
		searcher: searcher,
		opts:     opts,
		logger:   logger.Named("search"),
	}
}

// Attach subscribes to page events. Without the input or the suggestions
// container on the page it does nothing and returns false.
func (c *SearchController) Attach() bool {
	if c.attached {
		return true
	}
	if c.page == nil || !c.page.Exists(c.opts.InputSelector) || !c.page.Exists(c.opts.SuggestionsSelector) {
		c.logger.Warn("Search elements not found, suggestions disabled",
			zap.String("input", c.opts.InputSelector),
			zap.String("suggestions", c.opts.SuggestionsSelector))
		return false
	}
	if c.searcher == nil {
		c.logger.Warn("No searcher configured, suggestions disabled")
		return false
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.unsubscribe = append(c.unsubscribe,
		c.bus.On(EventInput, c.onInput),
		c.bus.On(EventFocus, c.onFocus),
		c.bus.On(EventBlur, c.onBlur),
		c.bus.On(EventPointerDown, c.onPointerDown),
	)
	c.attached = true
	c.state = SearchIdle
	return true
}

// Dispose removes the handlers, cancels timers and abandons in-flight requests
func (c *SearchController) Dispose() {
	if !c.attached {
		return
	}
	for _, off := range c.unsubscribe {
		off()
	}
	c.unsubscribe = nil
	c.debounce = stopTimer(c.debounce)
	c.hide = stopTimer(c.hide)
	c.debounceGen++
	c.hideGen++
	c.seq++
	c.cancel()
	c.attached = false
	c.state = SearchIdle
}

// State returns the current state; call it from the loop
func (c *SearchController) State() SearchState {
	return c.state
}

// Requests returns how many searches have been issued; call it from the loop
func (c *SearchController) Requests() int {
	return c.requests
}

func (c *SearchController) isInput(ev Event) bool {
	return c.page.Within(ev.Target, c.opts.InputSelector)
}

func (c *SearchController) onInput(ev Event) {
	if !c.isInput(ev) {
		return
	}
	c.page.Find(c.opts.InputSelector).First().SetAttr("value", ev.Value)

	c.hide = stopTimer(c.hide)
	c.hideGen++
	c.debounce = stopTimer(c.debounce)
	c.debounceGen++

	term := strings.TrimSpace(ev.Value)
	if utf8.RuneCountInString(term) < c.opts.MinChars {
		c.goIdle()
		return
	}

	c.state = SearchPending
	gen := c.debounceGen
	c.debounce = c.clock.AfterFunc(c.opts.Debounce, func() {
		c.loop.Post(func() { c.fire(gen, term) })
	})
}

func (c *SearchController) fire(gen uint64, term string) {
	// A keystroke that arrived after the timer fired owns the window now.
	if !c.attached || gen != c.debounceGen {
		return
	}
	c.debounce = nil
	c.seq++
	c.requests++
	seq, ctx := c.seq, c.ctx

	c.logger.Debug("Fetching suggestions", zap.String("term", term), zap.Uint64("seq", seq))
	go func() {
		hits, err := c.searcher.Search(ctx, term, c.opts.PageSize)
		c.loop.Post(func() { c.deliver(seq, term, hits, err) })
	}()
}

func (c *SearchController) deliver(seq uint64, term string, hits []models.SearchHit, err error) {
	if !c.attached || seq != c.seq {
		c.logger.Debug("Dropping stale suggestions", zap.String("term", term), zap.Uint64("seq", seq))
		return
	}
	if err != nil {
		c.logger.Warn("Suggestion request failed", zap.String("term", term), zap.Error(err))
	}
	c.page.SetHTML(c.opts.SuggestionsSelector, string(render.SuggestionResult(hits, err)))
	c.page.Show(c.opts.SuggestionsSelector)
	c.state = SearchShown
}

func (c *SearchController) onFocus(ev Event) {
	if !c.isInput(ev) {
		return
	}
	c.hide = stopTimer(c.hide)
	c.hideGen++
}

func (c *SearchController) onBlur(ev Event) {
	if !c.isInput(ev) {
		return
	}
	c.hide = stopTimer(c.hide)
	c.hideGen++
	gen := c.hideGen
	c.hide = c.clock.AfterFunc(c.opts.BlurGrace, func() {
		c.loop.Post(func() {
			if c.attached && gen == c.hideGen {
				c.hide = nil
				c.goIdle()
			}
		})
	})
}

func (c *SearchController) onPointerDown(ev Event) {
	if c.page.Within(ev.Target, c.opts.InputSelector, c.opts.SuggestionsSelector, c.opts.TriggerSelector) {
		return
	}
	if c.state == SearchIdle && !c.page.Visible(c.opts.SuggestionsSelector) {
		return
	}
	c.goIdle()
}

// goIdle hides the panel and forgets any pending or in-flight query.
func (c *SearchController) goIdle() {
	c.debounce = stopTimer(c.debounce)
	c.debounceGen++
	c.hide = stopTimer(c.hide)
	c.hideGen++
	c.seq++
	c.page.Hide(c.opts.SuggestionsSelector)
	c.state = SearchIdle
}
