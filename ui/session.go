package ui

import (
	"go.uber.org/zap"
)

// SessionOptions configures the controllers a session attaches
type SessionOptions struct {
	Clock    Clock
	Search   SearchOptions
	Carousel CarouselOptions
	Menu     MenuOptions
}

// DefaultSessionOptions uses the real clock and the default layout selectors
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		Clock:    RealClock,
		Search:   DefaultSearchOptions(),
		Carousel: DefaultCarouselOptions(),
		Menu:     DefaultMenuOptions(),
	}
}

// Session binds every controller to one page and runs them on a single loop
type Session struct {
	page   *Page
	bus    *Bus
	loop   *Loop
	logger *zap.Logger

	Search   *SearchController
	Carousel *CarouselController
	Menu     *MenuController
}

// NewSession wires the controllers for page. Nothing runs until Start.
func NewSession(page *Page, searcher Searcher, opts SessionOptions, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = RealClock
	}
	bus := NewBus()
	loop := NewLoop(logger.Named("loop"))

	return &Session{
		page:     page,
		bus:      bus,
		loop:     loop,
		logger:   logger,
		Search:   NewSearchController(page, bus, loop, opts.Clock, searcher, opts.Search, logger),
		Carousel: NewCarouselController(page, bus, loop, opts.Clock, opts.Carousel, logger),
		Menu:     NewMenuController(page, bus, loop, opts.Clock, opts.Menu, logger),
	}
}

// Start runs the loop and attaches the controllers on it
func (s *Session) Start() {
	s.loop.Start()
	s.loop.Do(func() {
		search := s.Search.Attach()
		menu := s.Menu.Attach()
		carousel := s.Carousel.Init() != nil
		s.logger.Info("Session started",
			zap.Bool("search", search),
			zap.Bool("menu", menu),
			zap.Bool("carousel", carousel))
	})
}

// Dispatch queues ev for the controllers
func (s *Session) Dispatch(ev Event) bool {
	return s.loop.Post(func() { s.bus.Dispatch(ev) })
}

// Do runs fn on the loop and waits; use it to read controller or page state
func (s *Session) Do(fn func()) bool {
	return s.loop.Do(fn)
}

// Page returns the document; touch it only from inside Do
func (s *Session) Page() *Page {
	return s.page
}

// Close disposes the controllers in reverse attach order and stops the loop
func (s *Session) Close() {
	s.loop.Do(func() {
		s.Carousel.Dispose()
		s.Menu.Dispose()
		s.Search.Dispose()
	})
	s.loop.Stop()
	s.logger.Info("Session closed")
}
