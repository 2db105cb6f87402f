package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Swiper class names the stylesheet keys on
const (
	SlideActiveClass  = "swiper-slide-active"
	BulletClass       = "swiper-pagination-bullet"
	BulletActiveClass = "swiper-pagination-bullet-active"
	initializedClass  = "swiper-initialized"
)

var (
	// ErrNoContainer is returned when the carousel container is not on the page
	ErrNoContainer = errors.New("carousel container not found")
	// ErrNoSlides is returned when the container holds no slides
	ErrNoSlides = errors.New("carousel has no slides")
	// ErrNilCarousel is returned when a constructor yields no instance and no error
	ErrNilCarousel = errors.New("constructor returned no carousel")
)

// LibraryMissingError reports that no carousel constructor is available
type LibraryMissingError struct {
	Library string
}

func (e *LibraryMissingError) Error() string {
	return fmt.Sprintf("carousel library %q is not available", e.Library)
}

// CarouselEnv is what a carousel needs from the page runtime.
// Loop, Bus and Clock may be nil for a static render: the markup is
// decorated but nothing is subscribed and autoplay stays off.
type CarouselEnv struct {
	Page   *Page
	Bus    *Bus
	Loop   *Loop
	Clock  Clock
	Logger *zap.Logger
}

// CarouselConstructor builds a carousel on root
type CarouselConstructor func(env CarouselEnv, root *goquery.Selection, opts CarouselOptions) (*Carousel, error)

// CarouselOptions configures the featured carousel
type CarouselOptions struct {
	ContainerSelector  string
	SlideSelector      string
	PaginationSelector string
	Autoplay           time.Duration
	Effect             string
	Pagination         bool
	Keyboard           bool
	Loop               bool
	Constructor        CarouselConstructor
}

// DefaultCarouselOptions matches the hero carousel rendered on the home page
func DefaultCarouselOptions() CarouselOptions {
	return CarouselOptions{
		ContainerSelector:  "#hero-carousel",
		SlideSelector:      ".swiper-slide",
		PaginationSelector: ".swiper-pagination",
		Autoplay:           5 * time.Second,
		Effect:             "fade",
		Pagination:         true,
		Keyboard:           true,
		Loop:               true,
		Constructor:        NewCarousel,
	}
}

// Carousel is one live carousel instance bound to a container
type Carousel struct {
	env     CarouselEnv
	opts    CarouselOptions
	root    *goquery.Selection
	slides  *goquery.Selection
	bullets *goquery.Selection

	active      int
	destroyed   bool
	autoplay    Timer
	autoplayGen uint64
	unsubscribe []func()
}

// NewCarousel decorates root and, when a bus is present, binds keyboard and
// pagination handlers.
func NewCarousel(env CarouselEnv, root *goquery.Selection, opts CarouselOptions) (*Carousel, error) {
	if root == nil || root.Length() == 0 {
		return nil, ErrNoContainer
	}
	slides := root.Find(opts.SlideSelector)
	if slides.Length() == 0 {
		return nil, ErrNoSlides
	}
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}

	c := &Carousel{
		env:    env,
		opts:   opts,
		root:   root,
		slides: slides,
	}

	root.AddClass(initializedClass)
	if opts.Effect != "" {
		root.AddClass("swiper-" + opts.Effect)
		root.SetAttr("data-effect", opts.Effect)
	}
	if opts.Autoplay > 0 {
		root.SetAttr("data-autoplay", strconv.FormatInt(opts.Autoplay.Milliseconds(), 10))
	}
	if opts.Pagination {
		c.buildBullets()
	}

	if env.Bus != nil {
		if opts.Keyboard {
			c.unsubscribe = append(c.unsubscribe, env.Bus.On(EventKeyDown, c.onKeyDown))
		}
		if opts.Pagination && env.Page != nil {
			c.unsubscribe = append(c.unsubscribe, env.Bus.On(EventClick, c.onClick))
		}
	}

	c.show(0)
	c.scheduleAutoplay()
	return c, nil
}

func (c *Carousel) buildBullets() {
	pagination := c.root.Find(c.opts.PaginationSelector).First()
	if pagination.Length() == 0 {
		return
	}
	pagination.Empty()
	for i := 0; i < c.slides.Length(); i++ {
		pagination.AppendHtml(fmt.Sprintf(
			`<button type="button" class="%s" data-index="%d" aria-label="Go to slide %d"></button>`,
			BulletClass, i, i+1))
	}
	c.bullets = pagination.Find("." + BulletClass)
}

// Len returns the number of slides
func (c *Carousel) Len() int {
	return c.slides.Length()
}

// Active returns the index of the visible slide
func (c *Carousel) Active() int {
	return c.active
}

// Destroyed reports whether Destroy has run
func (c *Carousel) Destroyed() bool {
	return c.destroyed
}

// GoTo shows slide i. Out of range indexes wrap when looping and clamp otherwise.
func (c *Carousel) GoTo(i int) {
	if c.destroyed {
		return
	}
	n := c.Len()
	if c.opts.Loop {
		i = ((i % n) + n) % n
	} else if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	c.show(i)
	c.scheduleAutoplay()
}

// Next advances one slide
func (c *Carousel) Next() {
	c.GoTo(c.active + 1)
}

// Prev goes back one slide
func (c *Carousel) Prev() {
	c.GoTo(c.active - 1)
}

func (c *Carousel) show(i int) {
	c.active = i
	c.slides.RemoveClass(SlideActiveClass)
	c.slides.Eq(i).AddClass(SlideActiveClass)
	if c.bullets != nil {
		c.bullets.RemoveClass(BulletActiveClass)
		c.bullets.Eq(i).AddClass(BulletActiveClass)
	}
}

func (c *Carousel) scheduleAutoplay() {
	c.autoplay = stopTimer(c.autoplay)
	c.autoplayGen++
	if c.opts.Autoplay <= 0 || c.env.Clock == nil || c.env.Loop == nil || c.Len() < 2 {
		return
	}
	gen := c.autoplayGen
	c.autoplay = c.env.Clock.AfterFunc(c.opts.Autoplay, func() {
		c.env.Loop.Post(func() {
			if c.destroyed || gen != c.autoplayGen {
				return
			}
			c.autoplay = nil
			// autoplay rewinds to the first slide even without looping
			next := c.active + 1
			if next >= c.Len() {
				next = 0
			}
			c.GoTo(next)
		})
	})
}

func (c *Carousel) onKeyDown(ev Event) {
	switch ev.Key {
	case "ArrowRight":
		c.Next()
	case "ArrowLeft":
		c.Prev()
	}
}

func (c *Carousel) onClick(ev Event) {
	if ev.Target == "" {
		return
	}
	bullet := c.env.Page.Find(ev.Target).First().Closest("." + BulletClass)
	if bullet.Length() == 0 || !c.root.Contains(bullet.Get(0)) {
		return
	}
	i, err := strconv.Atoi(bullet.AttrOr("data-index", ""))
	if err != nil {
		return
	}
	c.GoTo(i)
}

// Destroy unbinds handlers, stops autoplay and strips the decoration so a
// fresh instance can be built on the same container.
func (c *Carousel) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	for _, off := range c.unsubscribe {
		off()
	}
	c.unsubscribe = nil
	c.autoplay = stopTimer(c.autoplay)
	c.autoplayGen++

	c.slides.RemoveClass(SlideActiveClass)
	if c.bullets != nil {
		c.bullets.Remove()
		c.bullets = nil
	}
	c.root.RemoveClass(initializedClass)
	if c.opts.Effect != "" {
		c.root.RemoveClass("swiper-" + c.opts.Effect)
	}
	c.root.RemoveAttr("data-effect")
	c.root.RemoveAttr("data-autoplay")
}

// CarouselController owns at most one carousel on its container
type CarouselController struct {
	env      CarouselEnv
	opts     CarouselOptions
	logger   *zap.Logger
	instance *Carousel
}

// NewCarouselController creates a controller with no live instance.
// Pass a nil bus, loop and clock for a one-shot static decoration.
func NewCarouselController(page *Page, bus *Bus, loop *Loop, clock Clock, opts CarouselOptions, logger *zap.Logger) *CarouselController {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("carousel")
	return &CarouselController{
		env:    CarouselEnv{Page: page, Bus: bus, Loop: loop, Clock: clock, Logger: logger},
		opts:   opts,
		logger: logger,
	}
}

// Init tears down any existing instance and builds a new one.
// Failures are logged and leave the page without a carousel.
func (c *CarouselController) Init() *Carousel {
	inst, err := c.initCarousel()
	if err != nil {
		c.logger.Warn("Carousel not initialized",
			zap.String("container", c.opts.ContainerSelector),
			zap.Error(err))
		return nil
	}
	c.logger.Debug("Carousel initialized", zap.Int("slides", inst.Len()))
	return inst
}

func (c *CarouselController) initCarousel() (*Carousel, error) {
	c.Dispose()

	if c.opts.Constructor == nil {
		return nil, &LibraryMissingError{Library: "swiper"}
	}
	if c.env.Page == nil {
		return nil, ErrNoContainer
	}
	root := c.env.Page.Find(c.opts.ContainerSelector).First()
	if root.Length() == 0 {
		return nil, ErrNoContainer
	}
	if root.Find(c.opts.SlideSelector).Length() == 0 {
		return nil, ErrNoSlides
	}

	inst, err := c.opts.Constructor(c.env, root, c.opts)
	if err != nil {
		return nil, fmt.Errorf("failed to construct carousel: %w", err)
	}
	if inst == nil {
		return nil, fmt.Errorf("failed to construct carousel: %w", ErrNilCarousel)
	}
	c.instance = inst
	return inst, nil
}

// Instance returns the live carousel, or nil
func (c *CarouselController) Instance() *Carousel {
	return c.instance
}

// Dispose destroys the live instance, if any
func (c *CarouselController) Dispose() {
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
}
