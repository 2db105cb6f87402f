package ui

import (
	"time"

	"go.uber.org/zap"
)

// MenuOptions configures the mobile sidebar
type MenuOptions struct {
	OpenSelector    string
	CloseSelector   string
	OverlaySelector string
	SidebarSelector string
	LinkSelector    string
	// CloseDelay lets a tapped link start navigating before the sidebar slides away.
	CloseDelay time.Duration
}

// DefaultMenuOptions matches the page layout
func DefaultMenuOptions() MenuOptions {
	return MenuOptions{
		OpenSelector:    "#menu-open",
		CloseSelector:   "#menu-close",
		OverlaySelector: "#sidebar-overlay",
		SidebarSelector: "#sidebar",
		LinkSelector:    ".sidebar-nav a",
		CloseDelay:      150 * time.Millisecond,
	}
}

// MenuController toggles the sidebar between closed and open
type MenuController struct {
	page   *Page
	bus    *Bus
	loop   *Loop
	clock  Clock
	opts   MenuOptions
	logger *zap.Logger

	open       bool
	closeTimer Timer
	closeGen   uint64

	unsubscribe func()
}

// NewMenuController creates a detached controller
func NewMenuController(page *Page, bus *Bus, loop *Loop, clock Clock, opts MenuOptions, logger *zap.Logger) *MenuController {
	if clock == nil {
		clock = RealClock
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MenuController{
		page:   page,
		bus:    bus,
		loop:   loop,
		clock:  clock,
		opts:   opts,
		logger: logger.Named("menu"),
	}
}

// Attach subscribes to clicks. A page without the sidebar leaves the menu inert.
func (m *MenuController) Attach() bool {
	if m.unsubscribe != nil {
		return true
	}
	if m.page == nil || !m.page.Exists(m.opts.SidebarSelector) {
		m.logger.Warn("Sidebar not found, menu disabled", zap.String("sidebar", m.opts.SidebarSelector))
		return false
	}
	m.unsubscribe = m.bus.On(EventClick, m.onClick)
	return true
}

// Dispose unsubscribes and cancels a pending close
func (m *MenuController) Dispose() {
	if m.unsubscribe == nil {
		return
	}
	m.unsubscribe()
	m.unsubscribe = nil
	m.cancelClose()
}

// IsOpen reports whether the sidebar is open
func (m *MenuController) IsOpen() bool {
	return m.open
}

// Open shows the sidebar and overlay
func (m *MenuController) Open() {
	m.cancelClose()
	m.open = true
	m.page.Show(m.opts.SidebarSelector)
	m.page.Show(m.opts.OverlaySelector)
}

// Close hides the sidebar and overlay
func (m *MenuController) Close() {
	m.cancelClose()
	m.open = false
	m.page.Hide(m.opts.SidebarSelector)
	m.page.Hide(m.opts.OverlaySelector)
}

func (m *MenuController) onClick(ev Event) {
	switch {
	case m.page.Within(ev.Target, m.opts.OpenSelector):
		m.Open()
	case m.page.Within(ev.Target, m.opts.CloseSelector, m.opts.OverlaySelector):
		m.Close()
	case m.page.Within(ev.Target, m.opts.LinkSelector):
		if m.open {
			m.scheduleClose()
		}
	}
}

func (m *MenuController) scheduleClose() {
	m.cancelClose()
	gen := m.closeGen
	m.closeTimer = m.clock.AfterFunc(m.opts.CloseDelay, func() {
		m.loop.Post(func() {
			if gen == m.closeGen {
				m.closeTimer = nil
				m.Close()
			}
		})
	})
}

func (m *MenuController) cancelClose() {
	m.closeTimer = stopTimer(m.closeTimer)
	m.closeGen++
}
