package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMenu(t *testing.T) (*harness, *MenuController) {
	t.Helper()
	h := newHarness(t, layoutPage(t, 0))
	m := NewMenuController(h.page, h.bus, h.loop, h.clock, DefaultMenuOptions(), h.logger)
	var attached bool
	h.do(func() { attached = m.Attach() })
	require.True(t, attached)
	t.Cleanup(func() { h.loop.Do(m.Dispose) })
	return h, m
}

func (h *harness) menuOpen(m *MenuController) bool {
	var open bool
	h.do(func() { open = m.IsOpen() })
	return open
}

func click(h *harness, target string) {
	h.dispatch(Event{Type: EventClick, Target: target})
}

func TestMenuController_OpenAndClose(t *testing.T) {
	h, m := setupMenu(t)
	assert.False(t, h.menuOpen(m))

	click(h, "#menu-open")
	assert.True(t, h.menuOpen(m))
	assert.True(t, h.visible("#sidebar"))
	assert.True(t, h.visible("#sidebar-overlay"))

	click(h, "#menu-close")
	assert.False(t, h.menuOpen(m))
	assert.False(t, h.visible("#sidebar"))
	assert.False(t, h.visible("#sidebar-overlay"))
}

func TestMenuController_OverlayCloses(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, "#sidebar-overlay")
	assert.False(t, h.menuOpen(m))
	assert.False(t, h.visible("#sidebar"))
}

func TestMenuController_OpenIsIdempotent(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, "#menu-open")
	assert.True(t, h.menuOpen(m))
	assert.Equal(t, 1, h.count("#sidebar.active"))

	click(h, "#menu-close")
	click(h, "#menu-close")
	assert.False(t, h.menuOpen(m))
}

func TestMenuController_LinkClosesAfterDelay(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, `.sidebar-nav a[href="/#upcoming"]`)

	h.advance(149 * time.Millisecond)
	assert.True(t, h.menuOpen(m), "link navigation gets a head start")

	h.advance(1 * time.Millisecond)
	assert.False(t, h.menuOpen(m))
	assert.False(t, h.visible("#sidebar-overlay"))
}

func TestMenuController_ReopenCancelsDelayedClose(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, `.sidebar-nav a[href="/#seasonal"]`)
	h.advance(100 * time.Millisecond)
	click(h, "#menu-open")
	h.advance(time.Second)

	assert.True(t, h.menuOpen(m))
}

func TestMenuController_LinkWhileClosedDoesNothing(t *testing.T) {
	h, m := setupMenu(t)

	click(h, `.sidebar-nav a[href="/"]`)
	assert.Equal(t, 0, h.clock.Pending())
	assert.False(t, h.menuOpen(m))
}

func TestMenuController_UnrelatedClickIgnored(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, "main.site-main")
	click(h, "")
	assert.True(t, h.menuOpen(m))
}

func TestMenuController_MissingSidebarIsNoop(t *testing.T) {
	page, err := ParsePageString(`<html><body><button id="menu-open"></button></body></html>`)
	require.NoError(t, err)
	h := newHarness(t, page)
	m := NewMenuController(h.page, h.bus, h.loop, h.clock, DefaultMenuOptions(), h.logger)

	var attached bool
	h.do(func() { attached = m.Attach() })
	assert.False(t, attached)
	assert.Equal(t, 0, h.bus.Count(EventClick))

	click(h, "#menu-open")
	assert.False(t, h.menuOpen(m))
}

func TestMenuController_DisposeCancelsDelayedClose(t *testing.T) {
	h, m := setupMenu(t)

	click(h, "#menu-open")
	click(h, `.sidebar-nav a[href="/"]`)
	h.do(m.Dispose)

	assert.Equal(t, 0, h.clock.Pending())
	assert.Equal(t, 0, h.bus.Count(EventClick))
}
