// Package ui is a headless widget runtime: a page document, an event loop
// that serialises every handler, and the interactive controllers that attach
// to the page (search suggestions, featured carousel, mobile menu).
package ui

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const loopQueueSize = 256

// Loop runs posted tasks one at a time on a single goroutine.
// All page mutation happens inside tasks; timers and network completions
// post back onto the loop instead of touching the page themselves.
type Loop struct {
	tasks   chan func()
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.RWMutex
	logger  *zap.Logger
}

// NewLoop creates a stopped loop
func NewLoop(logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{logger: logger}
}

// Start begins processing tasks
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running {
		l.logger.Debug("Event loop is already running")
		return
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.tasks = make(chan func(), loopQueueSize)
	l.running = true

	l.wg.Add(1)
	go l.run(l.ctx, l.tasks)
}

// Stop halts the loop and waits for the current task to finish.
// Tasks still queued are dropped.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.cancel()
	l.running = false
	l.mu.Unlock()

	l.wg.Wait()
	l.logger.Debug("Event loop stopped")
}

// IsRunning returns whether the loop is accepting tasks
func (l *Loop) IsRunning() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.running
}

// Post queues task and reports whether it was accepted.
// Do not call Post from inside a task with a full queue; it would wait on itself.
func (l *Loop) Post(task func()) bool {
	l.mu.RLock()
	if !l.running {
		l.mu.RUnlock()
		return false
	}
	ctx, tasks := l.ctx, l.tasks
	l.mu.RUnlock()

	select {
	case tasks <- task:
		return true
	case <-ctx.Done():
		return false
	}
}

// Do runs task on the loop and waits for it. It must not be called from a task.
func (l *Loop) Do(task func()) bool {
	l.mu.RLock()
	ctx := l.ctx
	l.mu.RUnlock()
	if ctx == nil {
		return false
	}

	done := make(chan struct{})
	if !l.Post(func() {
		defer close(done)
		task()
	}) {
		return false
	}
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}

func (l *Loop) run(ctx context.Context, tasks <-chan func()) {
	defer l.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-tasks:
			l.runTask(task)
		}
	}
}

// A failing handler degrades its own widget; it never takes the loop down.
func (l *Loop) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("Event handler panicked", zap.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}
