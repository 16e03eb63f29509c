package views

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/pkg/poller"
)

// ErrViewInactive rejects an action on a view the router has not activated.
var ErrViewInactive = errors.New("view is not active")

// base carries what every timed view shares: the header clock, its task
// list and the state lock. Each view guards its own fields with mu.
type base struct {
	name   string
	clock  *Clock
	opts   Options
	logger *zap.Logger
	mu     sync.Mutex
	now    string
	tasks  []*poller.Task

	// life orders active against pending: Add only happens while active is
	// set, and stop clears it before Wait. It nests inside mu, never around.
	life    sync.Mutex
	active  bool
	pending sync.WaitGroup
}

func (b *base) init(name string, clock *Clock, opts []Option) {
	if clock == nil {
		panic("clock cannot be nil")
	}
	b.name = name
	b.clock = clock
	b.opts = buildOptions(opts)
	b.logger = b.opts.logger.Named(name)
}

func (b *base) Name() string { return b.name }

// clockTask refreshes the header time every clock interval, starting
// immediately.
func (b *base) clockTask() *poller.Task {
	return poller.New(b.name+"-clock", b.opts.clockInterval, b.tickClock,
		poller.WithImmediate(true),
		poller.WithLogger(b.logger))
}

func (b *base) tickClock(context.Context) {
	text := b.clock.String()
	b.mu.Lock()
	b.now = text
	b.mu.Unlock()
}

func (b *base) start(ctx context.Context) {
	b.life.Lock()
	b.active = true
	b.life.Unlock()

	for _, t := range b.tasks {
		t.Start(ctx)
	}
	b.logger.Debug("view activated")
}

// stop refuses new detached work, halts every task and waits for detached
// requests already running to finish.
func (b *base) stop() {
	b.life.Lock()
	b.active = false
	b.life.Unlock()

	for _, t := range b.tasks {
		t.Stop()
	}
	b.pending.Wait()
	b.logger.Debug("view deactivated")
}

// Running reports whether any of the view's timers is live.
func (b *base) Running() bool {
	for _, t := range b.tasks {
		if t.Running() {
			return true
		}
	}
	return false
}

func (b *base) isActive() bool {
	b.life.Lock()
	defer b.life.Unlock()
	return b.active
}

// detach runs fn on its own goroutine with a fresh bounded context so it
// outlives the view's timers. stop waits for it. It reports false, and does
// not run fn, once the view has been deactivated.
func (b *base) detach(fn func(ctx context.Context)) bool {
	b.life.Lock()
	if !b.active {
		b.life.Unlock()
		return false
	}
	b.pending.Add(1)
	b.life.Unlock()

	go func() {
		defer b.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.opts.requestTimeout)
		defer cancel()
		fn(ctx)
	}()
	return true
}

func (b *base) record(ctx context.Context, a repomodels.Activity) {
	if _, err := b.opts.journal.Record(ctx, a); err != nil {
		b.logger.Warn("failed to record activity",
			zap.String("kind", string(a.Kind)),
			zap.Error(err))
	}
}
