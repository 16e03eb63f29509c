package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Func is one tick of work. It receives a context cancelled on Stop.
type Func func(ctx context.Context)

type Options struct {
	logger    *zap.Logger
	immediate bool
	once      bool
}

type Option func(*Options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

// WithImmediate runs fn once on Start before the first interval elapses.
func WithImmediate(enabled bool) Option {
	return func(o *Options) { o.immediate = enabled }
}

// WithOnce runs fn a single time on Start and never again.
func WithOnce() Option {
	return func(o *Options) {
		o.once = true
		o.immediate = true
	}
}

// Task runs fn every interval between Start and Stop. A task can be
// restarted after it has been stopped.
type Task struct {
	name     string
	interval time.Duration
	fn       Func
	opts     Options

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a stopped task.
func New(name string, interval time.Duration, fn Func, opts ...Option) *Task {
	if fn == nil {
		panic("poller: nil func")
	}
	options := Options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	if interval <= 0 && !options.once {
		panic("poller: interval must be positive")
	}
	options.logger = options.logger.Named("poller").With(zap.String("task", name))

	return &Task{
		name:     name,
		interval: interval,
		fn:       fn,
		opts:     options,
	}
}

// Start launches the loop. Calling Start on a running task is a no-op.
func (t *Task) Start(parent context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	t.cancel = cancel
	t.done = done

	go t.loop(ctx, done)
	t.opts.logger.Debug("task started", zap.Duration("interval", t.interval))
}

// Stop cancels the loop and waits for the current tick to return.
func (t *Task) Stop() {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	t.opts.logger.Debug("task stopped")
}

// Running reports whether the task has been started and not stopped.
func (t *Task) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancel != nil
}

func (t *Task) Name() string { return t.name }

func (t *Task) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	if t.opts.immediate {
		t.run(ctx)
	}
	if t.opts.once {
		return
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.run(ctx)
		}
	}
}

func (t *Task) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			t.opts.logger.Error("task tick panicked", zap.Any("panic", r))
		}
	}()
	t.fn(ctx)
}
