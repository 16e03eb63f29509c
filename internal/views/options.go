package views

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultClockInterval  = time.Second
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

type Options struct {
	logger         *zap.Logger
	metrics        Metrics
	journal        Journal
	clockInterval  time.Duration
	pollInterval   time.Duration
	requestTimeout time.Duration
}

type Option func(*Options)

func WithLogger(logger *zap.Logger) Option {
	return func(o *Options) { o.logger = logger }
}

func WithMetrics(m Metrics) Option {
	return func(o *Options) { o.metrics = m }
}

func WithJournal(j Journal) Option {
	return func(o *Options) { o.journal = j }
}

func WithClockInterval(d time.Duration) Option {
	return func(o *Options) { o.clockInterval = d }
}

// WithPollInterval sets the Home data refresh period.
func WithPollInterval(d time.Duration) Option {
	return func(o *Options) { o.pollInterval = d }
}

// WithRequestTimeout bounds detached requests such as mark-read.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *Options) { o.requestTimeout = d }
}

func buildOptions(opts []Option) Options {
	options := Options{
		clockInterval:  defaultClockInterval,
		pollInterval:   defaultPollInterval,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = zap.NewNop()
	}
	if options.metrics == nil {
		options.metrics = nopMetrics{}
	}
	if options.journal == nil {
		options.journal = nopJournal{}
	}
	if options.clockInterval <= 0 {
		options.clockInterval = defaultClockInterval
	}
	if options.pollInterval <= 0 {
		options.pollInterval = defaultPollInterval
	}
	if options.requestTimeout <= 0 {
		options.requestTimeout = defaultRequestTimeout
	}
	return options
}
