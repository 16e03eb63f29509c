package views

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/report"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/washroom"
	"github.com/godilite/washroom-dashboard/pkg/poller"
)

const ReportName = "report"

// ReportChange lists the selectors to modify. Nil fields are left alone; a
// zero Washroom clears the selection.
type ReportChange struct {
	Granularity *report.Granularity
	Date        *report.Date
	Washroom    *washroom.Identifier
	Kind        *report.Kind
}

func (c ReportChange) empty() bool {
	return c.Granularity == nil && c.Date == nil && c.Washroom == nil && c.Kind == nil
}

// ReportSnapshot is the rendered report page.
type ReportSnapshot struct {
	CurrentTime string              `json:"currentTime"`
	Washrooms   []string            `json:"washrooms"`
	Granularity report.Granularity  `json:"dateType"`
	Date        string              `json:"date"`
	Washroom    string              `json:"washroom,omitempty"`
	Kind        report.Kind         `json:"reportType"`
	Loading     bool                `json:"loading"`
	NoData      bool                `json:"noData"`
	Report      *service.ReportView `json:"report,omitempty"`
}

// Report drives the reporting page. Every selector change with a washroom
// chosen issues a fetch; only the newest fetch may update the chart.
type Report struct {
	base
	builder   ReportBuilder
	washrooms WashroomLister

	list        []washroom.Identifier
	granularity report.Granularity
	date        report.Date
	selected    washroom.Identifier
	kind        report.Kind

	seq     uint64
	loading bool
	result  *service.ReportView
}

func NewReport(builder ReportBuilder, washrooms WashroomLister, clock *Clock, opts ...Option) *Report {
	if builder == nil {
		panic("report builder cannot be nil")
	}
	if washrooms == nil {
		panic("washroom lister cannot be nil")
	}
	r := &Report{builder: builder, washrooms: washrooms}
	r.init(ReportName, clock, opts)
	r.tasks = []*poller.Task{
		r.clockTask(),
		poller.New(ReportName+"-washrooms", 0, r.loadWashrooms,
			poller.WithOnce(),
			poller.WithLogger(r.logger)),
	}
	r.reset()
	return r
}

// Activate restores the default selectors and loads the washroom list.
func (r *Report) Activate(ctx context.Context) {
	r.mu.Lock()
	r.reset()
	r.mu.Unlock()
	r.start(ctx)
}

func (r *Report) Deactivate() { r.stop() }

func (r *Report) reset() {
	r.granularity = report.Day
	r.date = r.clock.Today()
	r.selected = washroom.Identifier{}
	r.kind = report.KindUsage
	r.seq++
	r.loading = false
	r.result = nil
}

func (r *Report) loadWashrooms(ctx context.Context) {
	r.opts.metrics.PollTick(ReportName)

	configs, err := r.washrooms.Configurations(ctx)
	if err != nil {
		if ctx.Err() == nil {
			r.logger.Warn("failed to load washrooms", zap.Error(err))
		}
		return
	}

	ids := make([]washroom.Identifier, 0, len(configs))
	for _, c := range configs {
		ids = append(ids, c.Identifier())
	}
	washroom.Sort(ids)

	r.mu.Lock()
	r.list = ids
	r.mu.Unlock()
}

// Update applies ch and issues a fetch when a washroom is selected. It
// returns ErrViewInactive unless the view is active.
func (r *Report) Update(ch ReportChange) (ReportSnapshot, error) {
	if ch.Granularity != nil {
		if _, err := report.ParseGranularity(string(*ch.Granularity)); err != nil {
			return ReportSnapshot{}, err
		}
	}
	if ch.Kind != nil {
		if _, err := report.ParseKind(string(*ch.Kind)); err != nil {
			return ReportSnapshot{}, err
		}
	}
	if ch.Date != nil && ch.Date.IsZero() {
		return ReportSnapshot{}, fmt.Errorf("%w: date is required", report.ErrInvalidQuery)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isActive() {
		return r.snapshotLocked(), ErrViewInactive
	}
	if ch.empty() {
		return r.snapshotLocked(), nil
	}
	if ch.Granularity != nil {
		r.granularity = *ch.Granularity
	}
	if ch.Date != nil {
		r.date = *ch.Date
	}
	if ch.Kind != nil {
		r.kind = *ch.Kind
	}
	if ch.Washroom != nil {
		r.selected = *ch.Washroom
	}

	if r.selected.IsZero() {
		// Supersede anything in flight and show the empty chart.
		r.seq++
		r.loading = false
		r.result = nil
		return r.snapshotLocked(), nil
	}

	r.issueLocked()
	return r.snapshotLocked(), nil
}

func (r *Report) issueLocked() {
	r.seq++
	id := r.seq
	q := report.Query{
		Granularity: r.granularity,
		Date:        r.date,
		Washroom:    r.selected,
		Kind:        r.kind,
	}
	r.loading = true
	if !r.detach(func(ctx context.Context) { r.fetch(ctx, id, q) }) {
		r.loading = false
		r.logger.Debug("view deactivated, report fetch skipped", zap.Uint64("seq", id))
	}
}

func (r *Report) fetch(ctx context.Context, id uint64, q report.Query) {
	view, err := r.builder.Build(ctx, q)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id != r.seq {
		r.opts.metrics.StaleReportDiscarded()
		r.logger.Debug("discarding stale report", zap.Uint64("seq", id), zap.Uint64("latest", r.seq))
		return
	}

	r.loading = false
	switch {
	case errors.Is(err, service.ErrNoData):
		r.result = nil
		r.logger.Info("no report data", zap.String("key", q.Key()))
	case err != nil:
		r.result = nil
		r.logger.Error("error fetching report data", zap.String("key", q.Key()), zap.Error(err))
	default:
		r.result = &view
	}
}

func (r *Report) Snapshot() ReportSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Report) snapshotLocked() ReportSnapshot {
	names := make([]string, len(r.list))
	for i, id := range r.list {
		names[i] = id.String()
	}
	snap := ReportSnapshot{
		CurrentTime: r.now,
		Washrooms:   names,
		Granularity: r.granularity,
		Date:        r.date.UTCMidnight().Format("2006-01-02"),
		Kind:        r.kind,
		Loading:     r.loading,
		Report:      r.result,
	}
	if !r.selected.IsZero() {
		snap.Washroom = r.selected.String()
		snap.NoData = !r.loading && r.result == nil
	}
	return snap
}
