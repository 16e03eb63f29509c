package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/backend"
	"github.com/godilite/washroom-dashboard/internal/report"
)

const (
	fetchTimeout = 10 * time.Second
)

var (
	ErrNoData         = errors.New("no data available")
	ErrBackendFailure = errors.New("backend failure")
	ErrInvalidReport  = errors.New("invalid report data")
)

// ReportService turns raw report aggregates into chart view-models.
type ReportService struct {
	backend ReportFetcher
	logger  *zap.Logger
}

// NewReportService creates a new ReportService instance.
func NewReportService(fetcher ReportFetcher, logger *zap.Logger) *ReportService {
	if fetcher == nil {
		panic("fetcher must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &ReportService{
		backend: fetcher,
		logger:  logger,
	}
}

// Build fetches the aggregate for q and builds its view-model.
func (s *ReportService) Build(ctx context.Context, q report.Query) (ReportView, error) {
	if err := q.Validate(); err != nil {
		return ReportView{}, err
	}

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	res, err := s.backend.Report(fetchCtx, q)
	switch {
	case errors.Is(err, backend.ErrNoData):
		return ReportView{}, ErrNoData
	case err != nil:
		return ReportView{}, fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}

	view, err := BuildView(q, res)
	if err != nil {
		return ReportView{}, err
	}
	if view.Usage != nil && len(res.Usage) != view.Usage.Len() {
		s.logger.Warn("usage series length differs from labels",
			zap.String("granularity", string(q.Granularity)),
			zap.String("washroom", q.Washroom.String()),
			zap.Int("counts", len(res.Usage)),
			zap.Int("labels", view.Usage.Len()))
	}

	s.logger.Debug("built report view",
		zap.String("kind", string(q.Kind)),
		zap.String("washroom", q.Washroom.String()),
		zap.String("date_value", view.DateValue))
	return view, nil
}

// BuildView assembles the view-model for an already fetched result.
func BuildView(q report.Query, res report.Result) (ReportView, error) {
	dv, err := q.DateValue()
	if err != nil {
		return ReportView{}, err
	}
	view := ReportView{
		Kind:        q.Kind,
		Granularity: q.Granularity,
		DateValue:   dv,
		Washroom:    q.Washroom.String(),
	}

	switch q.Kind {
	case report.KindUsage:
		series, err := report.BuildUsageChart(q.Granularity, q.Date, res.Usage)
		if err != nil {
			return ReportView{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
		view.Usage = &series

	case report.KindFeedback:
		problems, err := report.MostFrequent(res.Feedback)
		if err != nil {
			return ReportView{}, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
		fv := &FeedbackView{
			Chart:    report.BuildFeedbackChart(res.Feedback),
			Problems: problems,
		}
		if len(problems) > 0 {
			fv.Heading = report.ProblemHeading(len(problems))
		}
		view.Feedback = fv

	case report.KindRating:
		chart := report.BuildRatingChart(res.Ratings)
		view.Rating = &chart

	default:
		return ReportView{}, fmt.Errorf("%w: %q", report.ErrInvalidKind, q.Kind)
	}
	return view, nil
}
