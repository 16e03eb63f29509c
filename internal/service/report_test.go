package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/godilite/washroom-dashboard/internal/backend"
	"github.com/godilite/washroom-dashboard/internal/report"
	"github.com/godilite/washroom-dashboard/internal/service/mocks"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

func testQuery(kind report.Kind) report.Query {
	return report.Query{
		Granularity: report.Day,
		Date:        report.Date{Year: 2024, Month: 3, Day: 5},
		Washroom:    washroom.Identifier{Floor: washroom.FloorG, Type: washroom.Female},
		Kind:        kind,
	}
}

// TestNewReportService tests the constructor
func TestNewReportService(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{}
		logger := zap.NewNop()
		svc := NewReportService(fetcher, logger)
		assert.NotNil(t, svc)
		assert.Equal(t, fetcher, svc.backend)
		assert.Equal(t, logger, svc.logger)
	})

	t.Run("nil fetcher panics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewReportService(nil, zap.NewNop())
		})
	})

	t.Run("nil logger gets default", func(t *testing.T) {
		svc := NewReportService(&mocks.MockReportFetcher{}, nil)
		assert.NotNil(t, svc.logger)
	})
}

// TestBuild tests report view assembly per kind
func TestBuild(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("usage", func(t *testing.T) {
		counts := make([]int, 24)
		counts[8] = 4
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				assert.Equal(t, testQuery(report.KindUsage), q)
				return report.Result{Kind: report.KindUsage, Usage: counts}, nil
			},
		}
		view, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindUsage))
		require.NoError(t, err)
		require.NotNil(t, view.Usage)
		assert.Nil(t, view.Feedback)
		assert.Nil(t, view.Rating)
		assert.Equal(t, "2024-03-05", view.DateValue)
		assert.Equal(t, "G female", view.Washroom)
		assert.Equal(t, 4, view.Usage.Values[8])
		assert.Equal(t, 24, view.Chart().Len())
	})

	t.Run("feedback with tie", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{Kind: report.KindFeedback, Feedback: report.FeedbackSeries{
					Labels: []string{"NO SOAP", "WET FLOOR", "SMELLY"},
					Counts: []int{3, 3, 1},
				}}, nil
			},
		}
		view, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindFeedback))
		require.NoError(t, err)
		require.NotNil(t, view.Feedback)
		assert.Equal(t, "Most Frequent Problems", view.Feedback.Heading)
		require.Len(t, view.Feedback.Problems, 2)
		assert.Equal(t, "NO SOAP", view.Feedback.Problems[0].Category)
		assert.Equal(t, "WET FLOOR", view.Feedback.Problems[1].Category)
	})

	t.Run("empty feedback has no heading", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{Kind: report.KindFeedback}, nil
			},
		}
		view, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindFeedback))
		require.NoError(t, err)
		assert.Empty(t, view.Feedback.Heading)
		assert.Empty(t, view.Feedback.Chart.Labels)
	})

	t.Run("rating", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{Kind: report.KindRating, Ratings: report.Histogram{0, 0, 0, 0, 0, 10}}, nil
			},
		}
		view, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindRating))
		require.NoError(t, err)
		require.NotNil(t, view.Rating)
		assert.Equal(t, "5.00", view.Rating.Display)
		assert.Equal(t, report.TierExcellent, view.Rating.Tier)
	})

	t.Run("no data sentinel", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{}, backend.ErrNoData
			},
		}
		_, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindRating))
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("backend failure", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{}, errors.New("connection refused")
			},
		}
		_, err := NewReportService(fetcher, logger).Build(ctx, testQuery(report.KindUsage))
		assert.ErrorIs(t, err, ErrBackendFailure)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("usage length mismatch", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{Kind: report.KindUsage, Usage: []int{1, 2}}, nil
			},
		}
		core, logs := observer.New(zap.WarnLevel)
		view, err := NewReportService(fetcher, zap.New(core)).Build(ctx, testQuery(report.KindUsage))
		require.NoError(t, err)
		require.NotNil(t, view.Usage)
		assert.Equal(t, 24, view.Usage.Len())
		assert.Equal(t, []int{1, 2}, view.Usage.Values[:2])
		assert.Equal(t, 0, view.Usage.Values[23])
		assert.Equal(t, 1, logs.FilterMessage("usage series length differs from labels").Len())
	})

	t.Run("month usage one day short", func(t *testing.T) {
		q := testQuery(report.KindUsage)
		q.Granularity = report.Month
		q.Date = report.Date{Year: 2024, Month: 3, Day: 1}
		counts := make([]int, 30)
		counts[29] = 6
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				return report.Result{Kind: report.KindUsage, Usage: counts}, nil
			},
		}
		core, logs := observer.New(zap.WarnLevel)
		view, err := NewReportService(fetcher, zap.New(core)).Build(ctx, q)
		require.NoError(t, err)
		require.NotNil(t, view.Usage)
		assert.Equal(t, 31, view.Usage.Len())
		assert.Equal(t, 6, view.Usage.Values[29])
		assert.Equal(t, 0, view.Usage.Values[30])
		assert.Equal(t, 1, logs.Len())
	})

	t.Run("invalid query never reaches backend", func(t *testing.T) {
		fetcher := &mocks.MockReportFetcher{
			ReportFunc: func(ctx context.Context, q report.Query) (report.Result, error) {
				t.Fatal("backend must not be called")
				return report.Result{}, nil
			},
		}
		q := testQuery(report.KindUsage)
		q.Kind = "cost"
		_, err := NewReportService(fetcher, logger).Build(ctx, q)
		assert.ErrorIs(t, err, report.ErrInvalidQuery)
	})
}
