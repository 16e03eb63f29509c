package mocks

import (
	"context"
	"errors"

	"github.com/godilite/washroom-dashboard/internal/report"
)

// MockReportFetcher is a mock implementation of the ReportFetcher interface
// for testing the service layer.
type MockReportFetcher struct {
	ReportFunc func(ctx context.Context, q report.Query) (report.Result, error)
}

// Report implements the ReportFetcher interface
func (m *MockReportFetcher) Report(ctx context.Context, q report.Query) (report.Result, error) {
	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, q)
	}
	return report.Result{}, errors.New("ReportFunc not implemented")
}
