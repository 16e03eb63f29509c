package service

import (
	"context"

	"github.com/godilite/washroom-dashboard/internal/report"
)

// ReportFetcher defines the backend call the report service depends on.
type ReportFetcher interface {
	Report(ctx context.Context, q report.Query) (report.Result, error)
}
