package grpc

import (
	"context"
	"time"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/views"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

type Navigator interface {
	Navigate(path string) (string, error)
	Current() string
}

type SessionManager interface {
	Login(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error)
	Register(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error)
	Logout()
}

type HomePage interface {
	Snapshot() views.HomeSnapshot
	ToggleNotifications() views.HomeSnapshot
}

type MonitorPage interface {
	Snapshot() views.MonitorSnapshot
	SelectToiletType(t washroom.ToiletType) (views.MonitorSnapshot, error)
	SendActionMessage(ctx context.Context, message string) (views.SendOutcome, error)
}

type ReportPage interface {
	Snapshot() views.ReportSnapshot
	Update(ch views.ReportChange) (views.ReportSnapshot, error)
}

// ReportBuilder builds a report view-model for an explicit query.
type ReportBuilder interface {
	Build(ctx context.Context, q report.Query) (service.ReportView, error)
}

type ActivityLister interface {
	Recent(ctx context.Context, limit int) ([]repomodels.Activity, error)
}
