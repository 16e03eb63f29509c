package views

import (
	"context"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/service"
)

// View is one routable page. Activate starts its timers and Deactivate
// stops them and waits for them to exit.
type View interface {
	Name() string
	Activate(ctx context.Context)
	Deactivate()
}

type HomeBackend interface {
	Feedbacks(ctx context.Context) ([]models.Feedback, error)
	TopUsages(ctx context.Context) ([]models.Usage, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationsRead(ctx context.Context, ids []string) error
}

type MonitorBackend interface {
	Configurations(ctx context.Context) ([]models.Configuration, error)
	Problems(ctx context.Context) ([]models.Problem, error)
	AllUsages(ctx context.Context) ([]models.Usage, error)
	WashroomStats(ctx context.Context) ([]models.WashroomStat, error)
	SendActionMessage(ctx context.Context, message string) (models.ActionResult, error)
}

type SessionBackend interface {
	Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
	Register(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
}

// WashroomLister supplies the configured washrooms for the report selector.
type WashroomLister interface {
	Configurations(ctx context.Context) ([]models.Configuration, error)
}

// ReportBuilder fetches and builds one chart view-model.
type ReportBuilder interface {
	Build(ctx context.Context, q report.Query) (service.ReportView, error)
}

// Journal records operator actions. Failures are logged by the caller.
type Journal interface {
	Record(ctx context.Context, a repomodels.Activity) (repomodels.Activity, error)
}

type Metrics interface {
	PollTick(view string)
	StaleReportDiscarded()
}

type nopJournal struct{}

func (nopJournal) Record(_ context.Context, a repomodels.Activity) (repomodels.Activity, error) {
	return a, nil
}

type nopMetrics struct{}

func (nopMetrics) PollTick(string)       {}
func (nopMetrics) StaleReportDiscarded() {}
