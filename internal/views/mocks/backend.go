package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/service"
)

// MockBackend implements every view backend interface with function fields.
// Unset functions fail with a "not implemented" error.
type MockBackend struct {
	FeedbacksFunc             func(ctx context.Context) ([]models.Feedback, error)
	TopUsagesFunc             func(ctx context.Context) ([]models.Usage, error)
	AllUsagesFunc             func(ctx context.Context) ([]models.Usage, error)
	NotificationsFunc         func(ctx context.Context) ([]models.Notification, error)
	ConfigurationsFunc        func(ctx context.Context) ([]models.Configuration, error)
	ProblemsFunc              func(ctx context.Context) ([]models.Problem, error)
	WashroomStatsFunc         func(ctx context.Context) ([]models.WashroomStat, error)
	MarkNotificationsReadFunc func(ctx context.Context, ids []string) error
	SendActionMessageFunc     func(ctx context.Context, message string) (models.ActionResult, error)
	LoginFunc                 func(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
	RegisterFunc              func(ctx context.Context, creds models.Credentials) (models.AuthResult, error)
}

func (m *MockBackend) Feedbacks(ctx context.Context) ([]models.Feedback, error) {
	if m.FeedbacksFunc != nil {
		return m.FeedbacksFunc(ctx)
	}
	return nil, errors.New("FeedbacksFunc not implemented")
}

func (m *MockBackend) TopUsages(ctx context.Context) ([]models.Usage, error) {
	if m.TopUsagesFunc != nil {
		return m.TopUsagesFunc(ctx)
	}
	return nil, errors.New("TopUsagesFunc not implemented")
}

func (m *MockBackend) AllUsages(ctx context.Context) ([]models.Usage, error) {
	if m.AllUsagesFunc != nil {
		return m.AllUsagesFunc(ctx)
	}
	return nil, errors.New("AllUsagesFunc not implemented")
}

func (m *MockBackend) Notifications(ctx context.Context) ([]models.Notification, error) {
	if m.NotificationsFunc != nil {
		return m.NotificationsFunc(ctx)
	}
	return nil, errors.New("NotificationsFunc not implemented")
}

func (m *MockBackend) Configurations(ctx context.Context) ([]models.Configuration, error) {
	if m.ConfigurationsFunc != nil {
		return m.ConfigurationsFunc(ctx)
	}
	return nil, errors.New("ConfigurationsFunc not implemented")
}

func (m *MockBackend) Problems(ctx context.Context) ([]models.Problem, error) {
	if m.ProblemsFunc != nil {
		return m.ProblemsFunc(ctx)
	}
	return nil, errors.New("ProblemsFunc not implemented")
}

func (m *MockBackend) WashroomStats(ctx context.Context) ([]models.WashroomStat, error) {
	if m.WashroomStatsFunc != nil {
		return m.WashroomStatsFunc(ctx)
	}
	return nil, errors.New("WashroomStatsFunc not implemented")
}

func (m *MockBackend) MarkNotificationsRead(ctx context.Context, ids []string) error {
	if m.MarkNotificationsReadFunc != nil {
		return m.MarkNotificationsReadFunc(ctx, ids)
	}
	return errors.New("MarkNotificationsReadFunc not implemented")
}

func (m *MockBackend) SendActionMessage(ctx context.Context, message string) (models.ActionResult, error) {
	if m.SendActionMessageFunc != nil {
		return m.SendActionMessageFunc(ctx, message)
	}
	return models.ActionResult{}, errors.New("SendActionMessageFunc not implemented")
}

func (m *MockBackend) Login(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return models.AuthResult{}, errors.New("LoginFunc not implemented")
}

func (m *MockBackend) Register(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, creds)
	}
	return models.AuthResult{}, errors.New("RegisterFunc not implemented")
}

// MockReportBuilder is a function-field ReportBuilder.
type MockReportBuilder struct {
	BuildFunc func(ctx context.Context, q report.Query) (service.ReportView, error)
}

func (m *MockReportBuilder) Build(ctx context.Context, q report.Query) (service.ReportView, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, q)
	}
	return service.ReportView{}, errors.New("BuildFunc not implemented")
}

// MockJournal keeps recorded activities in memory.
type MockJournal struct {
	Err error

	mu      sync.Mutex
	entries []repomodels.Activity
}

func (m *MockJournal) Record(_ context.Context, a repomodels.Activity) (repomodels.Activity, error) {
	if m.Err != nil {
		return repomodels.Activity{}, m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, a)
	return a, nil
}

func (m *MockJournal) Entries() []repomodels.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]repomodels.Activity(nil), m.entries...)
}
