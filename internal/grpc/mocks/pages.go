package mocks

import (
	"context"
	"errors"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/report"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/views"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

type MockNavigator struct {
	NavigateFunc func(path string) (string, error)
	Path         string
}

func (m *MockNavigator) Navigate(path string) (string, error) {
	if m.NavigateFunc != nil {
		return m.NavigateFunc(path)
	}
	m.Path = path
	return path, nil
}

func (m *MockNavigator) Current() string { return m.Path }

type MockSession struct {
	LoginFunc    func(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error)
	RegisterFunc func(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error)
	LoggedOut    bool
}

func (m *MockSession) Login(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return views.AuthOutcome{}, errors.New("LoginFunc not implemented")
}

func (m *MockSession) Register(ctx context.Context, creds models.Credentials) (views.AuthOutcome, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, creds)
	}
	return views.AuthOutcome{}, errors.New("RegisterFunc not implemented")
}

func (m *MockSession) Logout() { m.LoggedOut = true }

type MockHome struct {
	SnapshotFunc            func() views.HomeSnapshot
	ToggleNotificationsFunc func() views.HomeSnapshot
}

func (m *MockHome) Snapshot() views.HomeSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return views.HomeSnapshot{}
}

func (m *MockHome) ToggleNotifications() views.HomeSnapshot {
	if m.ToggleNotificationsFunc != nil {
		return m.ToggleNotificationsFunc()
	}
	return views.HomeSnapshot{}
}

type MockMonitor struct {
	SnapshotFunc          func() views.MonitorSnapshot
	SelectToiletTypeFunc  func(t washroom.ToiletType) (views.MonitorSnapshot, error)
	SendActionMessageFunc func(ctx context.Context, message string) (views.SendOutcome, error)
}

func (m *MockMonitor) Snapshot() views.MonitorSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return views.MonitorSnapshot{}
}

func (m *MockMonitor) SelectToiletType(t washroom.ToiletType) (views.MonitorSnapshot, error) {
	if m.SelectToiletTypeFunc != nil {
		return m.SelectToiletTypeFunc(t)
	}
	return views.MonitorSnapshot{SelectedType: t}, nil
}

func (m *MockMonitor) SendActionMessage(ctx context.Context, message string) (views.SendOutcome, error) {
	if m.SendActionMessageFunc != nil {
		return m.SendActionMessageFunc(ctx, message)
	}
	return views.SendOutcome{}, errors.New("SendActionMessageFunc not implemented")
}

type MockReportPage struct {
	SnapshotFunc func() views.ReportSnapshot
	UpdateFunc   func(ch views.ReportChange) (views.ReportSnapshot, error)
}

func (m *MockReportPage) Snapshot() views.ReportSnapshot {
	if m.SnapshotFunc != nil {
		return m.SnapshotFunc()
	}
	return views.ReportSnapshot{}
}

func (m *MockReportPage) Update(ch views.ReportChange) (views.ReportSnapshot, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ch)
	}
	return views.ReportSnapshot{}, errors.New("UpdateFunc not implemented")
}

type MockReportBuilder struct {
	BuildFunc func(ctx context.Context, q report.Query) (service.ReportView, error)
}

func (m *MockReportBuilder) Build(ctx context.Context, q report.Query) (service.ReportView, error) {
	if m.BuildFunc != nil {
		return m.BuildFunc(ctx, q)
	}
	return service.ReportView{}, errors.New("BuildFunc not implemented")
}

type MockActivityLister struct {
	RecentFunc func(ctx context.Context, limit int) ([]repomodels.Activity, error)
}

func (m *MockActivityLister) Recent(ctx context.Context, limit int) ([]repomodels.Activity, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx, limit)
	}
	return nil, errors.New("RecentFunc not implemented")
}
