package views

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/washroom"
	"github.com/godilite/washroom-dashboard/pkg/poller"
)

const (
	MonitorName = "monitor"

	AlertMessageSent    = "Message sent successfully"
	AlertMessageFailed  = "Failed to send message"
	AlertMessageErrored = "Error sending message"
)

var (
	// ErrBusy rejects a send while another one is in flight.
	ErrBusy = errors.New("an action message is already being sent")
	// ErrEmptyMessage rejects a blank action message.
	ErrEmptyMessage = errors.New("action message cannot be empty")
)

// MonitorSnapshot is the rendered monitoring table.
type MonitorSnapshot struct {
	CurrentTime  string               `json:"currentTime"`
	SelectedType washroom.ToiletType  `json:"selectedType"`
	Rows         []service.MonitorRow `json:"rows"`
	Sending      bool                 `json:"sending"`
}

// SendOutcome is the blocking alert shown after a send.
type SendOutcome struct {
	Success    bool   `json:"success"`
	Alert      string `json:"alert"`
	MessageSID string `json:"messageSid,omitempty"`
}

// Monitor loads washroom conditions once per activation and lets the
// operator message cleaning staff.
type Monitor struct {
	base
	backend MonitorBackend

	data     service.MonitorData
	selected washroom.ToiletType
	sending  bool
}

func NewMonitor(backend MonitorBackend, clock *Clock, opts ...Option) *Monitor {
	if backend == nil {
		panic("monitor backend cannot be nil")
	}
	m := &Monitor{backend: backend, selected: washroom.Male}
	m.init(MonitorName, clock, opts)
	m.tasks = []*poller.Task{
		m.clockTask(),
		poller.New(MonitorName+"-data", 0, m.load,
			poller.WithOnce(),
			poller.WithLogger(m.logger)),
	}
	return m
}

func (m *Monitor) Activate(ctx context.Context) { m.start(ctx) }

func (m *Monitor) Deactivate() { m.stop() }

func (m *Monitor) load(ctx context.Context) {
	m.opts.metrics.PollTick(MonitorName)

	var g errgroup.Group
	g.Go(func() error {
		list, err := m.backend.Configurations(ctx)
		if err != nil {
			return fmt.Errorf("configurations: %w", err)
		}
		m.mu.Lock()
		m.data.Configurations = list
		m.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := m.backend.Problems(ctx)
		if err != nil {
			return fmt.Errorf("problems: %w", err)
		}
		m.mu.Lock()
		m.data.Problems = list
		m.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := m.backend.AllUsages(ctx)
		if err != nil {
			return fmt.Errorf("all usages: %w", err)
		}
		m.mu.Lock()
		m.data.Usages = list
		m.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := m.backend.WashroomStats(ctx)
		if err != nil {
			return fmt.Errorf("washroom stats: %w", err)
		}
		m.mu.Lock()
		m.data.Stats = list
		m.mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		m.logger.Warn("monitor load failed", zap.Error(err))
	}
}

// SelectToiletType changes the table filter.
func (m *Monitor) SelectToiletType(t washroom.ToiletType) (MonitorSnapshot, error) {
	if !t.Known() {
		return MonitorSnapshot{}, fmt.Errorf("%w: toilet type %q", washroom.ErrInvalidIdentifier, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = t
	return m.snapshotLocked(), nil
}

// SendActionMessage posts message to cleaning staff. Only one send may be
// in flight; the result is always an alert, never a transport error.
func (m *Monitor) SendActionMessage(ctx context.Context, message string) (SendOutcome, error) {
	if message == "" {
		return SendOutcome{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if m.sending {
		m.mu.Unlock()
		return SendOutcome{}, ErrBusy
	}
	m.sending = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.sending = false
		m.mu.Unlock()
	}()

	res, err := m.backend.SendActionMessage(ctx, message)
	var out SendOutcome
	switch {
	case err != nil:
		m.logger.Error("error sending message", zap.Error(err))
		out = SendOutcome{Alert: AlertMessageErrored}
	case !res.Success:
		out = SendOutcome{Alert: AlertMessageFailed}
	default:
		out = SendOutcome{Success: true, Alert: AlertMessageSent, MessageSID: res.MessageSID}
	}

	detail := out.MessageSID
	if err != nil {
		detail = err.Error()
	}
	m.record(ctx, repomodels.Activity{
		Kind:    repomodels.ActivityActionMessage,
		Subject: message,
		Detail:  detail,
		Success: out.Success,
	})
	return out, nil
}

func (m *Monitor) Snapshot() MonitorSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Monitor) snapshotLocked() MonitorSnapshot {
	return MonitorSnapshot{
		CurrentTime:  m.now,
		SelectedType: m.selected,
		Rows:         service.BuildMonitorRows(m.data, m.selected),
		Sending:      m.sending,
	}
}

// Data returns a copy of the loaded lists.
func (m *Monitor) Data() service.MonitorData {
	m.mu.Lock()
	defer m.mu.Unlock()
	return service.MonitorData{
		Configurations: append([]models.Configuration(nil), m.data.Configurations...),
		Problems:       append([]models.Problem(nil), m.data.Problems...),
		Usages:         append([]models.Usage(nil), m.data.Usages...),
		Stats:          append([]models.WashroomStat(nil), m.data.Stats...),
	}
}
