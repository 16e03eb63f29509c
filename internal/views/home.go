package views

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/pkg/poller"
)

const (
	HomeName = "home"

	// maxReadShown caps the dropdown when nothing is unread.
	maxReadShown = 5
)

// HomeSnapshot is the rendered state of the home page.
type HomeSnapshot struct {
	CurrentTime       string                `json:"currentTime"`
	Feedbacks         []models.Feedback     `json:"feedbacks"`
	Usages            []models.Usage        `json:"usages"`
	Notifications     []models.Notification `json:"notifications"`
	HasUnread         bool                  `json:"hasUnread"`
	ShowNotifications bool                  `json:"showNotifications"`
}

// Home polls the latest feedback, top usages and notifications.
type Home struct {
	base
	backend HomeBackend

	feedbacks     []models.Feedback
	usages        []models.Usage
	notifications []models.Notification
	hasUnread     bool
	show          bool
}

func NewHome(backend HomeBackend, clock *Clock, opts ...Option) *Home {
	if backend == nil {
		panic("home backend cannot be nil")
	}
	h := &Home{backend: backend}
	h.init(HomeName, clock, opts)
	h.tasks = []*poller.Task{
		h.clockTask(),
		poller.New(HomeName+"-data", h.opts.pollInterval, h.refresh,
			poller.WithImmediate(true),
			poller.WithLogger(h.logger)),
	}
	return h
}

func (h *Home) Activate(ctx context.Context) { h.start(ctx) }

func (h *Home) Deactivate() { h.stop() }

// refresh fetches the three lists in parallel. Each list is replaced only
// when its own request succeeds.
func (h *Home) refresh(ctx context.Context) {
	h.opts.metrics.PollTick(HomeName)

	var g errgroup.Group
	g.Go(func() error {
		list, err := h.backend.Feedbacks(ctx)
		if err != nil {
			return fmt.Errorf("feedbacks: %w", err)
		}
		h.mu.Lock()
		h.feedbacks = list
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := h.backend.TopUsages(ctx)
		if err != nil {
			return fmt.Errorf("usages: %w", err)
		}
		h.mu.Lock()
		h.usages = list
		h.mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := h.backend.Notifications(ctx)
		if err != nil {
			return fmt.Errorf("notifications: %w", err)
		}
		h.mu.Lock()
		h.notifications = list
		h.hasUnread = slices.ContainsFunc(list, func(n models.Notification) bool { return !n.Read })
		h.mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		h.logger.Warn("home refresh failed", zap.Error(err))
	}
}

// ToggleNotifications opens or closes the dropdown. When anything was
// unread it marks every held notification read locally and posts their ids
// in the background. The POST outcome does not touch local state. An
// inactive view is left unchanged.
func (h *Home) ToggleNotifications() HomeSnapshot {
	h.mu.Lock()
	if !h.isActive() {
		defer h.mu.Unlock()
		return h.snapshotLocked()
	}
	h.show = !h.show

	var ids []string
	if h.hasUnread {
		updated := make([]models.Notification, len(h.notifications))
		ids = make([]string, 0, len(h.notifications))
		for i, n := range h.notifications {
			n.Read = true
			updated[i] = n
			ids = append(ids, n.ID)
		}
		h.notifications = updated
		h.hasUnread = false
	}
	snap := h.snapshotLocked()
	h.mu.Unlock()

	if ids != nil && !h.detach(func(ctx context.Context) { h.markRead(ctx, ids) }) {
		// The next activation refetches, which restores the backend state.
		h.logger.Debug("view deactivated, mark-read skipped", zap.Int("count", len(ids)))
	}
	return snap
}

func (h *Home) markRead(ctx context.Context, ids []string) {
	err := h.backend.MarkNotificationsRead(ctx, ids)
	if err != nil {
		h.logger.Warn("mark notifications read failed", zap.Int("count", len(ids)), zap.Error(err))
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	h.record(ctx, repomodels.Activity{
		Kind:    repomodels.ActivityNotificationsRead,
		Subject: fmt.Sprintf("%d notifications", len(ids)),
		Detail:  detail,
		Success: err == nil,
	})
}

func (h *Home) Snapshot() HomeSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.snapshotLocked()
}

func (h *Home) snapshotLocked() HomeSnapshot {
	return HomeSnapshot{
		CurrentTime:       h.now,
		Feedbacks:         slices.Clone(h.feedbacks),
		Usages:            slices.Clone(h.usages),
		Notifications:     DisplayedNotifications(h.notifications),
		HasUnread:         h.hasUnread,
		ShowNotifications: h.show,
	}
}

// DisplayedNotifications returns the unread notifications, or the first
// five read ones when none are unread.
func DisplayedNotifications(all []models.Notification) []models.Notification {
	var unread, read []models.Notification
	for _, n := range all {
		if n.Read {
			read = append(read, n)
		} else {
			unread = append(unread, n)
		}
	}
	if len(unread) > 0 {
		return unread
	}
	if len(read) > maxReadShown {
		read = read[:maxReadShown]
	}
	return read
}
