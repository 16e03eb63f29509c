package views_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
	"github.com/godilite/washroom-dashboard/internal/views"
	"github.com/godilite/washroom-dashboard/internal/views/mocks"
)

var myt = time.FixedZone("MYT", 8*3600)

func fixedClock() *views.Clock {
	return views.NewClockAt(myt, func() time.Time {
		return time.Date(2024, 2, 29, 23, 30, 5, 0, time.UTC)
	})
}

type countingMetrics struct {
	ticks atomic.Int64
	stale atomic.Int64
}

func (m *countingMetrics) PollTick(string)       { m.ticks.Add(1) }
func (m *countingMetrics) StaleReportDiscarded() { m.stale.Add(1) }

func homeBackend() *mocks.MockBackend {
	return &mocks.MockBackend{
		FeedbacksFunc: func(context.Context) ([]models.Feedback, error) {
			return []models.Feedback{{Time: "10:00", Washroom: "L1 male", Rating: 4}}, nil
		},
		TopUsagesFunc: func(context.Context) ([]models.Usage, error) {
			return []models.Usage{{Washroom: "G oku", TotalUsage: 12}}, nil
		},
		NotificationsFunc: func(context.Context) ([]models.Notification, error) {
			return []models.Notification{
				{ID: "n1", Description: "Wet floor", Read: false},
				{ID: "n2", Description: "No soap", Read: true},
			}, nil
		},
	}
}

func TestHome_Refresh(t *testing.T) {
	t.Run("immediate fetch fills every list", func(t *testing.T) {
		metrics := &countingMetrics{}
		h := views.NewHome(homeBackend(), fixedClock(),
			views.WithLogger(zaptest.NewLogger(t)),
			views.WithMetrics(metrics),
			views.WithPollInterval(time.Hour),
			views.WithClockInterval(time.Hour))

		h.Activate(context.Background())
		defer h.Deactivate()

		require.Eventually(t, func() bool {
			s := h.Snapshot()
			return len(s.Feedbacks) == 1 && len(s.Usages) == 1 && s.CurrentTime != ""
		}, time.Second, 5*time.Millisecond)

		s := h.Snapshot()
		assert.True(t, s.HasUnread)
		assert.False(t, s.ShowNotifications)
		assert.Equal(t, "3/1/2024, 7:30:05 AM", s.CurrentTime)
		require.Len(t, s.Notifications, 1)
		assert.Equal(t, "n1", s.Notifications[0].ID)
		assert.Equal(t, int64(1), metrics.ticks.Load())
	})

	t.Run("each list is replaced independently", func(t *testing.T) {
		backend := homeBackend()
		backend.TopUsagesFunc = func(context.Context) ([]models.Usage, error) {
			return nil, errors.New("backend unavailable")
		}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour))

		h.Activate(context.Background())
		defer h.Deactivate()

		require.Eventually(t, func() bool {
			return len(h.Snapshot().Feedbacks) == 1
		}, time.Second, 5*time.Millisecond)
		assert.Empty(t, h.Snapshot().Usages)
	})

	t.Run("polls repeatedly", func(t *testing.T) {
		var calls atomic.Int64
		backend := homeBackend()
		backend.FeedbacksFunc = func(context.Context) ([]models.Feedback, error) {
			calls.Add(1)
			return nil, nil
		}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(10*time.Millisecond))

		h.Activate(context.Background())
		require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
		h.Deactivate()

		assert.False(t, h.Running())
		stopped := calls.Load()
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, stopped, calls.Load(), "no ticks after deactivation")
	})
}

func TestHome_ToggleNotifications(t *testing.T) {
	t.Run("marks everything read when unread existed", func(t *testing.T) {
		var (
			mu     sync.Mutex
			posted [][]string
		)
		backend := homeBackend()
		backend.NotificationsFunc = func(context.Context) ([]models.Notification, error) {
			return []models.Notification{{ID: "n1"}, {ID: "n2", Read: true}, {ID: "n3"}}, nil
		}
		backend.MarkNotificationsReadFunc = func(_ context.Context, ids []string) error {
			mu.Lock()
			posted = append(posted, ids)
			mu.Unlock()
			return nil
		}
		journal := &mocks.MockJournal{}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour), views.WithJournal(journal))

		h.Activate(context.Background())
		require.Eventually(t, func() bool { return h.Snapshot().HasUnread }, time.Second, 5*time.Millisecond)

		s := h.ToggleNotifications()
		assert.True(t, s.ShowNotifications)
		assert.False(t, s.HasUnread)
		require.Len(t, s.Notifications, 3)
		for _, n := range s.Notifications {
			assert.True(t, n.Read)
		}

		s = h.ToggleNotifications()
		assert.False(t, s.ShowNotifications)

		h.Deactivate()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, posted, 1, "second toggle had nothing unread")
		assert.Equal(t, []string{"n1", "n2", "n3"}, posted[0])

		entries := journal.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, repomodels.ActivityNotificationsRead, entries[0].Kind)
		assert.True(t, entries[0].Success)
	})

	t.Run("post failure does not restore unread", func(t *testing.T) {
		backend := homeBackend()
		backend.MarkNotificationsReadFunc = func(context.Context, []string) error {
			return errors.New("backend unavailable")
		}
		journal := &mocks.MockJournal{}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour), views.WithJournal(journal))

		h.Activate(context.Background())
		require.Eventually(t, func() bool { return h.Snapshot().HasUnread }, time.Second, 5*time.Millisecond)

		h.ToggleNotifications()
		h.Deactivate()

		assert.False(t, h.Snapshot().HasUnread)
		entries := journal.Entries()
		require.Len(t, entries, 1)
		assert.False(t, entries[0].Success)
	})

	t.Run("no post without unread", func(t *testing.T) {
		var posts atomic.Int64
		backend := homeBackend()
		backend.NotificationsFunc = func(context.Context) ([]models.Notification, error) {
			return []models.Notification{{ID: "n1", Read: true}}, nil
		}
		backend.MarkNotificationsReadFunc = func(context.Context, []string) error {
			posts.Add(1)
			return nil
		}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour))

		h.Activate(context.Background())
		require.Eventually(t, func() bool { return len(h.Snapshot().Notifications) == 1 }, time.Second, 5*time.Millisecond)

		assert.True(t, h.ToggleNotifications().ShowNotifications)
		h.Deactivate()
		assert.Zero(t, posts.Load())
	})
}

func TestDisplayedNotifications(t *testing.T) {
	read := func(id string) models.Notification { return models.Notification{ID: id, Read: true} }

	t.Run("unread win", func(t *testing.T) {
		got := views.DisplayedNotifications([]models.Notification{read("a"), {ID: "b"}, read("c"), {ID: "d"}})
		require.Len(t, got, 2)
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "d", got[1].ID)
	})

	t.Run("first five read", func(t *testing.T) {
		all := []models.Notification{read("1"), read("2"), read("3"), read("4"), read("5"), read("6"), read("7")}
		got := views.DisplayedNotifications(all)
		require.Len(t, got, 5)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "5", got[4].ID)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, views.DisplayedNotifications(nil))
	})
}

func TestClock(t *testing.T) {
	c := fixedClock()

	assert.Equal(t, "3/1/2024, 7:30:05 AM", c.String())
	assert.Equal(t, 2024, c.Today().Year)
	assert.Equal(t, time.March, c.Today().Month)
	assert.Equal(t, 1, c.Today().Day)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.StartOfToday())
}

func TestHome_ToggleWhileInactive(t *testing.T) {
	backend := homeBackend()
	backend.MarkNotificationsReadFunc = func(context.Context, []string) error {
		t.Error("no post expected from an inactive view")
		return nil
	}
	h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour))

	h.Activate(context.Background())
	require.Eventually(t, func() bool { return h.Snapshot().HasUnread }, time.Second, 5*time.Millisecond)
	h.Deactivate()

	s := h.ToggleNotifications()
	assert.False(t, s.ShowNotifications)
	assert.True(t, s.HasUnread)
}

// Run with -race: a toggle racing Deactivate either posts before Deactivate
// returns or not at all.
func TestHome_DeactivateDuringToggle(t *testing.T) {
	for i := 0; i < 50; i++ {
		var deactivated atomic.Bool
		backend := homeBackend()
		backend.MarkNotificationsReadFunc = func(context.Context, []string) error {
			if deactivated.Load() {
				t.Error("mark-read ran after Deactivate returned")
			}
			return nil
		}
		h := views.NewHome(backend, fixedClock(), views.WithPollInterval(time.Hour))

		h.Activate(context.Background())
		require.Eventually(t, func() bool { return h.Snapshot().HasUnread }, time.Second, time.Millisecond)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			h.ToggleNotifications()
		}()
		go func() {
			defer wg.Done()
			h.Deactivate()
			deactivated.Store(true)
		}()
		wg.Wait()
	}
}
