package views_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/godilite/washroom-dashboard/internal/views"
)

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(e string) {
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeView struct {
	name string
	log  *eventLog
}

func (v *fakeView) Name() string                 { return v.name }
func (v *fakeView) Activate(ctx context.Context) { v.log.add("activate " + v.name) }
func (v *fakeView) Deactivate()                  { v.log.add("deactivate " + v.name) }

func newTestRouter(t *testing.T) (*views.Router, *eventLog) {
	log := &eventLog{}
	r := views.NewRouter(context.Background(), views.Pages{
		Home:    &fakeView{name: "home", log: log},
		Monitor: &fakeView{name: "monitor", log: log},
		Report:  &fakeView{name: "report", log: log},
	}, zaptest.NewLogger(t))
	return r, log
}

func TestRouter_Navigate(t *testing.T) {
	t.Run("deactivates before activating", func(t *testing.T) {
		r, log := newTestRouter(t)
		assert.Equal(t, views.RouteRoot, r.Current())

		_, err := r.Navigate(views.RouteHome)
		require.NoError(t, err)
		_, err = r.Navigate(views.RouteMonitor)
		require.NoError(t, err)
		_, err = r.Navigate(views.RouteReport)
		require.NoError(t, err)
		_, err = r.Navigate(views.RouteRoot)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"activate home",
			"deactivate home", "activate monitor",
			"deactivate monitor", "activate report",
			"deactivate report",
		}, log.all())
		assert.Equal(t, views.RouteRoot, r.Current())
	})

	t.Run("same route is a no-op", func(t *testing.T) {
		r, log := newTestRouter(t)
		_, err := r.Navigate(views.RouteHome)
		require.NoError(t, err)
		_, err = r.Navigate(views.RouteHome)
		require.NoError(t, err)
		assert.Equal(t, []string{"activate home"}, log.all())
	})

	t.Run("unknown route", func(t *testing.T) {
		r, _ := newTestRouter(t)
		_, err := r.Navigate("/admin")
		assert.ErrorIs(t, err, views.ErrUnknownRoute)
		assert.Equal(t, views.RouteRoot, r.Current())
	})

	t.Run("form routes", func(t *testing.T) {
		r, log := newTestRouter(t)
		for _, p := range []string{views.RouteLogin, views.RouteRegister, views.RouteLogin} {
			got, err := r.Navigate(p)
			require.NoError(t, err)
			assert.Equal(t, p, got)
		}
		assert.Empty(t, log.all())
	})

	t.Run("close deactivates current", func(t *testing.T) {
		r, log := newTestRouter(t)
		_, err := r.Navigate(views.RouteMonitor)
		require.NoError(t, err)
		r.Close()
		assert.Equal(t, []string{"activate monitor", "deactivate monitor"}, log.all())
	})
}

func TestRouter_StopsRealViewTimers(t *testing.T) {
	home := views.NewHome(homeBackend(), fixedClock())
	monitor := views.NewMonitor(monitorBackend(), fixedClock())
	rep := views.NewReport(newGatedBuilder(), lister(), fixedClock())
	r := views.NewRouter(context.Background(), views.Pages{Home: home, Monitor: monitor, Report: rep}, nil)

	_, err := r.Navigate(views.RouteHome)
	require.NoError(t, err)
	assert.True(t, home.Running())

	_, err = r.Navigate(views.RouteReport)
	require.NoError(t, err)
	assert.False(t, home.Running(), "both home timers stopped")
	assert.True(t, rep.Running())

	r.Close()
	assert.False(t, rep.Running())
}
