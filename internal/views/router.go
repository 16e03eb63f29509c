package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	RouteRoot     = "/"
	RouteLogin    = "/login"
	RouteRegister = "/register"
	RouteHome     = "/home"
	RouteMonitor  = "/monitor"
	RouteReport   = "/report"
)

var ErrUnknownRoute = errors.New("unknown route")

// Pages are the timed views behind the authenticated routes.
type Pages struct {
	Home    View
	Monitor View
	Report  View
}

// Router keeps exactly one view active. Navigating deactivates the current
// view, which stops both of its timers, before the next one starts.
type Router struct {
	ctx    context.Context
	routes map[string]View
	logger *zap.Logger

	mu      sync.Mutex
	current string
}

// NewRouter starts on the login page. Views run under ctx; cancelling it
// stops whatever view is active.
func NewRouter(ctx context.Context, pages Pages, logger *zap.Logger) *Router {
	if pages.Home == nil || pages.Monitor == nil || pages.Report == nil {
		panic("router pages cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	login := form{name: "login"}
	return &Router{
		ctx: ctx,
		routes: map[string]View{
			RouteRoot:     login,
			RouteLogin:    login,
			RouteRegister: form{name: "register"},
			RouteHome:     pages.Home,
			RouteMonitor:  pages.Monitor,
			RouteReport:   pages.Report,
		},
		logger:  logger.Named("router"),
		current: RouteRoot,
	}
}

// Navigate switches to path. Navigating to the current path is a no-op.
func (r *Router) Navigate(path string) (string, error) {
	next, ok := r.routes[path]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if path == r.current {
		return path, nil
	}
	prev := r.routes[r.current]
	prev.Deactivate()
	next.Activate(r.ctx)

	r.logger.Info("navigated",
		zap.String("from", r.current),
		zap.String("to", path))
	r.current = path
	return path, nil
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Close deactivates the current view.
func (r *Router) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[r.current].Deactivate()
}
