package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	repomodels "github.com/godilite/washroom-dashboard/internal/repository/models"
)

const (
	AlertInvalidLogin  = "Invalid username or password"
	AlertLoginError    = "An error occurred while trying to login."
	AlertRegisterError = "An error occurred while trying to register."
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrRegisterRejected   = errors.New("registration rejected")
	ErrSessionUnavailable = errors.New("session backend unavailable")
)

// AuthOutcome is the alert and follow-up route of a login or register form.
type AuthOutcome struct {
	Success  bool   `json:"success"`
	Alert    string `json:"alert,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// Session backs the login and register forms.
type Session struct {
	backend SessionBackend
	opts    Options
	logger  *zap.Logger

	mu   sync.Mutex
	user string
}

func NewSession(backend SessionBackend, opts ...Option) *Session {
	if backend == nil {
		panic("session backend cannot be nil")
	}
	options := buildOptions(opts)
	return &Session{
		backend: backend,
		opts:    options,
		logger:  options.logger.Named("session"),
	}
}

// Login posts creds. A rejected login returns ErrInvalidCredentials and a
// transport failure ErrSessionUnavailable; both carry the alert to show.
func (s *Session) Login(ctx context.Context, creds models.Credentials) (AuthOutcome, error) {
	res, err := s.backend.Login(ctx, creds)

	var (
		out    AuthOutcome
		outErr error
	)
	switch {
	case err != nil:
		s.logger.Error("login request failed", zap.String("username", creds.Username), zap.Error(err))
		out = AuthOutcome{Alert: AlertLoginError}
		outErr = fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	case !res.Success:
		out = AuthOutcome{Alert: AlertInvalidLogin}
		outErr = ErrInvalidCredentials
	default:
		out = AuthOutcome{Success: true, Redirect: RouteHome}
		s.mu.Lock()
		s.user = creds.Username
		s.mu.Unlock()
	}

	s.record(ctx, repomodels.ActivityLogin, creds.Username, out, err)
	return out, outErr
}

// Register posts creds. The backend's message is shown on success and on
// rejection.
func (s *Session) Register(ctx context.Context, creds models.Credentials) (AuthOutcome, error) {
	res, err := s.backend.Register(ctx, creds)

	var (
		out    AuthOutcome
		outErr error
	)
	switch {
	case err != nil:
		s.logger.Error("register request failed", zap.String("username", creds.Username), zap.Error(err))
		out = AuthOutcome{Alert: AlertRegisterError}
		outErr = fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	case !res.Success:
		out = AuthOutcome{Alert: res.Message}
		outErr = fmt.Errorf("%w: %s", ErrRegisterRejected, res.Message)
	default:
		out = AuthOutcome{Success: true, Alert: res.Message, Redirect: RouteLogin}
	}

	s.record(ctx, repomodels.ActivityRegister, creds.Username, out, err)
	return out, outErr
}

// Logout forgets the signed-in user.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = ""
	s.mu.Unlock()
}

// User is the last successfully logged in username, or "".
func (s *Session) User() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) record(ctx context.Context, kind repomodels.ActivityKind, username string, out AuthOutcome, err error) {
	detail := out.Alert
	if err != nil {
		detail = err.Error()
	}
	a := repomodels.Activity{Kind: kind, Subject: username, Detail: detail, Success: out.Success}
	if _, jerr := s.opts.journal.Record(ctx, a); jerr != nil {
		s.logger.Warn("failed to record activity", zap.String("kind", string(kind)), zap.Error(jerr))
	}
}

// form is a page without timers.
type form struct{ name string }

func (f form) Name() string           { return f.name }
func (form) Activate(context.Context) {}
func (form) Deactivate()              {}
