package grpc

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/godilite/washroom-dashboard/internal/backend/models"
	"github.com/godilite/washroom-dashboard/internal/export"
	"github.com/godilite/washroom-dashboard/internal/report"
	"github.com/godilite/washroom-dashboard/internal/service"
	"github.com/godilite/washroom-dashboard/internal/views"
	"github.com/godilite/washroom-dashboard/internal/washroom"
)

const (
	defaultCacheDuration = 10 * time.Minute
	defaultGRPCTimeout   = 10 * time.Second

	cacheKeyReport = "grpc:report:"
)

// Deps are the views and stores the gateway serves.
type Deps struct {
	Router   Navigator
	Session  SessionManager
	Home     HomePage
	Monitor  MonitorPage
	Report   ReportPage
	Reports  ReportBuilder
	Activity ActivityLister
	Clock    *views.Clock
}

type GRPCHandlers struct {
	deps     Deps
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

var _ DashboardServer = (*GRPCHandlers)(nil)

// NewGRPCHandlers initializes the gRPC handlers.
func NewGRPCHandlers(deps Deps, cache Cacher, logger *zap.Logger, ttl time.Duration) *GRPCHandlers {
	if deps.Router == nil || deps.Session == nil || deps.Home == nil || deps.Monitor == nil ||
		deps.Report == nil || deps.Reports == nil || deps.Activity == nil || deps.Clock == nil {
		panic("incomplete Deps provided to NewGRPCHandlers")
	}
	if cache == nil {
		panic("nil Cacher provided to NewGRPCHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &GRPCHandlers{
		deps:     deps,
		cache:    cache,
		logger:   logger.Named("grpc-handler"),
		cacheTTL: ttl,
	}
}

func (s *GRPCHandlers) handleError(ctx context.Context, op string, err error) error {
	return s.statusError(ctx, op, err, "")
}

// statusError maps err to a status code. A non-empty msg replaces the
// default message, which is how form alerts reach the caller.
func (s *GRPCHandlers) statusError(ctx context.Context, op string, err error, msg string) error {
	switch ctx.Err() {
	case context.Canceled:
		s.logger.Warn("request canceled", zap.String("op", op))
		return status.Error(codes.Canceled, "request canceled")
	case context.DeadlineExceeded:
		s.logger.Warn("request timeout", zap.String("op", op))
		return status.Error(codes.DeadlineExceeded, "request timed out")
	}

	var code codes.Code
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, report.ErrInvalidQuery),
		errors.Is(err, report.ErrInvalidKind),
		errors.Is(err, report.ErrInvalidGranularity),
		errors.Is(err, report.ErrInvalidDate),
		errors.Is(err, washroom.ErrInvalidIdentifier),
		errors.Is(err, views.ErrUnknownRoute),
		errors.Is(err, views.ErrEmptyMessage),
		errors.Is(err, views.ErrRegisterRejected):
		code = codes.InvalidArgument
	case errors.Is(err, service.ErrNoData):
		s.logger.Info("no report data", zap.String("op", op))
		code = codes.NotFound
		if msg == "" {
			msg = "no data available for the given query"
		}
	case errors.Is(err, views.ErrInvalidCredentials):
		code = codes.Unauthenticated
	case errors.Is(err, views.ErrBusy),
		errors.Is(err, views.ErrViewInactive):
		code = codes.FailedPrecondition
	case errors.Is(err, service.ErrBackendFailure),
		errors.Is(err, views.ErrSessionUnavailable):
		s.logger.Error("backend failure", zap.String("op", op), zap.Error(err))
		code = codes.Unavailable
		if msg == "" {
			msg = "backend unavailable"
		}
	default:
		s.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		return status.Errorf(codes.Internal, "%s failed: %v", op, err)
	}

	if msg == "" {
		msg = err.Error()
	}
	return status.Error(code, msg)
}

func (s *GRPCHandlers) respond(op string, v any) (*structpb.Struct, error) {
	out, err := encode(v)
	if err != nil {
		s.logger.Error("failed to encode response", zap.String("op", op), zap.Error(err))
		return nil, status.Errorf(codes.Internal, "%s failed: encode response", op)
	}
	return out, nil
}

func (s *GRPCHandlers) Navigate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in navigateRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, "Navigate", err)
	}

	path, err := s.deps.Router.Navigate(in.Path)
	if err != nil {
		return nil, s.handleError(ctx, "Navigate", err)
	}
	if path == views.RouteRoot {
		s.deps.Session.Logout()
	}
	return s.respond("Navigate", navigateResponse{Path: path})
}

func (s *GRPCHandlers) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.authenticate(ctx, "Login", req, s.deps.Session.Login)
}

func (s *GRPCHandlers) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return s.authenticate(ctx, "Register", req, s.deps.Session.Register)
}

func (s *GRPCHandlers) authenticate(
	ctx context.Context,
	op string,
	req *structpb.Struct,
	submit func(context.Context, models.Credentials) (views.AuthOutcome, error),
) (*structpb.Struct, error) {
	var in credentialsRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	out, err := submit(ctx, models.Credentials{Username: in.Username, Password: in.Password})
	if err != nil {
		return nil, s.statusError(ctx, op, err, out.Alert)
	}
	if out.Redirect != "" {
		if _, err := s.deps.Router.Navigate(out.Redirect); err != nil {
			return nil, s.handleError(ctx, op, err)
		}
	}
	return s.respond(op, out)
}

func (s *GRPCHandlers) GetHome(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("GetHome", s.deps.Home.Snapshot())
}

func (s *GRPCHandlers) ToggleNotifications(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("ToggleNotifications", s.deps.Home.ToggleNotifications())
}

func (s *GRPCHandlers) GetMonitor(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("GetMonitor", s.deps.Monitor.Snapshot())
}

func (s *GRPCHandlers) SelectToiletType(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in toiletTypeRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, "SelectToiletType", err)
	}
	t, err := washroom.ParseToiletType(in.ToiletType)
	if err != nil {
		return nil, s.handleError(ctx, "SelectToiletType", err)
	}
	snap, err := s.deps.Monitor.SelectToiletType(t)
	if err != nil {
		return nil, s.handleError(ctx, "SelectToiletType", err)
	}
	return s.respond("SelectToiletType", snap)
}

func (s *GRPCHandlers) SendActionMessage(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in actionMessageRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, "SendActionMessage", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	out, err := s.deps.Monitor.SendActionMessage(ctx, in.Message)
	if err != nil {
		return nil, s.handleError(ctx, "SendActionMessage", err)
	}
	return s.respond("SendActionMessage", out)
}

func (s *GRPCHandlers) GetReport(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return s.respond("GetReport", s.deps.Report.Snapshot())
}

func (s *GRPCHandlers) UpdateReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in reportUpdateRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, "UpdateReport", err)
	}

	var ch views.ReportChange
	if in.DateType != nil {
		g, err := report.ParseGranularity(*in.DateType)
		if err != nil {
			return nil, s.handleError(ctx, "UpdateReport", err)
		}
		ch.Granularity = &g
	}
	if in.Date != nil {
		d, err := report.ParseDate(*in.Date)
		if err != nil {
			return nil, s.handleError(ctx, "UpdateReport", err)
		}
		ch.Date = &d
	}
	if in.ReportType != nil {
		k, err := report.ParseKind(*in.ReportType)
		if err != nil {
			return nil, s.handleError(ctx, "UpdateReport", err)
		}
		ch.Kind = &k
	}
	if in.Washroom != nil {
		var id washroom.Identifier
		if *in.Washroom != "" {
			parsed, err := washroom.Parse(*in.Washroom)
			if err != nil {
				return nil, s.handleError(ctx, "UpdateReport", err)
			}
			id = parsed
		}
		ch.Washroom = &id
	}

	snap, err := s.deps.Report.Update(ch)
	if err != nil {
		return nil, s.handleError(ctx, "UpdateReport", err)
	}
	return s.respond("UpdateReport", snap)
}

func (s *GRPCHandlers) QueryReport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	view, err := s.queryReport(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, "QueryReport", err)
	}
	return s.respond("QueryReport", view)
}

func (s *GRPCHandlers) ExportReport(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	view, err := s.queryReport(ctx, req)
	if err != nil {
		return nil, s.handleError(ctx, "ExportReport", err)
	}
	data, err := export.ReportWorkbook(view)
	if err != nil {
		return nil, s.handleError(ctx, "ExportReport", err)
	}
	return wrapperspb.Bytes(data), nil
}

func (s *GRPCHandlers) ListActivity(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listActivityRequest
	if err := decode(req, &in); err != nil {
		return nil, s.handleError(ctx, "ListActivity", err)
	}

	list, err := s.deps.Activity.Recent(ctx, in.Limit)
	if err != nil {
		return nil, s.handleError(ctx, "ListActivity", err)
	}
	return s.respond("ListActivity", map[string]any{"activities": list})
}

// queryReport builds a report for an explicit query without touching the
// report page. Closed periods are served through the cache.
func (s *GRPCHandlers) queryReport(ctx context.Context, req *structpb.Struct) (service.ReportView, error) {
	q, err := parseQuery(req)
	if err != nil {
		return service.ReportView{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if !s.historic(q) {
		return s.deps.Reports.Build(ctx, q)
	}
	return FindAndCache(ctx, s.cache, &s.sfGroup, cacheKeyReport+q.Key(), s.cacheTTL, s.logger, func(fetchCtx context.Context) (service.ReportView, error) {
		return s.deps.Reports.Build(fetchCtx, q)
	})
}

// historic reports whether q's period ended before today in the display
// zone. Such results can no longer change.
func (s *GRPCHandlers) historic(q report.Query) bool {
	return !report.PeriodEnd(q.Date, q.Granularity).After(s.deps.Clock.StartOfToday())
}

func parseQuery(req *structpb.Struct) (report.Query, error) {
	var in reportQueryRequest
	if err := decode(req, &in); err != nil {
		return report.Query{}, err
	}

	g, err := report.ParseGranularity(in.DateType)
	if err != nil {
		return report.Query{}, err
	}
	d, err := report.ParseDate(in.Date)
	if err != nil {
		return report.Query{}, err
	}
	id, err := washroom.Parse(in.Washroom)
	if err != nil {
		return report.Query{}, err
	}
	k, err := report.ParseKind(in.ReportType)
	if err != nil {
		return report.Query{}, err
	}

	q := report.Query{Granularity: g, Date: d, Washroom: id, Kind: k}
	if err := q.Validate(); err != nil {
		return report.Query{}, err
	}
	return q, nil
}
