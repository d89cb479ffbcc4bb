package report

import (
	"context"
	"go-timeclock/internal/attendance"
	"go-timeclock/internal/audit"
	reporterrors "go-timeclock/internal/report/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/dayrange"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=report_service.go -destination=mock/report_service_mock.go -package=mock
type Service interface {
	AttendanceDay(ctx context.Context, companyID string, q DayQuery) (DayReport, error)
	ExportAttendance(ctx context.Context, companyID string, q DayQuery) (Export, error)
	ExportAudit(ctx context.Context, companyID string, q AuditExportQuery) (Export, error)
}

type service struct {
	sessions attendance.Repository
	audit    audit.Service
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(sessions attendance.Repository, auditService audit.Service, loc *time.Location, logger ...*zap.Logger) Service {
	return NewServiceWithClock(sessions, auditService, loc, time.Now, logger...)
}

func NewServiceWithClock(
	sessions attendance.Repository,
	auditService audit.Service,
	loc *time.Location,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &service{sessions: sessions, audit: auditService, loc: loc, now: now, logger: l}
}

// snapshot loads the sessions that started on the requested day and applies
// the location filter.
func (s *service) snapshot(ctx context.Context, companyID string, q DayQuery, now time.Time) (time.Time, []attendance.Session, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := uuid.Parse(companyID); err != nil {
		return time.Time{}, nil, reporterrors.ErrInvalidCompanyID
	}
	day, err := dayrange.Parse(q.Date, s.loc, now)
	if err != nil {
		s.logger.Warn("report invalid date", zap.String("request_id", rid), zap.String("date", q.Date))
		return time.Time{}, nil, reporterrors.ErrInvalidDate
	}
	start, end := dayrange.Bounds(day, s.loc)

	rows, err := s.sessions.FindAllByRange(ctx, companyID, start, end)
	if err != nil {
		s.logger.Error("report load sessions failed",
			zap.String("request_id", rid),
			zap.String("company_id", companyID),
			zap.Error(err),
		)
		return time.Time{}, nil, apperror.Persistence(err)
	}

	filtered, err := FilterByLocation(rows, q.Location)
	if err != nil {
		return time.Time{}, nil, err
	}
	return start, filtered, nil
}

func (s *service) AttendanceDay(ctx context.Context, companyID string, q DayQuery) (DayReport, error) {
	s.logger.Debug("attendance day report requested",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.String("date", q.Date),
		zap.String("location", q.Location),
	)

	now := s.now()
	dayStart, rows, err := s.snapshot(ctx, companyID, q, now)
	if err != nil {
		return DayReport{}, err
	}

	todayStart := dayrange.StartOfDay(now, s.loc)
	sessions := make([]attendance.SessionResponse, len(rows))
	for i, row := range rows {
		sessions[i] = attendance.MapToResponse(row, now, todayStart)
	}

	loc := strings.ToLower(strings.TrimSpace(q.Location))
	if loc == "" {
		loc = LocationAll
	}
	return DayReport{
		Date:     dayStart.Format(time.DateOnly),
		Location: loc,
		Summary:  Summarize(rows, now),
		Sessions: sessions,
	}, nil
}

func (s *service) ExportAttendance(ctx context.Context, companyID string, q DayQuery) (Export, error) {
	now := s.now()
	dayStart, rows, err := s.snapshot(ctx, companyID, q, now)
	if err != nil {
		return Export{}, err
	}

	s.logger.Info("attendance exported",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.Int("rows", len(rows)),
	)
	return Export{
		Name:  "attendance-" + dayStart.Format(time.DateOnly),
		Table: AttendanceTable(rows, s.loc, now),
	}, nil
}

func (s *service) ExportAudit(ctx context.Context, companyID string, q AuditExportQuery) (Export, error) {
	start, end, actions, err := audit.ResolveQuery(audit.ListQuery{
		Date:   q.Date,
		From:   q.From,
		To:     q.To,
		Action: q.Action,
	}, s.loc, s.now())
	if err != nil {
		return Export{}, err
	}

	events, err := s.audit.QueryByDateRange(ctx, companyID, start, end, actions...)
	if err != nil {
		return Export{}, err
	}

	name := "audit-logs-" + start.Format(time.DateOnly)
	if endDay := end.Format(time.DateOnly); endDay != start.Format(time.DateOnly) {
		name += "_" + endDay
	}

	s.logger.Info("audit log exported",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("company_id", companyID),
		zap.Int("rows", len(events)),
	)
	return Export{Name: name, Table: AuditTable(events, s.loc)}, nil
}
