package attendance

import (
	"context"
	"database/sql"
	"errors"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	"go-timeclock/internal/audit"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/dayrange"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	GetOpenSession(ctx context.Context, companyID, employeeID string) (*SessionResponse, error)
	ClockIn(ctx context.Context, companyID, employeeID string, req ClockInRequest, origin *geo.Origin) (SessionResponse, error)
	ClockOut(ctx context.Context, companyID, employeeID string, req ClockOutRequest, origin *geo.Origin) (SessionResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	recorder audit.Recorder
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	recorder audit.Recorder,
	loc *time.Location,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(db, repo, outboxRepo, recorder, loc, time.Now, logger...)
}

// NewServiceWithClock lets callers pin "now", which the registry never reads
// from anywhere else.
func NewServiceWithClock(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	recorder audit.Recorder,
	loc *time.Location,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		recorder: recorder,
		loc:      loc,
		now:      now,
		logger:   l,
	}
}

func (s *service) GetOpenSession(ctx context.Context, companyID, employeeID string) (*SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("get open session requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
	)

	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidEmployeeID
	}

	row, err := s.repo.FindOpenByEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("get open session failed", zap.String("request_id", rid), zap.Error(err))
		return nil, apperror.Persistence(err)
	}

	resp := s.toResponse(*row, s.now())
	return &resp, nil
}

func (s *service) ClockIn(
	ctx context.Context,
	companyID, employeeID string,
	req ClockInRequest,
	origin *geo.Origin,
) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("clock in requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("location", req.Location),
	)

	location, ok := ParseLocation(req.Location)
	if !ok {
		s.logger.Warn("clock in invalid location",
			zap.String("request_id", rid),
			zap.String("location", req.Location),
		)
		return SessionResponse{}, attendanceerrors.ErrInvalidLocation
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return SessionResponse{}, apperror.InvalidField("company_id")
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return SessionResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	emp, err := qtx.FindEmployee(ctx, companyID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("clock in unknown employee",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
			)
			return SessionResponse{}, attendanceerrors.ErrEmployeeNotFound
		}
		s.logger.Error("clock in employee lookup failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}

	now := s.now().UTC()
	row := &Session{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: employeeUUID,
		Location:   location,
		ClockIn:    now,
	}
	if origin != nil {
		row.IPAddress = optional(origin.IP)
		row.City = optional(origin.City)
		row.Country = optional(origin.Country)
		row.Timezone = optional(origin.Timezone)
	}

	// the partial unique index decides races between concurrent clock-ins
	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, attendanceerrors.ErrAlreadyOpen) {
			s.logger.Warn("clock in rejected, session already open",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
			)
		} else {
			s.logger.Error("clock in persist failed", zap.String("request_id", rid), zap.Error(err))
		}
		return SessionResponse{}, mapped
	}

	if err := s.enqueue(ctx, tx, rid, events.AttendanceSessionOpened, row, now); err != nil {
		s.logger.Error("clock in outbox persist failed",
			zap.String("request_id", rid),
			zap.String("session_id", row.ID.String()),
			zap.Error(err),
		)
		return SessionResponse{}, apperror.Persistence(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("clock in commit failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}

	row.Employee = emp
	s.recorder.Record(ctx, audit.Entry{
		CompanyID: companyID,
		Action:    audit.ActionClockIn,
		Actor:     actorOf(employeeID, emp),
		Origin:    origin,
		Details: audit.Payload{
			"session_id": row.ID.String(),
			"location":   string(location),
		},
	})

	s.logger.Info("clock in success",
		zap.String("request_id", rid),
		zap.String("session_id", row.ID.String()),
		zap.String("location", string(location)),
	)
	return s.toResponse(*row, now), nil
}

func (s *service) ClockOut(
	ctx context.Context,
	companyID, employeeID string,
	req ClockOutRequest,
	origin *geo.Origin,
) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("clock out requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.String("session_id", req.SessionID),
	)

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return SessionResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}
	if req.SessionID != "" {
		if _, err := uuid.Parse(req.SessionID); err != nil {
			return SessionResponse{}, attendanceerrors.ErrInvalidSessionID
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("clock out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var row *Session
	if req.SessionID == "" {
		row, err = qtx.FindOpenByEmployee(ctx, companyID, employeeID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("clock out without open session",
				zap.String("request_id", rid),
				zap.String("employee_id", employeeID),
			)
			return SessionResponse{}, attendanceerrors.ErrNoOpenSession
		}
	} else {
		row, err = qtx.FindByID(ctx, companyID, req.SessionID)
	}
	if err != nil {
		mapped := mapRepositoryError(err)
		if errors.Is(mapped, attendanceerrors.ErrSessionNotFound) {
			s.logger.Warn("clock out unknown session",
				zap.String("request_id", rid),
				zap.String("session_id", req.SessionID),
			)
		} else {
			s.logger.Error("clock out lookup failed", zap.String("request_id", rid), zap.Error(err))
		}
		return SessionResponse{}, mapped
	}
	if row.EmployeeID != employeeUUID {
		// other employees' sessions are invisible
		return SessionResponse{}, attendanceerrors.ErrSessionNotFound
	}
	if !row.IsOpen() {
		s.logger.Warn("clock out on closed session",
			zap.String("request_id", rid),
			zap.String("session_id", row.ID.String()),
		)
		return SessionResponse{}, attendanceerrors.ErrAlreadyClosed
	}

	now := s.now().UTC()
	elapsed := ComputeElapsed(row.ClockIn, now)
	minutes := elapsed.TotalMinutes()

	affected, err := qtx.Close(ctx, companyID, row.ID.String(), now, minutes)
	if err != nil {
		s.logger.Error("clock out persist failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}
	if affected == 0 {
		// lost a race with another clock-out or a roster removal
		if _, err := qtx.FindByID(ctx, companyID, row.ID.String()); errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrSessionNotFound
		}
		s.logger.Warn("clock out lost race, session already closed",
			zap.String("request_id", rid),
			zap.String("session_id", row.ID.String()),
		)
		return SessionResponse{}, attendanceerrors.ErrAlreadyClosed
	}

	row.ClockOut = &now
	row.ElapsedMinutes = &minutes

	if err := s.enqueue(ctx, tx, rid, events.AttendanceSessionClosed, row, now); err != nil {
		s.logger.Error("clock out outbox persist failed",
			zap.String("request_id", rid),
			zap.String("session_id", row.ID.String()),
			zap.Error(err),
		)
		return SessionResponse{}, apperror.Persistence(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("clock out commit failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, apperror.Persistence(err)
	}

	details := audit.Payload{
		"session_id":      row.ID.String(),
		"location":        string(row.Location),
		"elapsed_minutes": minutes,
		"elapsed":         elapsed.String(),
	}
	if elapsed.Clamped {
		details["clamped"] = true
		details["skew_seconds"] = int64(row.ClockIn.Sub(now) / time.Second)
		s.logger.Warn("clock out before clock in, elapsed clamped to zero",
			zap.String("request_id", rid),
			zap.String("session_id", row.ID.String()),
			zap.Time("clock_in", row.ClockIn),
			zap.Time("clock_out", now),
		)
	}
	s.recorder.Record(ctx, audit.Entry{
		CompanyID: companyID,
		Action:    audit.ActionClockOut,
		Actor:     actorOf(employeeID, row.Employee),
		Origin:    origin,
		Details:   details,
	})

	s.logger.Info("clock out success",
		zap.String("request_id", rid),
		zap.String("session_id", row.ID.String()),
		zap.String("elapsed", elapsed.String()),
	)
	return s.toResponse(*row, now), nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, rid, eventType string, row *Session, at time.Time) error {
	if s.outbox == nil {
		return nil
	}

	event := events.AttendanceSessionEvent{
		EventType:      eventType,
		RequestID:      rid,
		SessionID:      row.ID.String(),
		EmployeeID:     row.EmployeeID.String(),
		CompanyID:      row.CompanyID.String(),
		Location:       string(row.Location),
		ClockIn:        row.ClockIn,
		ClockOut:       row.ClockOut,
		ElapsedMinutes: row.ElapsedMinutes,
		OccurredAt:     at,
	}
	outboxEvent, err := kafka.NewOutboxEvent(rid, "attendance", row.ID.String(), eventType, events.AttendanceSessionTopic, event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func (s *service) toResponse(row Session, now time.Time) SessionResponse {
	return MapToResponse(row, now, dayrange.StartOfDay(now, s.loc))
}

// MapToResponse renders a session as seen at now. An open session that
// started before dayStart is reported as stale; it is never closed here.
func MapToResponse(row Session, now, dayStart time.Time) SessionResponse {
	elapsed := row.ElapsedAt(now)
	resp := SessionResponse{
		ID:            row.ID.String(),
		CompanyID:     row.CompanyID.String(),
		EmployeeID:    row.EmployeeID.String(),
		Location:      string(row.Location),
		LocationLabel: row.Location.Label(),
		ClockIn:       row.ClockIn.Format(time.RFC3339),
		Open:          row.IsOpen(),
		Stale:         row.IsOpen() && row.ClockIn.Before(dayStart),
		Elapsed: ElapsedResponse{
			Hours:        elapsed.Hours,
			Minutes:      elapsed.Minutes,
			TotalMinutes: elapsed.TotalMinutes(),
			Label:        elapsed.String(),
		},
		IPAddress: row.IPAddress,
		City:      row.City,
		Country:   row.Country,
		Timezone:  row.Timezone,
	}
	if row.ClockOut != nil {
		v := row.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &v
	}
	if row.Employee != nil {
		resp.EmployeeName = row.Employee.Name
	}
	return resp
}

func actorOf(employeeID string, emp *EmployeeRef) *audit.Actor {
	a := &audit.Actor{EmployeeID: employeeID}
	if emp != nil {
		a.Name = emp.Name
		if emp.Email != nil {
			a.Email = *emp.Email
		}
	}
	return a
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
