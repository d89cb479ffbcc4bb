package attendance_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-timeclock/internal/attendance"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	attendanceMock "go-timeclock/internal/attendance/mock"
	"go-timeclock/internal/audit"
	auditMock "go-timeclock/internal/audit/mock"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/messaging/kafka"
	kafkaMock "go-timeclock/internal/messaging/kafka/mock"
	"go-timeclock/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type serviceDeps struct {
	db       *sql.DB
	sqlMock  sqlmock.Sqlmock
	service  attendance.Service
	repo     *attendanceMock.MockRepository
	outbox   *kafkaMock.MockOutboxRepository
	recorder *auditMock.MockRecorder
	clock    *time.Time
}

func setupServiceTest(t *testing.T, now time.Time) *serviceDeps {
	ctrl := gomock.NewController(t)

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := attendanceMock.NewMockRepository(ctrl)
	outboxRepo := kafkaMock.NewMockOutboxRepository(ctrl)
	recorder := auditMock.NewMockRecorder(ctrl)

	clock := &now
	svc := attendance.NewServiceWithClock(db, repo, outboxRepo, recorder, time.UTC,
		func() time.Time { return *clock }, zap.NewNop())

	return &serviceDeps{
		db:       db,
		sqlMock:  sqlMock,
		service:  svc,
		repo:     repo,
		outbox:   outboxRepo,
		recorder: recorder,
		clock:    clock,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func expectOutbox(t *testing.T, deps *serviceDeps, eventType string) {
	t.Helper()
	deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
	deps.outbox.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.AttendanceSessionTopic, e.Topic)
			assert.Equal(t, eventType, e.EventType)
			assert.Equal(t, kafka.OutboxStatusPending, e.Status)

			var payload events.AttendanceSessionEvent
			assert.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, e.AggregateID, payload.SessionID)
			return nil
		})
}

var (
	nineAM       = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	fiveThirtyPM = time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC)
)

func TestService_ClockIn(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	origin := &geo.Origin{IP: "8.8.8.8", City: "Jakarta", Country: "Indonesia", Timezone: "Asia/Jakarta"}

	t.Run("success", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().
			FindEmployee(ctx, companyID, employeeID).
			Return(&attendance.EmployeeRef{Name: "Jane Smith"}, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(ctx context.Context, s *attendance.Session) error {
				assert.Equal(t, attendance.LocationHybrid, s.Location)
				assert.Equal(t, nineAM, s.ClockIn)
				assert.Nil(t, s.ClockOut)
				assert.Nil(t, s.ElapsedMinutes)
				assert.Equal(t, "Jakarta", *s.City)
				assert.Equal(t, employeeID, s.EmployeeID.String())
				return nil
			})
		expectOutbox(t, deps, events.AttendanceSessionOpened)
		deps.recorder.EXPECT().
			Record(ctx, gomock.Any()).
			Do(func(ctx context.Context, entry audit.Entry) {
				assert.Equal(t, audit.ActionClockIn, entry.Action)
				assert.Equal(t, "hybrid", entry.Details["location"])
				assert.Equal(t, "Jane Smith", entry.Actor.Name)
				assert.Equal(t, origin, entry.Origin)
			})

		resp, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "Hybrid"}, origin)
		assert.NoError(t, err)
		assert.True(t, resp.Open)
		assert.Equal(t, "Jane Smith", resp.EmployeeName)
		assert.Equal(t, "0h 0m", resp.Elapsed.Label)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid location", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "beach"}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidLocation)
	})

	t.Run("unknown employee", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "office"}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrEmployeeNotFound)
	})

	t.Run("concurrent open session conflicts", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, companyID, employeeID).Return(&attendance.EmployeeRef{Name: "Jane"}, nil)
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_open_session"})

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "office"}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyOpen)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("store failure emits no audit event", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, companyID, employeeID).Return(&attendance.EmployeeRef{Name: "Jane"}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "office"}, nil)
		assert.ErrorIs(t, err, apperror.ErrPersistence)
	})

	t.Run("commit failure emits no audit event", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit().WillReturnError(errors.New("commit lost"))
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindEmployee(ctx, companyID, employeeID).Return(&attendance.EmployeeRef{Name: "Jane"}, nil)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		expectOutbox(t, deps, events.AttendanceSessionOpened)

		_, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "remote"}, nil)
		assert.ErrorIs(t, err, apperror.ErrPersistence)
	})
}

func TestService_ClockInThenClockOut(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	email := "jane@example.com"
	emp := &attendance.EmployeeRef{Name: "Jane Smith", Email: &email}

	deps := setupServiceTest(t, nineAM)

	var stored attendance.Session
	gomock.InOrder(
		deps.recorder.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Do(func(ctx context.Context, entry audit.Entry) {
				assert.Equal(t, audit.ActionClockIn, entry.Action)
				assert.Equal(t, "office", entry.Details["location"])
			}),
		deps.recorder.EXPECT().
			Record(gomock.Any(), gomock.Any()).
			Do(func(ctx context.Context, entry audit.Entry) {
				assert.Equal(t, audit.ActionClockOut, entry.Action)
				assert.Equal(t, "office", entry.Details["location"])
				assert.Equal(t, "8h 30m", entry.Details["elapsed"])
				assert.Equal(t, int64(510), entry.Details["elapsed_minutes"])
				assert.NotContains(t, entry.Details, "clamped")
				assert.Equal(t, "jane@example.com", entry.Actor.Email)
			}),
	)

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().FindEmployee(ctx, companyID, employeeID).Return(emp, nil)
	deps.repo.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, s *attendance.Session) error {
			stored = *s
			return nil
		})
	expectOutbox(t, deps, events.AttendanceSessionOpened)

	in, err := deps.service.ClockIn(ctx, companyID, employeeID, attendance.ClockInRequest{Location: "office"}, nil)
	assert.NoError(t, err)

	*deps.clock = fiveThirtyPM

	expectTx(t, deps.sqlMock, true)
	deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
	deps.repo.EXPECT().
		FindOpenByEmployee(ctx, companyID, employeeID).
		DoAndReturn(func(ctx context.Context, cid, eid string) (*attendance.Session, error) {
			s := stored
			s.Employee = emp
			return &s, nil
		})
	deps.repo.EXPECT().
		Close(ctx, companyID, in.ID, fiveThirtyPM, int64(510)).
		Return(int64(1), nil)
	expectOutbox(t, deps, events.AttendanceSessionClosed)

	out, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{}, nil)
	assert.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.False(t, out.Open)
	assert.Equal(t, "8h 30m", out.Elapsed.Label)
	assert.Equal(t, "2024-01-01T17:30:00Z", *out.ClockOut)
	assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
}

func TestService_ClockOut(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeUUID := uuid.New()
	employeeID := employeeUUID.String()
	sessionID := uuid.New()

	openSession := func() *attendance.Session {
		return &attendance.Session{
			ID:         sessionID,
			EmployeeID: employeeUUID,
			Location:   attendance.LocationRemote,
			ClockIn:    nineAM,
			Employee:   &attendance.EmployeeRef{Name: "Jane"},
		}
	}

	t.Run("unknown session id emits no audit event", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: sessionID.String()}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrSessionNotFound)
	})

	t.Run("second clock out fails and leaves the row alone", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		closedAt := fiveThirtyPM.Add(-time.Hour)
		minutes := int64(450)
		closed := openSession()
		closed.ClockOut = &closedAt
		closed.ElapsedMinutes = &minutes

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(closed, nil)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: sessionID.String()}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClosed)
	})

	t.Run("lost race is already closed", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(openSession(), nil)
		deps.repo.EXPECT().Close(ctx, companyID, sessionID.String(), fiveThirtyPM, int64(510)).Return(int64(0), nil)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(openSession(), nil)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: sessionID.String()}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClosed)
	})

	t.Run("session of another employee is not found", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		other := openSession()
		other.EmployeeID = uuid.New()

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(other, nil)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: sessionID.String()}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrSessionNotFound)
	})

	t.Run("no open session", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindOpenByEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenSession)
	})

	t.Run("clock skew clamps to zero and is flagged", func(t *testing.T) {
		skewed := nineAM.Add(-2 * time.Minute)
		deps := setupServiceTest(t, skewed)

		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().FindByID(ctx, companyID, sessionID.String()).Return(openSession(), nil)
		deps.repo.EXPECT().Close(ctx, companyID, sessionID.String(), skewed, int64(0)).Return(int64(1), nil)
		expectOutbox(t, deps, events.AttendanceSessionClosed)
		deps.recorder.EXPECT().
			Record(ctx, gomock.Any()).
			Do(func(ctx context.Context, entry audit.Entry) {
				assert.Equal(t, true, entry.Details["clamped"])
				assert.Equal(t, int64(120), entry.Details["skew_seconds"])
				assert.Equal(t, int64(0), entry.Details["elapsed_minutes"])
			})

		resp, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: sessionID.String()}, nil)
		assert.NoError(t, err)
		assert.Equal(t, "0h 0m", resp.Elapsed.Label)
	})

	t.Run("invalid session id", func(t *testing.T) {
		deps := setupServiceTest(t, fiveThirtyPM)

		_, err := deps.service.ClockOut(ctx, companyID, employeeID, attendance.ClockOutRequest{SessionID: "abc"}, nil)
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidSessionID)
	})
}

func TestService_GetOpenSession(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("none", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)
		deps.repo.EXPECT().FindOpenByEmployee(ctx, companyID, employeeID).Return(nil, gorm.ErrRecordNotFound)

		resp, err := deps.service.GetOpenSession(ctx, companyID, employeeID)
		assert.NoError(t, err)
		assert.Nil(t, resp)
	})

	t.Run("live elapsed", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM.Add(95*time.Minute+40*time.Second))
		deps.repo.EXPECT().
			FindOpenByEmployee(ctx, companyID, employeeID).
			Return(&attendance.Session{ID: uuid.New(), ClockIn: nineAM, Location: attendance.LocationOffice}, nil)

		resp, err := deps.service.GetOpenSession(ctx, companyID, employeeID)
		assert.NoError(t, err)
		assert.Equal(t, "1h 35m", resp.Elapsed.Label)
		assert.False(t, resp.Stale)
	})

	t.Run("session left open across midnight is stale", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM.Add(24*time.Hour))
		deps.repo.EXPECT().
			FindOpenByEmployee(ctx, companyID, employeeID).
			Return(&attendance.Session{ID: uuid.New(), ClockIn: nineAM, Location: attendance.LocationOffice}, nil)

		resp, err := deps.service.GetOpenSession(ctx, companyID, employeeID)
		assert.NoError(t, err)
		assert.True(t, resp.Open)
		assert.True(t, resp.Stale)
		assert.Equal(t, "24h 0m", resp.Elapsed.Label)
	})

	t.Run("store failure", func(t *testing.T) {
		deps := setupServiceTest(t, nineAM)
		deps.repo.EXPECT().FindOpenByEmployee(ctx, companyID, employeeID).Return(nil, errors.New("timeout"))

		_, err := deps.service.GetOpenSession(ctx, companyID, employeeID)
		assert.ErrorIs(t, err, apperror.ErrPersistence)
	})
}
