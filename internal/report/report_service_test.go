package report_test

import (
	"context"
	"errors"
	"go-timeclock/internal/attendance"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	attendanceMock "go-timeclock/internal/attendance/mock"
	"go-timeclock/internal/audit"
	auditerrors "go-timeclock/internal/audit/errors"
	auditMock "go-timeclock/internal/audit/mock"
	"go-timeclock/internal/report"
	reporterrors "go-timeclock/internal/report/errors"
	"go-timeclock/internal/shared/apperror"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var companyID = uuid.NewString()

func setupReportTest(t *testing.T, now time.Time) (report.Service, *attendanceMock.MockRepository, *auditMock.MockService) {
	ctrl := gomock.NewController(t)
	repo := attendanceMock.NewMockRepository(ctrl)
	auditSvc := auditMock.NewMockService(ctrl)
	svc := report.NewServiceWithClock(repo, auditSvc, time.UTC, func() time.Time { return now }, zap.NewNop())
	return svc, repo, auditSvc
}

func TestService_AttendanceDay(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC)
	dayStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)
	out := dayStart.Add(17*time.Hour + 30*time.Minute)

	rows := []attendance.Session{
		{ID: uuid.New(), Location: attendance.LocationOffice, ClockIn: dayStart.Add(9 * time.Hour), ClockOut: &out},
		{ID: uuid.New(), Location: attendance.LocationRemote, ClockIn: dayStart.Add(22 * time.Hour)},
	}

	t.Run("Filtered Snapshot", func(t *testing.T) {
		svc, repo, _ := setupReportTest(t, now)
		repo.EXPECT().FindAllByRange(ctx, companyID, dayStart, dayEnd).Return(rows, nil)

		rep, err := svc.AttendanceDay(ctx, companyID, report.DayQuery{Date: "2024-01-01", Location: "remote"})
		require.NoError(t, err)
		assert.Equal(t, "2024-01-01", rep.Date)
		assert.Equal(t, "remote", rep.Location)
		require.Len(t, rep.Sessions, 1)
		assert.True(t, rep.Sessions[0].Open)
		// started yesterday and still open
		assert.True(t, rep.Sessions[0].Stale)
		assert.Equal(t, 1, rep.Summary.OpenSessions)
		assert.Equal(t, "14h 0m", rep.Summary.TotalElapsed.Label)
	})

	t.Run("Defaults To Today And All", func(t *testing.T) {
		svc, repo, _ := setupReportTest(t, now)
		todayStart := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		repo.EXPECT().FindAllByRange(ctx, companyID, todayStart, todayStart.AddDate(0, 0, 1).Add(-time.Nanosecond)).Return(nil, nil)

		rep, err := svc.AttendanceDay(ctx, companyID, report.DayQuery{})
		require.NoError(t, err)
		assert.Equal(t, "all", rep.Location)
		assert.Empty(t, rep.Sessions)
	})

	t.Run("Invalid Date", func(t *testing.T) {
		svc, _, _ := setupReportTest(t, now)
		_, err := svc.AttendanceDay(ctx, companyID, report.DayQuery{Date: "01/01/2024"})
		assert.ErrorIs(t, err, reporterrors.ErrInvalidDate)
	})

	t.Run("Invalid Location", func(t *testing.T) {
		svc, repo, _ := setupReportTest(t, now)
		repo.EXPECT().FindAllByRange(ctx, companyID, gomock.Any(), gomock.Any()).Return(rows, nil)

		_, err := svc.AttendanceDay(ctx, companyID, report.DayQuery{Location: "beach"})
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidLocation)
	})

	t.Run("Store Failure", func(t *testing.T) {
		svc, repo, _ := setupReportTest(t, now)
		repo.EXPECT().FindAllByRange(ctx, companyID, gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := svc.AttendanceDay(ctx, companyID, report.DayQuery{})
		assert.ErrorIs(t, err, apperror.ErrPersistence)
	})

	t.Run("Invalid Company", func(t *testing.T) {
		svc, _, _ := setupReportTest(t, now)
		_, err := svc.AttendanceDay(ctx, "acme", report.DayQuery{})
		assert.ErrorIs(t, err, reporterrors.ErrInvalidCompanyID)
	})
}

func TestService_ExportAttendance(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, repo, _ := setupReportTest(t, now)

	repo.EXPECT().FindAllByRange(ctx, companyID, gomock.Any(), gomock.Any()).Return([]attendance.Session{
		{ID: uuid.New(), Location: attendance.LocationHybrid, ClockIn: now.Add(-90 * time.Minute)},
	}, nil)

	exp, err := svc.ExportAttendance(ctx, companyID, report.DayQuery{Date: "2024-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "attendance-2024-01-01", exp.Name)
	require.Len(t, exp.Table.Rows, 1)
	assert.Equal(t, "Hybrid", exp.Table.Rows[0][5])
	assert.Equal(t, "1h 30m", exp.Table.Rows[0][6])
}

func TestService_ExportAudit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Single Day With Action", func(t *testing.T) {
		svc, _, auditSvc := setupReportTest(t, now)
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		auditSvc.EXPECT().
			QueryByDateRange(ctx, companyID, start, start.AddDate(0, 0, 1).Add(-time.Nanosecond), audit.ActionClockOut).
			Return([]audit.Event{{Action: audit.ActionClockOut, CreatedAt: now}}, nil)

		exp, err := svc.ExportAudit(ctx, companyID, report.AuditExportQuery{Action: "clock_out"})
		require.NoError(t, err)
		assert.Equal(t, "audit-logs-2024-01-01", exp.Name)
		assert.Len(t, exp.Table.Rows, 1)
	})

	t.Run("Range Name", func(t *testing.T) {
		svc, _, auditSvc := setupReportTest(t, now)
		auditSvc.EXPECT().QueryByDateRange(ctx, companyID, gomock.Any(), gomock.Any()).Return(nil, nil)

		exp, err := svc.ExportAudit(ctx, companyID, report.AuditExportQuery{From: "2024-01-01", To: "2024-01-07"})
		require.NoError(t, err)
		assert.Equal(t, "audit-logs-2024-01-01_2024-01-07", exp.Name)
		assert.Empty(t, exp.Table.Rows)
	})

	t.Run("Unknown Action", func(t *testing.T) {
		svc, _, _ := setupReportTest(t, now)
		_, err := svc.ExportAudit(ctx, companyID, report.AuditExportQuery{Action: "logout"})
		assert.ErrorIs(t, err, auditerrors.ErrInvalidAction)
	})
}
