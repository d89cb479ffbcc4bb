package report

import (
	"go-timeclock/internal/attendance"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func session(loc attendance.Location, in time.Time, out *time.Time) attendance.Session {
	return attendance.Session{ID: uuid.New(), EmployeeID: uuid.New(), Location: loc, ClockIn: in, ClockOut: out}
}

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func snapshotFixture() []attendance.Session {
	return []attendance.Session{
		session(attendance.LocationOffice, at(9, 0), ptr(at(17, 30))),
		session(attendance.LocationRemote, at(8, 15), nil),
		session(attendance.LocationHybrid, at(10, 0), ptr(at(12, 45))),
		session(attendance.LocationOffice, at(11, 0), nil),
	}
}

func TestCounts(t *testing.T) {
	rows := snapshotFixture()

	assert.Equal(t, 2, CountOpenSessions(rows))
	assert.Equal(t, 2, CountByLocation(rows, attendance.LocationOffice))
	assert.Equal(t, 1, CountByLocation(rows, attendance.LocationRemote))
	assert.Equal(t, 1, CountByLocation(rows, attendance.LocationHybrid))
	assert.Equal(t, 0, CountOpenSessions(nil))
}

func TestSumElapsed_UsesNowForOpenSessions(t *testing.T) {
	rows := snapshotFixture()
	now := at(12, 0)

	// 8h30 + 3h45 (open) + 2h45 + 1h00 (open)
	total := SumElapsed(rows, now)
	assert.Equal(t, "16h 0m", total.String())
	assert.Equal(t, int64(960), total.TotalMinutes())
}

func TestSumElapsed_ClampsSkewedSessions(t *testing.T) {
	rows := []attendance.Session{
		session(attendance.LocationOffice, at(9, 0), ptr(at(10, 0))),
		session(attendance.LocationRemote, at(13, 0), nil),
	}
	// the open session starts after now and contributes nothing
	assert.Equal(t, int64(60), SumElapsed(rows, at(12, 0)).TotalMinutes())
}

func TestFilterByLocation(t *testing.T) {
	rows := snapshotFixture()

	t.Run("all is identity", func(t *testing.T) {
		for _, loc := range []string{"all", "ALL", "", "  "} {
			out, err := FilterByLocation(rows, loc)
			require.NoError(t, err)
			assert.Equal(t, rows, out)
		}
	})

	t.Run("single location", func(t *testing.T) {
		out, err := FilterByLocation(rows, "Office")
		require.NoError(t, err)
		assert.Len(t, out, 2)
		for _, s := range out {
			assert.Equal(t, attendance.LocationOffice, s.Location)
		}
		assert.Len(t, rows, 4)
	})

	t.Run("unknown location", func(t *testing.T) {
		_, err := FilterByLocation(rows, "moon")
		assert.ErrorIs(t, err, attendanceerrors.ErrInvalidLocation)
	})
}

func TestSummarize(t *testing.T) {
	s := Summarize(snapshotFixture(), at(12, 0))

	assert.Equal(t, 4, s.Sessions)
	assert.Equal(t, 2, s.OpenSessions)
	assert.Equal(t, 2, s.Office)
	assert.Equal(t, 1, s.Remote)
	assert.Equal(t, 1, s.Hybrid)
	assert.Equal(t, "16h 0m", s.TotalElapsed.Label)
}
