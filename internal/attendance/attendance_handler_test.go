package attendance_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-timeclock/internal/attendance"
	attendanceerrors "go-timeclock/internal/attendance/errors"
	attendanceMock "go-timeclock/internal/attendance/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	testCompanyID  = "8f1d7c02-4a51-4a0e-9a8e-1f9e6e2b0c11"
	testEmployeeID = "3b0c5f3e-2f6a-4e0d-8d0a-7c1f2e9b4a22"
)

func newHandlerContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set("company_id", testCompanyID)
	c.Set("employee_id", testEmployeeID)
	return c, w
}

func TestHandler_ClockIn(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := attendanceMock.NewMockService(ctrl)
	h := attendance.NewHandler(svc, nil, time.Second, zap.NewNop())

	t.Run("created", func(t *testing.T) {
		svc.EXPECT().
			ClockIn(gomock.Any(), testCompanyID, testEmployeeID, attendance.ClockInRequest{Location: "office"}, gomock.Nil()).
			Return(attendance.SessionResponse{ID: "s-1", Location: "office", Open: true}, nil)

		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-in", `{"location":"office"}`)
		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"s-1"`)
	})

	t.Run("missing location", func(t *testing.T) {
		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-in", `{}`)
		h.ClockIn(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_INPUT")
	})

	t.Run("already open", func(t *testing.T) {
		svc.EXPECT().
			ClockIn(gomock.Any(), testCompanyID, testEmployeeID, gomock.Any(), gomock.Any()).
			Return(attendance.SessionResponse{}, attendanceerrors.ErrAlreadyOpen)

		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-in", `{"location":"remote"}`)
		h.ClockIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "CONFLICT")
	})
}

func TestHandler_ClockOut(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := attendanceMock.NewMockService(ctrl)
	h := attendance.NewHandler(svc, nil, time.Second, zap.NewNop())

	t.Run("empty body closes the open session", func(t *testing.T) {
		svc.EXPECT().
			ClockOut(gomock.Any(), testCompanyID, testEmployeeID, attendance.ClockOutRequest{}, gomock.Nil()).
			Return(attendance.SessionResponse{ID: "s-1", Elapsed: attendance.ElapsedResponse{Label: "8h 30m"}}, nil)

		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-out", "")
		h.ClockOut(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"label":"8h 30m"`)
	})

	t.Run("malformed session id", func(t *testing.T) {
		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-out", `{"session_id":"nope"}`)
		h.ClockOut(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already closed", func(t *testing.T) {
		svc.EXPECT().
			ClockOut(gomock.Any(), testCompanyID, testEmployeeID, gomock.Any(), gomock.Any()).
			Return(attendance.SessionResponse{}, attendanceerrors.ErrAlreadyClosed)

		c, w := newHandlerContext(http.MethodPost, "/attendance/clock-out", `{"session_id":"9d6c3a1e-0b7f-4c2d-9e8a-5f4b3c2d1e00"}`)
		h.ClockOut(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_STATE")
	})
}

func TestHandler_GetOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := attendanceMock.NewMockService(ctrl)
	h := attendance.NewHandler(svc, nil, time.Second, zap.NewNop())

	svc.EXPECT().GetOpenSession(gomock.Any(), testCompanyID, testEmployeeID).Return(nil, nil)

	c, w := newHandlerContext(http.MethodGet, "/attendance/open", "")
	h.GetOpen(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)
}
