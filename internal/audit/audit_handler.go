package audit

import (
	auditerrors "go-timeclock/internal/audit/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/dayrange"
	"go-timeclock/internal/shared/response"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
	loc     *time.Location
	now     func() time.Time
}

func NewHandler(service Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{service: service, loc: loc, now: time.Now}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	start, end, actions, err := ResolveQuery(q, h.loc, h.now())
	if err != nil {
		writeServiceError(c, err)
		return
	}

	rows, err := h.service.QueryByDateRange(c.Request.Context(), c.GetString("company_id"), start, end, actions...)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp := MapToListResponse(rows)
	from, to, meta := response.PageBounds(c, len(resp))
	response.Success(c, http.StatusOK, resp[from:to], &meta)
}

// ResolveQuery turns the listing filters into an inclusive time range and an
// action filter. A single day wins over from/to; no filter means today.
func ResolveQuery(q ListQuery, loc *time.Location, now time.Time) (time.Time, time.Time, []Action, error) {
	var actions []Action
	if raw := strings.TrimSpace(q.Action); raw != "" && !strings.EqualFold(raw, "all") {
		a, ok := ParseAction(raw)
		if !ok {
			return time.Time{}, time.Time{}, nil, auditerrors.ErrInvalidAction
		}
		actions = []Action{a}
	}

	if q.Date != "" || (q.From == "" && q.To == "") {
		day, err := dayrange.Parse(q.Date, loc, now)
		if err != nil {
			return time.Time{}, time.Time{}, nil, auditerrors.ErrInvalidDate
		}
		start, end := dayrange.Bounds(day, loc)
		return start, end, actions, nil
	}

	fromDay, err := dayrange.Parse(q.From, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, nil, auditerrors.ErrInvalidDate
	}
	toDay, err := dayrange.Parse(q.To, loc, now)
	if err != nil {
		return time.Time{}, time.Time{}, nil, auditerrors.ErrInvalidDate
	}
	start, _ := dayrange.Bounds(fromDay, loc)
	_, end := dayrange.Bounds(toDay, loc)
	if start.After(end) {
		return time.Time{}, time.Time{}, nil, auditerrors.ErrInvalidDateRange
	}
	return start, end, actions, nil
}
