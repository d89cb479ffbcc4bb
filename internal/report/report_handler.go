package report

import (
	"bytes"
	reporterrors "go-timeclock/internal/report/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/response"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("report request failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) AttendanceDay(c *gin.Context) {
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	rep, err := h.service.AttendanceDay(c.Request.Context(), c.GetString("company_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rep, nil)
}

func (h *Handler) ExportAttendance(c *gin.Context) {
	var q DayQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	format, ok := ParseFormat(q.Format)
	if !ok {
		h.writeServiceError(c, reporterrors.ErrInvalidFormat)
		return
	}

	exp, err := h.service.ExportAttendance(c.Request.Context(), c.GetString("company_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.download(c, format, "Attendance", exp)
}

func (h *Handler) ExportAudit(c *gin.Context) {
	var q AuditExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}
	format, ok := ParseFormat(q.Format)
	if !ok {
		h.writeServiceError(c, reporterrors.ErrInvalidFormat)
		return
	}

	exp, err := h.service.ExportAudit(c.Request.Context(), c.GetString("company_id"), q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.download(c, format, "Audit Logs", exp)
}

// download renders into memory first so an encoding failure can still be
// reported as JSON.
func (h *Handler) download(c *gin.Context, format Format, sheet string, exp Export) {
	var buf bytes.Buffer
	var err error
	if format == FormatXLSX {
		err = WriteXLSX(&buf, sheet, exp.Table)
	} else {
		err = WriteCSV(&buf, exp.Table)
	}
	if err != nil {
		h.logger.Error("render export failed", zap.String("format", string(format)), zap.Error(err))
		h.writeServiceError(c, apperror.WrapSentinel(apperror.ErrInternal, err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+exp.Name+"."+string(format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
