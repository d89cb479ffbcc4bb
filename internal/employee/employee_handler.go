package employee

import (
	"errors"
	"go-timeclock/internal/audit"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/response"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImportBytes = 2 << 20

type Handler struct {
	service    Service
	resolver   geo.Resolver
	geoTimeout time.Duration
	logger     *zap.Logger
}

func NewHandler(service Service, resolver geo.Resolver, geoTimeout time.Duration, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, resolver: resolver, geoTimeout: geoTimeout, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) meta(c *gin.Context) ActionMeta {
	ctx := c.Request.Context()
	return ActionMeta{
		Source: events.SourceAdmin,
		Actor:  &audit.Actor{Name: c.GetString("name")},
		Origin: geo.Lookup(ctx, h.resolver, c.ClientIP(), h.geoTimeout, contextutil.GetLogger(ctx, h.logger)),
	}
}

func (h *Handler) Create(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http add employee", zap.String("company_id", companyID))

	var req AddEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.AddEmployee(c.Request.Context(), companyID, req, h.meta(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

// Import accepts the file either as a multipart "file" field or as the raw
// request body.
func (h *Handler) Import(c *gin.Context) {
	companyID := c.GetString("company_id")
	h.logger.Debug("http bulk import", zap.String("company_id", companyID))

	raw, err := readImport(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	report, err := h.service.BulkImport(c.Request.Context(), companyID, raw, h.meta(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func readImport(c *gin.Context) (string, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportBytes)

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			return "", employeeerrors.ErrImportFileMissing
		}
		f, err := fh.Open()
		if err != nil {
			return "", employeeerrors.ErrImportFileMissing
		}
		defer f.Close()
		src = f
	}

	b, err := io.ReadAll(src)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", apperror.New(apperror.CodeInvalidInput, "Import file is too large", http.StatusRequestEntityTooLarge)
		}
		return "", employeeerrors.ErrImportFileMissing
	}
	return string(b), nil
}

func (h *Handler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="`+ImportTemplateFilename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(ImportTemplate))
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := c.GetString("company_id")
	h.logger.Debug("http get all employees", zap.String("company_id", companyID))

	resp, err := h.service.GetAll(ctx, companyID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	q := strings.TrimSpace(strings.ToLower(c.Query("q")))
	if q != "" {
		filtered := make([]EmployeeResponse, 0, len(resp))
		for _, e := range resp {
			if strings.Contains(strings.ToLower(e.Name), q) ||
				strings.Contains(strings.ToLower(deref(e.Email)), q) ||
				strings.Contains(strings.ToLower(deref(e.Manager)), q) {
				filtered = append(filtered, e)
			}
		}
		resp = filtered
	}

	sortBy := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_by", "name")))
	sortDir := strings.ToLower(strings.TrimSpace(c.DefaultQuery("sort_dir", "asc")))
	if sortDir != "desc" {
		sortDir = "asc"
	}
	sort.SliceStable(resp, func(i, j int) bool {
		var a, b string
		switch sortBy {
		case "email":
			a, b = deref(resp[i].Email), deref(resp[j].Email)
		case "manager":
			a, b = deref(resp[i].Manager), deref(resp[j].Manager)
		case "created_at":
			a, b = resp[i].CreatedAt, resp[j].CreatedAt
		default:
			a, b = resp[i].Name, resp[j].Name
		}
		a, b = strings.ToLower(a), strings.ToLower(b)
		if sortDir == "desc" {
			return a > b
		}
		return a < b
	})

	start, end, meta := response.PageBounds(c, len(resp))
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetOptions(c *gin.Context) {
	resp, err := h.service.GetOptions(c.Request.Context(), c.GetString("company_id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString("company_id"), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	companyID := c.GetString("company_id")
	h.logger.Debug("http remove employee",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	if err := h.service.RemoveEmployee(ctx, companyID, id); err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
