package audit

import (
	"context"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/shared/contextutil"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultWriteTimeout = 5 * time.Second

type Actor struct {
	EmployeeID string
	Name       string
	Email      string
}

type Entry struct {
	CompanyID string
	Action    Action
	Actor     *Actor
	Origin    *geo.Origin
	Details   Payload
}

// Recorder appends audit events. Record never reports failure to the caller;
// a failed write is logged and dropped so the business action still succeeds.
//
//go:generate mockgen -source=audit_recorder.go -destination=mock/audit_recorder_mock.go -package=mock
type Recorder interface {
	Record(ctx context.Context, entry Entry)
}

type recorder struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

func NewRecorder(repo Repository, timeout time.Duration, logger ...*zap.Logger) Recorder {
	l := zap.L().Named("audit.recorder")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.recorder")
	}
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &recorder{
		repo:    repo,
		timeout: timeout,
		now:     time.Now,
		logger:  l,
	}
}

func (r *recorder) Record(ctx context.Context, entry Entry) {
	rid := contextutil.GetRequestID(ctx)

	event, err := newEvent(entry, r.now().UTC())
	if err != nil {
		r.logger.Error("audit event rejected",
			zap.String("request_id", rid),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
		return
	}

	// the caller may already be done with ctx; the write gets its own deadline
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	if err := r.repo.Create(wctx, event); err != nil {
		r.logger.Error("audit write failed",
			zap.String("request_id", rid),
			zap.String("company_id", entry.CompanyID),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
		return
	}

	r.logger.Debug("audit event recorded",
		zap.String("request_id", rid),
		zap.String("audit_id", event.ID.String()),
		zap.String("action", string(entry.Action)),
	)
}

func newEvent(entry Entry, at time.Time) (*Event, error) {
	companyID, err := uuid.Parse(entry.CompanyID)
	if err != nil {
		return nil, err
	}
	if !entry.Action.Valid() {
		return nil, errUnknownAction(entry.Action)
	}

	details := Payload{}
	for k, v := range entry.Details {
		details[k] = v
	}

	e := &Event{
		ID:        uuid.New(),
		CompanyID: companyID,
		Action:    entry.Action,
		Details:   details,
		CreatedAt: at,
	}
	if a := entry.Actor; a != nil {
		if id, err := uuid.Parse(a.EmployeeID); err == nil {
			e.EmployeeID = &id
		}
		e.ActorName = optional(a.Name)
		e.ActorEmail = optional(a.Email)
	}
	if o := entry.Origin; o != nil {
		e.IPAddress = optional(o.IP)
		e.City = optional(o.City)
		e.Country = optional(o.Country)
		e.Timezone = optional(o.Timezone)
	}
	return e, nil
}

type errUnknownAction Action

func (e errUnknownAction) Error() string {
	return "unknown audit action: " + string(e)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
