package audit

import (
	"context"
	auditerrors "go-timeclock/internal/audit/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=audit_service.go -destination=mock/audit_service_mock.go -package=mock
type Service interface {
	QueryByDateRange(ctx context.Context, companyID string, start, end time.Time, actions ...Action) ([]Event, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("audit.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("audit.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) QueryByDateRange(ctx context.Context, companyID string, start, end time.Time, actions ...Action) ([]Event, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("query audit events requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	if _, err := uuid.Parse(companyID); err != nil {
		return nil, auditerrors.ErrInvalidCompanyID
	}
	if start.After(end) {
		s.logger.Warn("query audit events invalid range", zap.String("request_id", rid))
		return nil, auditerrors.ErrInvalidDateRange
	}
	for _, a := range actions {
		if !a.Valid() {
			return nil, auditerrors.ErrInvalidAction
		}
	}

	rows, err := s.repo.QueryByDateRange(ctx, companyID, start, end, actions)
	if err != nil {
		s.logger.Error("query audit events failed", zap.String("request_id", rid), zap.Error(err))
		return nil, apperror.Persistence(err)
	}
	return rows, nil
}

func MapToResponse(e Event) EventResponse {
	resp := EventResponse{
		ID:          e.ID.String(),
		Action:      string(e.Action),
		ActionLabel: e.Action.Label(),
		ActorName:   e.ActorName,
		ActorEmail:  e.ActorEmail,
		IPAddress:   e.IPAddress,
		City:        e.City,
		Country:     e.Country,
		Timezone:    e.Timezone,
		Location:    e.Location(),
		Details:     map[string]any(e.Details),
		CreatedAt:   e.CreatedAt.Format(time.RFC3339),
	}
	if resp.Details == nil {
		resp.Details = map[string]any{}
	}
	if e.EmployeeID != nil {
		id := e.EmployeeID.String()
		resp.EmployeeID = &id
	}
	return resp
}

func MapToListResponse(rows []Event) []EventResponse {
	res := make([]EventResponse, len(rows))
	for i, r := range rows {
		res[i] = MapToResponse(r)
	}
	return res
}
