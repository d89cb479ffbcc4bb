package company

import (
	"context"
	companyerrors "go-timeclock/internal/company/errors"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error)
	GetByID(ctx context.Context, id string) (*CompanyResponse, error)
	GetByName(ctx context.Context, name string) (*Company, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	name := strings.TrimSpace(req.Name)
	if name == "" || req.AdminPassword == "" {
		return nil, companyerrors.ErrMissingRequiredFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("create company hash password failed", zap.String("request_id", rid), zap.Error(err))
		return nil, apperror.ErrInternal
	}

	comp := &Company{
		ID:                uuid.New(),
		Name:              name,
		NameKey:           NameKey(name),
		AdminPasswordHash: string(hash),
		CreatedAt:         time.Now().UTC(),
		UpdatedAt:         time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, comp); err != nil {
		mapped := mapRepositoryError(err)
		s.logger.Warn("create company failed",
			zap.String("request_id", rid),
			zap.String("name", name),
			zap.Error(err),
		)
		return nil, mapped
	}

	s.logger.Info("create company success",
		zap.String("request_id", rid),
		zap.String("company_id", comp.ID.String()),
	)
	return mapToResponse(comp), nil
}

func (s *service) GetByID(ctx context.Context, id string) (*CompanyResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, companyerrors.ErrInvalidCompanyID
	}

	comp, err := s.repo.GetByID(ctx, uid)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToResponse(comp), nil
}

// GetByName resolves a workspace the way users type it, ignoring case.
func (s *service) GetByName(ctx context.Context, name string) (*Company, error) {
	if strings.TrimSpace(name) == "" {
		return nil, companyerrors.ErrMissingRequiredFields
	}
	comp, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return comp, nil
}

func mapToResponse(c *Company) *CompanyResponse {
	return &CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
