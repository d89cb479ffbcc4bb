package rbac

import (
	"go-timeclock/internal/domain"
	"go-timeclock/internal/rbac/infra"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// DefaultPolicies grants admins the back office and employees the clock.
var DefaultPolicies = [][]string{
	{domain.RoleAdmin, "employee", "*"},
	{domain.RoleAdmin, "report", "read"},
	{domain.RoleAdmin, "audit", "read"},
	{domain.RoleAdmin, "company", "read"},
	{domain.RoleEmployee, "attendance", "read"},
	{domain.RoleEmployee, "attendance", "create"},
	{domain.RoleEmployee, "company", "read"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
	Permissions(role string) []domain.PermissionResponse
}

type service struct {
	enforcer *casbin.Enforcer
	policies [][]string
	mu       sync.RWMutex
	logger   *zap.Logger
}

func NewService(policies [][]string, logger ...*zap.Logger) (Service, error) {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	if policies == nil {
		policies = DefaultPolicies
	}

	enforcer, err := infra.NewEnforcer(policies)
	if err != nil {
		return nil, err
	}
	l.Info("rbac policies loaded", zap.Int("count", len(policies)))

	return &service{enforcer: enforcer, policies: policies, logger: l}, nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	role := strings.ToUpper(strings.TrimSpace(req.Role))
	allowed, err := s.enforcer.Enforce(role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("rbac enforce failed",
			zap.String("subject", req.Subject),
			zap.String("role", role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("rbac enforce result",
		zap.String("subject", req.Subject),
		zap.String("company_id", req.CompanyID),
		zap.String("role", role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}

func (s *service) Permissions(role string) []domain.PermissionResponse {
	role = strings.ToUpper(strings.TrimSpace(role))
	out := make([]domain.PermissionResponse, 0)
	for _, p := range s.policies {
		if p[0] == role {
			out = append(out, domain.PermissionResponse{Resource: p[1], Action: p[2]})
		}
	}
	return out
}
