package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-timeclock/internal/audit"
	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/company"
	companyerrors "go-timeclock/internal/company/errors"
	"go-timeclock/internal/domain"
	"go-timeclock/internal/employee"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultTokenTTL    = 12 * time.Hour
	adminSubjectPrefix = "admin:"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	EmployeeLogin(ctx context.Context, req EmployeeLoginRequest, origin *geo.Origin) (LoginResult, error)
	AdminLogin(ctx context.Context, req AdminLoginRequest, origin *geo.Origin) (LoginResult, error)
	Register(ctx context.Context, req RegisterRequest, origin *geo.Origin) (LoginResult, error)
	Me(ctx context.Context, id Identity) (AuthResponse, error)
}

type service struct {
	companies company.Service
	employees employee.Repository
	roster    employee.Service
	recorder  audit.Recorder
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(
	companies company.Service,
	employees employee.Repository,
	roster employee.Service,
	recorder audit.Recorder,
	jwtSecret string,
	ttl time.Duration,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithClock(companies, employees, roster, recorder, jwtSecret, ttl, time.Now, logger...)
}

func NewServiceWithClock(
	companies company.Service,
	employees employee.Repository,
	roster employee.Service,
	recorder audit.Recorder,
	jwtSecret string,
	ttl time.Duration,
	now func() time.Time,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		companies: companies,
		employees: employees,
		roster:    roster,
		recorder:  recorder,
		secret:    []byte(jwtSecret),
		ttl:       ttl,
		now:       now,
		logger:    l,
	}
}

func (s *service) EmployeeLogin(ctx context.Context, req EmployeeLoginRequest, origin *geo.Origin) (LoginResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("employee login requested", zap.String("request_id", rid))

	comp, err := s.resolveCompany(ctx, req.Company)
	if err != nil {
		return LoginResult{}, err
	}

	emp, err := s.employees.FindByName(ctx, comp.ID.String(), req.Name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("employee login unknown name",
				zap.String("request_id", rid),
				zap.String("company_id", comp.ID.String()),
			)
			return LoginResult{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("employee login lookup failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResult{}, apperror.Persistence(err)
	}

	user := AuthResponse{
		CompanyID:   comp.ID.String(),
		CompanyName: comp.Name,
		EmployeeID:  emp.ID.String(),
		Name:        emp.Name,
		Email:       deref(emp.Email),
		Role:        domain.RoleEmployee,
	}
	result, err := s.issue(Identity{
		Subject:    user.EmployeeID,
		CompanyID:  user.CompanyID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
		Name:       user.Name,
	}, user)
	if err != nil {
		s.logger.Error("employee token signing failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResult{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		CompanyID: user.CompanyID,
		Action:    audit.ActionEmployeeLogin,
		Actor:     employeeActor(user),
		Origin:    origin,
	})

	s.logger.Info("employee logged in",
		zap.String("request_id", rid),
		zap.String("company_id", user.CompanyID),
		zap.String("employee_id", user.EmployeeID),
	)
	return result, nil
}

func (s *service) AdminLogin(ctx context.Context, req AdminLoginRequest, origin *geo.Origin) (LoginResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("admin login requested", zap.String("request_id", rid))

	comp, err := s.resolveCompany(ctx, req.Company)
	if err != nil {
		return LoginResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(comp.AdminPasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("admin login wrong password",
			zap.String("request_id", rid),
			zap.String("company_id", comp.ID.String()),
		)
		return LoginResult{}, autherrors.ErrInvalidCredentials
	}

	user := AuthResponse{
		CompanyID:   comp.ID.String(),
		CompanyName: comp.Name,
		Name:        comp.Name + " admin",
		Role:        domain.RoleAdmin,
	}
	result, err := s.issue(Identity{
		Subject:   adminSubjectPrefix + user.CompanyID,
		CompanyID: user.CompanyID,
		Role:      user.Role,
		Name:      user.Name,
	}, user)
	if err != nil {
		s.logger.Error("admin token signing failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResult{}, err
	}

	s.recorder.Record(ctx, audit.Entry{
		CompanyID: user.CompanyID,
		Action:    audit.ActionAdminLogin,
		Actor:     &audit.Actor{Name: user.Name},
		Origin:    origin,
	})

	s.logger.Info("admin logged in", zap.String("request_id", rid), zap.String("company_id", user.CompanyID))
	return result, nil
}

// Register adds the caller to the company roster and signs them in.
func (s *service) Register(ctx context.Context, req RegisterRequest, origin *geo.Origin) (LoginResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("self registration requested", zap.String("request_id", rid))

	comp, err := s.companies.GetByName(ctx, req.Company)
	if err != nil {
		return LoginResult{}, err
	}

	emp, err := s.roster.AddEmployee(ctx, comp.ID.String(), employee.AddEmployeeRequest{
		Name:  req.Name,
		Email: req.Email,
	}, employee.ActionMeta{
		Source: events.SourceRegistration,
		Origin: origin,
	})
	if err != nil {
		return LoginResult{}, err
	}

	user := AuthResponse{
		CompanyID:   comp.ID.String(),
		CompanyName: comp.Name,
		EmployeeID:  emp.ID,
		Name:        emp.Name,
		Email:       deref(emp.Email),
		Role:        domain.RoleEmployee,
	}
	result, err := s.issue(Identity{
		Subject:    user.EmployeeID,
		CompanyID:  user.CompanyID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
		Name:       user.Name,
	}, user)
	if err != nil {
		s.logger.Error("registration token signing failed", zap.String("request_id", rid), zap.Error(err))
		return LoginResult{}, err
	}

	s.logger.Info("employee registered",
		zap.String("request_id", rid),
		zap.String("company_id", user.CompanyID),
		zap.String("employee_id", user.EmployeeID),
	)
	return result, nil
}

func (s *service) Me(ctx context.Context, id Identity) (AuthResponse, error) {
	if id.CompanyID == "" || id.Role == "" {
		return AuthResponse{}, autherrors.ErrInvalidToken
	}

	comp, err := s.companies.GetByID(ctx, id.CompanyID)
	if err != nil {
		if isNotFound(err) {
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, err
	}

	resp := AuthResponse{
		CompanyID:   comp.ID,
		CompanyName: comp.Name,
		Name:        id.Name,
		Role:        id.Role,
	}
	if id.Role != domain.RoleEmployee {
		return resp, nil
	}

	emp, err := s.employees.FindByIDAndCompany(ctx, id.CompanyID, id.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// removed from the roster after the token was issued
			return AuthResponse{}, autherrors.ErrInvalidToken
		}
		return AuthResponse{}, apperror.Persistence(err)
	}
	resp.EmployeeID = emp.ID.String()
	resp.Name = emp.Name
	resp.Email = deref(emp.Email)
	return resp, nil
}

func (s *service) resolveCompany(ctx context.Context, name string) (*company.Company, error) {
	comp, err := s.companies.GetByName(ctx, name)
	if err != nil {
		if isNotFound(err) || errors.Is(err, companyerrors.ErrMissingRequiredFields) {
			s.logger.Warn("login unknown company", zap.String("request_id", contextutil.GetRequestID(ctx)))
			return nil, autherrors.ErrInvalidCredentials
		}
		return nil, err
	}
	return comp, nil
}

func (s *service) issue(id Identity, user AuthResponse) (LoginResult, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := jwt.MapClaims{
		middleware.ClaimSubject:   id.Subject,
		middleware.ClaimCompanyID: id.CompanyID,
		middleware.ClaimRole:      id.Role,
		middleware.ClaimName:      id.Name,
		"iat":                     now.Unix(),
		"exp":                     exp.Unix(),
	}
	if id.EmployeeID != "" {
		claims[middleware.ClaimEmployeeID] = id.EmployeeID
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return LoginResult{}, apperror.WrapSentinel(apperror.ErrInternal, err)
	}
	return LoginResult{
		AccessToken: signed,
		ExpiresAt:   exp.UTC().Format(time.RFC3339),
		User:        user,
	}, nil
}

func employeeActor(user AuthResponse) *audit.Actor {
	email := user.Email
	if email == "" {
		email = user.Name
	}
	return &audit.Actor{EmployeeID: user.EmployeeID, Name: user.Name, Email: email}
}

func isNotFound(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeNotFound
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
