package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"go-timeclock/internal/audit"
	employeeerrors "go-timeclock/internal/employee/errors"
	"go-timeclock/internal/events"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeeOptionsKeyPrefix = "employees:options:"
	optionsCacheTTL          = time.Hour
)

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

// shallow on purpose: something@something.something
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func ValidEmail(v string) bool {
	return emailPattern.MatchString(v)
}

// ActionMeta describes who triggered a roster change and from where.
type ActionMeta struct {
	Source string
	Actor  *audit.Actor
	Origin *geo.Origin
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	AddEmployee(ctx context.Context, companyID string, req AddEmployeeRequest, meta ActionMeta) (EmployeeResponse, error)
	BulkImport(ctx context.Context, companyID, raw string, meta ActionMeta) (ImportReport, error)
	RemoveEmployee(ctx context.Context, companyID, id string) error
	GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, companyID string) ([]OptionResponse, error)
	GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	recorder audit.Recorder
	rdb      *redis.Client
	sf       *singleflight.Group
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	recorder audit.Recorder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outboxRepo,
		recorder: recorder,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) AddEmployee(
	ctx context.Context,
	companyID string,
	req AddEmployeeRequest,
	meta ActionMeta,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if meta.Source == "" {
		meta.Source = events.SourceAdmin
	}
	s.logger.Debug("add employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("source", meta.Source),
	)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return EmployeeResponse{}, employeeerrors.ErrNameRequired
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !ValidEmail(email) {
		s.logger.Warn("add employee invalid email", zap.String("request_id", rid))
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmail
	}
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("add employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	key := NameKey(name)
	taken, err := qtx.ExistingNameKeys(ctx, companyID, []string{key})
	if err != nil {
		s.logger.Error("add employee name check failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if len(taken) > 0 {
		s.logger.Warn("add employee duplicate name",
			zap.String("request_id", rid),
			zap.String("name", name),
		)
		return EmployeeResponse{}, employeeerrors.ErrDuplicateName
	}

	companyName, err := qtx.CompanyName(ctx, companyID)
	if err != nil {
		s.logger.Error("add employee company lookup failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	emp := &Employee{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      name,
		NameKey:   key,
		Email:     optional(email),
		Manager:   optional(req.Manager),
		CreatedAt: s.now().UTC(),
	}
	// a concurrent insert of the same name still trips uq_employee_name here
	if err := qtx.Create(ctx, emp); err != nil {
		s.logger.Error("add employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueue(ctx, tx, rid, *emp, companyName, meta.Source); err != nil {
		s.logger.Error("add employee outbox persist failed",
			zap.String("request_id", rid),
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
		return EmployeeResponse{}, apperror.Persistence(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("add employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, apperror.Persistence(err)
	}

	s.invalidateOptions(ctx, companyID)
	s.record(ctx, *emp, meta, audit.Payload{"source": meta.Source})

	s.logger.Info("add employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", emp.ID.String()),
	)
	return mapToResponse(*emp), nil
}

func (s *service) BulkImport(
	ctx context.Context,
	companyID, raw string,
	meta ActionMeta,
) (ImportReport, error) {
	rid := contextutil.GetRequestID(ctx)
	meta.Source = events.SourceImport
	s.logger.Debug("bulk import requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.Int("bytes", len(raw)),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return ImportReport{}, employeeerrors.ErrInvalidCompanyID
	}

	parsed, err := ParseImport(raw)
	if err != nil {
		s.logger.Warn("bulk import rejected", zap.String("request_id", rid), zap.Error(err))
		return ImportReport{}, err
	}

	report := ImportReport{
		Added:    []EmployeeResponse{},
		Rejected: parsed.Rejected,
	}
	if len(parsed.Rows) == 0 {
		report.Rejected = nonNil(report.Rejected)
		return report, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("bulk import begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return ImportReport{}, apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	keys := make([]string, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		keys = append(keys, NameKey(row.Name))
	}
	taken, err := qtx.ExistingNameKeys(ctx, companyID, keys)
	if err != nil {
		s.logger.Error("bulk import roster lookup failed", zap.String("request_id", rid), zap.Error(err))
		return ImportReport{}, mapRepositoryError(err)
	}
	existing := make(map[string]bool, len(taken))
	for _, k := range taken {
		existing[k] = true
	}

	accepted, duplicates := Reconcile(parsed.Rows, existing)
	report.Rejected = append(report.Rejected, duplicates...)
	sortRejections(report.Rejected)
	report.Rejected = nonNil(report.Rejected)
	if len(accepted) == 0 {
		s.logger.Info("bulk import added nothing",
			zap.String("request_id", rid),
			zap.Int("rejected", len(report.Rejected)),
		)
		return report, nil
	}

	companyName, err := qtx.CompanyName(ctx, companyID)
	if err != nil {
		s.logger.Error("bulk import company lookup failed", zap.String("request_id", rid), zap.Error(err))
		return ImportReport{}, mapRepositoryError(err)
	}

	now := s.now().UTC()
	rows := make([]Employee, len(accepted))
	for i, r := range accepted {
		rows[i] = Employee{
			ID:           uuid.New(),
			CompanyID:    companyUUID,
			Name:         r.Name,
			NameKey:      NameKey(r.Name),
			Manager:      optional(r.Manager),
			CompanyLabel: optional(r.Company),
			Location:     optional(r.Location),
			CreatedAt:    now,
		}
	}

	// one statement: the store takes all rows or none
	if err := qtx.CreateBatch(ctx, rows); err != nil {
		s.logger.Error("bulk import persist failed",
			zap.String("request_id", rid),
			zap.Int("rows", len(rows)),
			zap.Error(err),
		)
		return ImportReport{}, mapRepositoryError(err)
	}

	for _, emp := range rows {
		if err := s.enqueue(ctx, tx, rid, emp, companyName, events.SourceImport); err != nil {
			s.logger.Error("bulk import outbox persist failed",
				zap.String("request_id", rid),
				zap.String("employee_id", emp.ID.String()),
				zap.Error(err),
			)
			return ImportReport{}, apperror.Persistence(err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("bulk import commit failed", zap.String("request_id", rid), zap.Error(err))
		return ImportReport{}, apperror.Persistence(err)
	}

	s.invalidateOptions(ctx, companyID)
	for i, emp := range rows {
		s.record(ctx, emp, meta, audit.Payload{
			"source": events.SourceImport,
			"line":   accepted[i].Line,
		})
		report.Added = append(report.Added, mapToResponse(emp))
	}

	s.logger.Info("bulk import success",
		zap.String("request_id", rid),
		zap.Int("added", len(report.Added)),
		zap.Int("rejected", len(report.Rejected)),
	)
	return report, nil
}

// RemoveEmployee deletes the employee together with all of their sessions.
// Audit events keep their own copy of the actor and are left alone.
func (s *service) RemoveEmployee(ctx context.Context, companyID, id string) error {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("remove employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("remove employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.Persistence(err)
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sessions, err := qtx.DeleteSessions(ctx, companyID, id)
	if err != nil {
		s.logger.Error("remove employee sessions failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	affected, err := qtx.Delete(ctx, companyID, id)
	if err != nil {
		s.logger.Error("remove employee failed", zap.String("request_id", rid), zap.Error(err))
		return mapRepositoryError(err)
	}
	if affected == 0 {
		s.logger.Warn("remove employee not found",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
		)
		return employeeerrors.ErrEmployeeNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("remove employee commit failed", zap.String("request_id", rid), zap.Error(err))
		return apperror.Persistence(err)
	}

	s.invalidateOptions(ctx, companyID)
	s.logger.Info("remove employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
		zap.Int64("sessions_removed", sessions),
	)
	return nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]EmployeeResponse, error) {
	s.logger.Debug("get all employees requested", zap.String("company_id", companyID))
	emps, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("get all employees failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(emps), nil
}

func (s *service) GetOptions(ctx context.Context, companyID string) ([]OptionResponse, error) {
	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []OptionResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]OptionResponse, len(emps))
		for i, e := range emps {
			resp[i] = OptionResponse{ID: e.ID.String(), Name: e.Name}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, optionsCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		s.logger.Error("get employee options failed", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	return v.([]OptionResponse), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (EmployeeResponse, error) {
	s.logger.Debug("get employee by id requested",
		zap.String("company_id", companyID),
		zap.String("employee_id", id),
	)
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		s.logger.Warn("get employee by id failed", zap.String("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*emp), nil
}

func (s *service) enqueue(ctx context.Context, tx *sql.Tx, rid string, emp Employee, companyName, source string) error {
	if s.outbox == nil {
		return nil
	}

	eventType := events.EmployeeAdded
	if source == events.SourceRegistration {
		eventType = events.EmployeeRegistered
	}
	event := events.EmployeeAddedEvent{
		EventType:   eventType,
		RequestID:   rid,
		EmployeeID:  emp.ID.String(),
		CompanyID:   emp.CompanyID.String(),
		CompanyName: companyName,
		Name:        emp.Name,
		Email:       emp.Email,
		Source:      source,
		OccurredAt:  s.now().UTC(),
	}
	outboxEvent, err := kafka.NewOutboxEvent(rid, "employee", emp.ID.String(), eventType, events.EmployeeLifecycleTopic, event)
	if err != nil {
		return err
	}
	return s.outbox.WithTx(tx).Create(ctx, outboxEvent)
}

func (s *service) record(ctx context.Context, emp Employee, meta ActionMeta, details audit.Payload) {
	action := audit.ActionEmployeeAdded
	actor := meta.Actor
	if meta.Source == events.SourceRegistration {
		action = audit.ActionEmployeeRegistered
		actor = nil
	}
	if actor == nil {
		actor = &audit.Actor{EmployeeID: emp.ID.String(), Name: emp.Name}
		if emp.Email != nil {
			actor.Email = *emp.Email
		}
	}

	details["employee_id"] = emp.ID.String()
	details["employee_name"] = emp.Name
	s.recorder.Record(ctx, audit.Entry{
		CompanyID: emp.CompanyID.String(),
		Action:    action,
		Actor:     actor,
		Origin:    meta.Origin,
		Details:   details,
	})
}

func (s *service) invalidateOptions(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapToResponse(emp Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           emp.ID.String(),
		CompanyID:    emp.CompanyID.String(),
		Name:         emp.Name,
		Email:        emp.Email,
		Manager:      emp.Manager,
		CompanyLabel: emp.CompanyLabel,
		Location:     emp.Location,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
	}
}

func mapToListResponse(emps []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(emps))
	for i, e := range emps {
		res[i] = mapToResponse(e)
	}
	return res
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

func nonNil(r []Rejection) []Rejection {
	if r == nil {
		return []Rejection{}
	}
	return r
}
