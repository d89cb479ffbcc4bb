package app

import (
	"database/sql"
	"go-timeclock/internal/attendance"
	"go-timeclock/internal/audit"
	"go-timeclock/internal/auth"
	"go-timeclock/internal/company"
	"go-timeclock/internal/config"
	"go-timeclock/internal/employee"
	"go-timeclock/internal/geo"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/rbac"
	"go-timeclock/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) error {
	loc := cfg.Location()

	// --- Repositories ---
	attendanceRepo := attendance.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Shared collaborators ---
	rbacService, err := rbac.NewService(rbac.DefaultPolicies, logger)
	if err != nil {
		return err
	}
	recorder := audit.NewRecorder(auditRepo, cfg.StoreTimeout, logger)
	resolver := geo.NewResolver(cfg.Geo.LookupURL, cfg.Geo.Timeout, cfg.Geo.CacheTTL, rdb, logger)

	// --- Services ---
	companyService := company.NewService(companyRepo, logger)
	employeeService := employee.NewService(db, employeeRepo, outboxRepo, recorder, rdb, logger)
	attendanceService := attendance.NewService(db, attendanceRepo, outboxRepo, recorder, loc, logger)
	auditService := audit.NewService(auditRepo, logger)
	reportService := report.NewService(attendanceRepo, auditService, loc, logger)
	authService := auth.NewService(
		companyService,
		employeeRepo,
		employeeService,
		recorder,
		cfg.JWTSecret,
		cfg.AccessTokenTTL,
		logger,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, resolver, cfg.Geo.Timeout, auth.CookieConfig{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.AccessTokenTTL,
	}, logger)
	companyHandler := company.NewHandler(companyService, logger)
	employeeHandler := employee.NewHandler(employeeService, resolver, cfg.Geo.Timeout, logger)
	attendanceHandler := attendance.NewHandler(attendanceService, resolver, cfg.Geo.Timeout, logger)
	auditHandler := audit.NewHandler(auditService, loc)
	reportHandler := report.NewHandler(reportService, logger)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.JWTSecret)
		company.RegisterRoutes(api, companyHandler, cfg.JWTSecret)
		employee.RegisterRoutes(api, employeeHandler, rbacService, cfg.JWTSecret)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService, rdb, cfg.JWTSecret)
		audit.RegisterRoutes(api, auditHandler, rbacService, cfg.JWTSecret)
		report.RegisterRoutes(api, reportHandler, rbacService, cfg.JWTSecret)
		rbac.RegisterRoutes(api, rbacHandler, cfg.JWTSecret)
	}

	return nil
}
