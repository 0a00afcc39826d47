package app

import (
	"context"
	"database/sql"
	"path/filepath"

	"leave-core/internal/audit"
	"leave-core/internal/balance"
	"leave-core/internal/directory"
	"leave-core/internal/holiday"
	"leave-core/internal/leave"
	"leave-core/internal/messaging/kafka"
	"leave-core/internal/middleware"
	"leave-core/internal/rbac"
	"leave-core/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

func registerModules(
	ctx context.Context,
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	directoryRepo := directory.NewRepository(gormDB)
	holidayRepo := holiday.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB, db)
	balanceRepo := balance.NewRepository(gormDB, db)
	leaveRepo := leave.NewRepository(gormDB, db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(directoryRepo, enforcer)
	if err := rbacService.LoadPolicy(ctx); err != nil {
		return err
	}

	// --- Services ---
	directoryService := directory.NewService(directoryRepo)
	auditService := audit.NewService(auditRepo)
	balanceService := balance.NewService(db, balanceRepo, auditService, rdb)
	leavePublisher := leave.NewEventPublisher(outboxRepo)
	leaveService := leave.NewService(db, leaveRepo, balanceService, auditService, directoryService, leavePublisher)

	// --- Handlers ---
	leaveHandler := leave.NewHandler(leaveService, auditService)
	balanceHandler := balance.NewHandler(balanceService)
	holidayHandler := holiday.NewHandler(holidayRepo)

	// --- Global middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		holiday.RegisterRoutes(api, holidayHandler, rbacService)
	}

	return nil
}
