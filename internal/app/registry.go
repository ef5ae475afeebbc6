package app

import (
	"database/sql"
	"path/filepath"

	"go-attend/internal/attendanceday"
	"go-attend/internal/attendancelog"
	"go-attend/internal/employee"
	"go-attend/internal/machine"
	"go-attend/internal/messaging/kafka"
	"go-attend/internal/middleware"
	"go-attend/internal/notification"
	"go-attend/internal/rbac"
	"go-attend/internal/rbac/infra"
	"go-attend/internal/regularization"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	logRepo := attendancelog.NewRepository(gormDB)
	dayRepo := attendanceday.NewRepository(gormDB)
	regRepo := regularization.NewRepository(gormDB)
	machineRepo := machine.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Core engine & notification sink ---
	engine := attendanceday.NewEngine()
	notifier := notification.NewOutboxNotifier(outboxRepo)

	// --- Services ---
	logService := attendancelog.NewService(logRepo)
	dayService := attendanceday.NewService(dayRepo, rdb)
	regService := regularization.NewService(db, regRepo, logRepo, dayRepo, engine, employeeRepo, notifier, rdb)
	machineService := machine.NewService(db, machineRepo, logRepo, dayRepo, engine, employeeRepo, notifier)

	// --- Handlers ---
	logHandler := attendancelog.NewHandler(logService)
	dayHandler := attendanceday.NewHandler(dayService)
	regHandler := regularization.NewHandler(regService)
	machineHandler := machine.NewHandler(machineService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		attendancelog.RegisterRoutes(api, logHandler, rbacService)
		attendanceday.RegisterRoutes(api, dayHandler, rbacService)
		regularization.RegisterRoutes(api, regHandler, rbacService)
		machine.RegisterRoutes(api, machineHandler, machineRepo, rbacService, middleware.Idempotency(rdb))
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
