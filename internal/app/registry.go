package app

import (
	"database/sql"

	"go-employee/internal/employee"
	"go-employee/internal/employeedoc"
	"go-employee/internal/messaging/kafka"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// registerEmployeeModule wires the relational variant. rdb may be nil.
func registerEmployeeModule(
	api *gin.RouterGroup,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	employeeRepo := employee.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, rdb, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)

	employee.RegisterRoutes(api, employeeHandler, rdb)
}

func registerEmployeeDocModule(api *gin.RouterGroup, rdb *redis.Client, logger *zap.Logger) {
	repo := employeedoc.NewRepository(rdb)
	service := employeedoc.NewService(repo, logger)
	handler := employeedoc.NewHandler(service, logger)

	employeedoc.RegisterRoutes(api, handler)
}
