package employee

import (
	"go-employee/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts the employee endpoints under r. A nil rdb disables
// idempotent create.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rdb *redis.Client) {
	employees := r.Group("/employees")
	{
		employees.GET("", handler.GetAll)
		employees.GET("/search", handler.Search)
		employees.GET("/:id", handler.GetByID)

		employees.POST("", middleware.Idempotency(rdb), handler.Create)

		employees.PUT("/:id", handler.Update)
		employees.DELETE("/:id", handler.Delete)
	}
}
