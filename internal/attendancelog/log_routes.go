package attendancelog

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	logs := r.Group("/attendance/logs")
	logs.Use(middleware.AuthMiddleware())
	{
		logs.GET("", rbac.Authorize(rbacService, "attendance_log", "read"), h.ListByDay)
	}
}
