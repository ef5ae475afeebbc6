package attendanceday

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	days := r.Group("/attendance/days")
	days.Use(middleware.AuthMiddleware())
	{
		days.GET("", rbac.Authorize(rbacService, "attendance_day", "read"), h.ListRange)
		days.GET("/one", rbac.Authorize(rbacService, "attendance_day", "read"), h.GetDay)
		days.GET("/summary", rbac.Authorize(rbacService, "attendance_day", "read_all"), h.Summary)
	}
}
