package regularization

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rbacService rbac.Service) {
	regs := r.Group("/regularizations")
	regs.Use(middleware.AuthMiddleware())
	{
		regs.POST("", rbac.Authorize(rbacService, "regularization", "create"), h.Submit)
		regs.GET("", rbac.Authorize(rbacService, "regularization", "read"), h.GetMine)
		regs.GET("/pending", rbac.Authorize(rbacService, "regularization", "approve"), h.GetPendingApprovals)
		regs.GET("/:id", rbac.Authorize(rbacService, "regularization", "read"), h.GetByID)
		regs.PATCH("/:id/decision", rbac.Authorize(rbacService, "regularization", "approve"), h.Decide)
	}
}
