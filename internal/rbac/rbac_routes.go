package rbac

import (
	"go-attend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, service Service) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware())
	{
		group.POST("/enforce", h.Enforce)
		group.GET("/roles", Authorize(service, "rbac", "read"), h.ListRoles)
		group.GET("/permissions", Authorize(service, "rbac", "read"), h.ListPermissions)
		group.PUT("/roles/:id/permissions", Authorize(service, "rbac", "update"), h.UpdateRolePermissions)
	}
}
