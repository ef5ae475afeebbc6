package machine

import (
	"go-attend/internal/middleware"
	"go-attend/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, repo Repository, rbacService rbac.Service, idempotency gin.HandlerFunc) {
	// Device-facing endpoint; authenticated by API key, not JWT.
	sync := r.Group("/machines/sync")
	sync.Use(MachineAuth(repo))
	if idempotency != nil {
		sync.Use(idempotency)
	}
	sync.POST("", h.Sync)

	machines := r.Group("/machines")
	machines.Use(middleware.AuthMiddleware())
	{
		machines.POST("", rbac.Authorize(rbacService, "machine", "create"), h.Register)
		machines.GET("", rbac.Authorize(rbacService, "machine", "read"), h.GetAll)
		machines.GET("/:id", rbac.Authorize(rbacService, "machine", "read"), h.GetByID)
		machines.PATCH("/:id/status", rbac.Authorize(rbacService, "machine", "update"), h.SetStatus)
	}

	orphans := r.Group("/attendance/orphans")
	orphans.Use(middleware.AuthMiddleware())
	{
		orphans.GET("", rbac.Authorize(rbacService, "attendance_log", "read_all"), h.ListOrphans)
		orphans.PATCH("/:id/assign", rbac.Authorize(rbacService, "attendance_log", "update"), h.AssignOrphan)
	}
}
