package leave

import (
	"leave-core/internal/middleware"
	"leave-core/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("",
			middleware.RBACAuthorize(rbacService, "leave", "create"),
			middleware.RateLimitByUser(3, 10),
			middleware.Idempotency(rdb),
			handler.Submit,
		)
		leaves.GET("/pending", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.ListPending)
		leaves.GET("/history/:employee_id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.ListHistory)

		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByID)
		leaves.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave", "update"), handler.Update)
		leaves.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.GET("/:id/audit", middleware.RBACAuthorize(rbacService, "audit", "read"), handler.GetAuditTrail)
	}
}
