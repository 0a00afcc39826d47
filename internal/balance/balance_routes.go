package balance

import (
	"leave-core/internal/middleware"
	"leave-core/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	balances := r.Group("/balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("/:employee_id", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.GetByEmployee)
		balances.POST("/:employee_id/adjust", middleware.RBACAuthorize(rbacService, "balance", "adjust"), handler.Adjust)
	}
}
