package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/staffhub/candidate-grid/internal/middleware"
	"github.com/staffhub/candidate-grid/internal/permission"
)

type PermissionHandler struct {
	policy *permission.Policy
}

func NewPermissionHandler(policy *permission.Policy) *PermissionHandler {
	return &PermissionHandler{policy: policy}
}

// Check handles GET /permissions?action&resource
// Without a query it returns the caller's grants.
func (h *PermissionHandler) Check(c *gin.Context) {
	role := middleware.GetRole(c)
	action, resource := c.Query("action"), c.Query("resource")

	if action == "" && resource == "" {
		ok(c, gin.H{"role": role, "grants": h.policy.Grants(role)})
		return
	}
	if action == "" || resource == "" {
		badRequest(c, "Invalid Request", "action and resource are both required")
		return
	}
	ok(c, gin.H{
		"role":     role,
		"action":   action,
		"resource": resource,
		"allowed":  h.policy.HasPermission(role, action, resource),
	})
}
