package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/permission"
)

// RequirePermission returns middleware that checks the caller's role grants
// action on resource. Returns 403 otherwise.
func RequirePermission(policy *permission.Policy, action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := GetRole(c)
		if role == "" {
			abort(c, apperr.Unauthorized("Not authenticated"))
			return
		}

		if !policy.HasPermission(role, action, resource) {
			log.Warn().
				Str("role", role).
				Str("action", action).
				Str("resource", resource).
				Str("uid", GetFirebaseUID(c)).
				Msg("Permission denied")
			abort(c, apperr.Forbidden("You do not have permission to "+action+" "+resource))
			return
		}

		c.Next()
	}
}
