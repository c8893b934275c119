package middleware

import (
	"context"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/staffhub/candidate-grid/internal/apperr"
	"github.com/staffhub/candidate-grid/internal/model"
)

const (
	// ContextKeyFirebaseUID is the key for the Firebase UID in the Gin context
	ContextKeyFirebaseUID = "firebase_uid"
	// ContextKeyEmail is the verified email, when the token carries one
	ContextKeyEmail = "email"
	// ContextKeyRole is the role used for permission checks
	ContextKeyRole = "role"

	roleClaim = "role"
)

// TokenVerifier checks a bearer token. *auth.Client satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// AuthMiddleware validates Firebase ID tokens and injects the caller into context
type AuthMiddleware struct {
	verifier    TokenVerifier
	defaultRole string
}

// NewAuthMiddleware creates a new Firebase auth middleware. Users whose token
// carries no role claim get defaultRole.
func NewAuthMiddleware(projectID, defaultRole string) (*AuthMiddleware, error) {
	ctx := context.Background()

	var app *firebase.App
	var err error

	if projectID != "" {
		conf := &firebase.Config{ProjectID: projectID}
		app, err = firebase.NewApp(ctx, conf)
	} else {
		// Falls back to GOOGLE_APPLICATION_CREDENTIALS or default credentials
		app, err = firebase.NewApp(ctx, nil, option.WithoutAuthentication())
	}

	if err != nil {
		return nil, err
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}

	return NewAuthMiddlewareWithVerifier(client, defaultRole), nil
}

func NewAuthMiddlewareWithVerifier(v TokenVerifier, defaultRole string) *AuthMiddleware {
	return &AuthMiddleware{verifier: v, defaultRole: defaultRole}
}

// Authenticate is the Gin middleware handler
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperr.Unauthorized("Missing Authorization header"))
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			abort(c, apperr.Unauthorized("Invalid Authorization header format"))
			return
		}

		token, err := am.verifier.VerifyIDToken(c.Request.Context(), parts[1])
		if err != nil {
			log.Warn().Err(err).Msg("Failed to verify Firebase token")
			abort(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		c.Set(ContextKeyFirebaseUID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ContextKeyEmail, email)
		}

		role := am.defaultRole
		if r, ok := token.Claims[roleClaim].(string); ok && r != "" {
			role = r
		}
		c.Set(ContextKeyRole, role)

		c.Next()
	}
}

// GetFirebaseUID extracts the Firebase UID from the Gin context
func GetFirebaseUID(c *gin.Context) string {
	return c.GetString(ContextKeyFirebaseUID)
}

// GetRole returns the caller's role
func GetRole(c *gin.Context) string {
	return c.GetString(ContextKeyRole)
}

// GetActor names the caller in audit columns: email when known, else UID
func GetActor(c *gin.Context) string {
	if email := c.GetString(ContextKeyEmail); email != "" {
		return email
	}
	return GetFirebaseUID(c)
}

// abort writes the error envelope and stops the chain
func abort(c *gin.Context, e *apperr.Error) {
	c.AbortWithStatusJSON(e.Status, model.Response{
		Success: false,
		Title:   e.Title,
		Message: e.Message,
	})
}
