package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/token"
)

const (
	PrincipalKey = "auth_principal"
)

// Principal is the authenticated caller for one request. Handlers read it
// from the gin context; nothing about the caller is kept anywhere else.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   models.Role
}

func (p Principal) IsCoach() bool  { return p.Role == models.RoleCoach }
func (p Principal) IsPlayer() bool { return p.Role == models.RolePlayer }

// AuthMiddleware validates the bearer token and loads the caller's row so a
// deleted user or a changed role takes effect immediately.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			responses.Unauthorized(c, "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			responses.Unauthorized(c, "Invalid Authorization header format. Expected: Bearer <token>")
			return
		}

		claims, err := token.ValidateJWT(strings.TrimSpace(parts[1]), jwtSecret)
		if err != nil {
			responses.Unauthorized(c, "Could not validate credentials")
			return
		}

		var user models.User
		if err := db.WithContext(c.Request.Context()).
			Select("id", "email", "name", "role").
			First(&user, "id = ?", claims.UserID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logging.Ctx(c.Request.Context()).Error().Err(err).Msg("auth user lookup failed")
			}
			responses.Unauthorized(c, "Could not validate credentials")
			return
		}

		p := Principal{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}
		c.Set(PrincipalKey, p)

		ctx := c.Request.Context()
		reqLogger := logging.LoggerFromContext(ctx).With().Str("user_id", p.UserID).Logger()
		c.Request = c.Request.WithContext(logging.ContextWithLogger(ctx, reqLogger))
		c.Next()
	}
}

// CurrentPrincipal returns the caller set by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// RequireRole rejects callers whose role is not listed. It must run after AuthMiddleware.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			responses.Unauthorized(c, "")
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		responses.Forbidden(c, "Only "+strings.ToLower(joinRoles(roles))+" accounts can do this")
	}
}

func joinRoles(roles []models.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}
