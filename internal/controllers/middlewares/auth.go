package middlewares

import (
	"net/http"

	"github.com/fsdevblog/shortkeep/internal/models"
	"github.com/fsdevblog/shortkeep/internal/tokens"
	"github.com/gin-gonic/gin"
)

// Ключи контекста и имена сессионных кук.
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"

	AccessCookieName  = "access_token"
	RefreshCookieName = "refresh_token"
)

// AuthMiddleware проверяет access куку и кладет идентификатор и роль
// пользователя в контекст gin. Отсутствующий, битый и просроченный токен
// снаружи неотличимы — всегда 401.
func AuthMiddleware(accessSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(AccessCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, validateErr := tokens.ValidateSessionJWT(cookie, accessSecret)
		if validateErr != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UserRoleKey, claims.Role)
		c.Next()
	}
}

// AdminMiddleware пускает дальше только роль admin. Вешается после
// AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(UserRoleKey)
		if !ok || role.(models.Role) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

// CurrentUserID достает идентификатор пользователя из контекста.
func CurrentUserID(c *gin.Context) uint {
	id, _ := c.Get(UserIDKey)
	userID, _ := id.(uint)
	return userID
}
