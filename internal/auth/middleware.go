package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
	pkgauth "github.com/trackboard/trackboard/pkg/auth"
)

// HashToken creates a SHA-256 hash of the token
func HashToken(token string) string {
	h := sha256.New()
	h.Write([]byte(token))
	return hex.EncodeToString(h.Sum(nil))
}

// AuthMiddleware validates either a JWT session token or an API token.
// JWT is tried first; anything that does not parse as a session token
// falls through to the API-token path.
func AuthMiddleware(db *database.Database, jwtManager *pkgauth.JWTManager, requiredScopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Try X-API-Key header as fallback
			authHeader = c.GetHeader("X-API-Key")
		}

		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Missing authentication token",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		token = strings.TrimSpace(token)

		if jwtManager != nil {
			if claims, err := jwtManager.Verify(token); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("username", claims.Username)
				c.Set("user_role", claims.Role)
				c.Set("is_admin", claims.Role == string(models.UserRoleAdmin))
				c.Set("scopes", "*")
				c.Next()
				return
			}
		}

		// Admin token from environment bypasses the database
		adminToken := os.Getenv("ADMIN_API_TOKEN")
		if adminToken != "" && token == adminToken {
			c.Set("is_admin", true)
			c.Set("scopes", "*")
			c.Next()
			return
		}

		var apiToken models.APIToken
		tokenHash := HashToken(token)
		err := db.Where("token_hash = ?", tokenHash).First(&apiToken).Error
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			c.Abort()
			return
		}

		if !apiToken.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token is inactive or expired",
			})
			c.Abort()
			return
		}

		for _, scope := range requiredScopes {
			if !apiToken.HasScope(scope) {
				c.JSON(http.StatusForbidden, gin.H{
					"success":        false,
					"error":          "Insufficient permissions",
					"required_scope": scope,
				})
				c.Abort()
				return
			}
		}

		now := time.Now()
		apiToken.LastUsed = &now
		db.Save(&apiToken)

		c.Set("token_id", apiToken.ID)
		c.Set("scopes", apiToken.Scopes)
		c.Set("is_admin", apiToken.HasScope("admin"))

		c.Next()
	}
}

// AdminOnly ensures only admin sessions or tokens can access
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get("is_admin")
		if !exists || !isAdmin.(bool) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Admin access required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
