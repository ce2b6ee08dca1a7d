package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyUserID     = "auth_user_id"
	contextKeyEmployeeID = "auth_employee_id"
	contextKeyUserEmail  = "auth_user_email"
)

// RequireAuth verifies the Bearer token and stashes the caller's identity
// in the gin context for downstream handlers.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}
		claims, err := ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(contextKeyUserID, claims.UserID)
		c.Set(contextKeyUserEmail, claims.Email)
		if claims.EmployeeID != nil {
			c.Set(contextKeyEmployeeID, *claims.EmployeeID)
		}
		c.Next()
	}
}

// EmployeeIDFromContext returns the authenticated caller's employee id, or
// nil when the account is not linked to an employee.
func EmployeeIDFromContext(c *gin.Context) *int64 {
	if v, ok := c.Get(contextKeyEmployeeID); ok {
		if id, ok := v.(int64); ok {
			return &id
		}
	}
	return nil
}

// UserEmailFromContext returns the authenticated caller's email, or "".
func UserEmailFromContext(c *gin.Context) string {
	if v, ok := c.Get(contextKeyUserEmail); ok {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
