package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/cs4218/cs4218-2520-ecom-project-cs4218-2520-team30-sub000/internal/store"
)

const userIDKey = "userId"

// RequireSignIn rejects requests without a valid token in the Authorization
// header. Both "Bearer <token>" and the bare token are accepted.
func RequireSignIn(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		tokenStr := header
		if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
			tokenStr = strings.TrimSpace(rest)
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Missing authorization token"})
			return
		}
		userID, err := issuer.Verify(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// IsAdmin must run after RequireSignIn.
func IsAdmin(users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Error in admin middleware"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Error in admin middleware",
				"error":   err.Error(),
			})
			return
		}
		if !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "UnAuthorized Access"})
			return
		}
		c.Next()
	}
}

// UserID returns the id RequireSignIn stored on the context.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok
}
