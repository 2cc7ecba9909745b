package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key carrying the authenticated user id.
const UserIDKey = "userID"

// Claims are the access-token claims issued by the auth service.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Auth validates the bearer token and stores the acting user id in the
// request context. Missing and invalid tokens are reported the way the
// auth service does, so clients see one consistent surface.
func Auth(secret string, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not Authenticated!"})
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid {
			log.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token is not Valid!"})
			return
		}

		userID := claims.UserID
		if userID == "" {
			userID = claims.Subject
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Token is not Valid!"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
