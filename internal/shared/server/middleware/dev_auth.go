package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"storefront-backend/internal/shared/server/respond"
)

// DevSubjectKey holds the verified token subject for dev routes.
const DevSubjectKey = "devSubject"

// RequireDevToken guards dev routes with an HS256 bearer token signed with
// secret. An empty secret disables the check.
func RequireDevToken(secret string) gin.HandlerFunc {
	key := []byte(strings.TrimSpace(secret))
	return func(c *gin.Context) {
		if len(key) == 0 {
			c.Next()
			return
		}

		raw, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}

		claims := jwt.RegisteredClaims{}
		_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		c.Set(DevSubjectKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
