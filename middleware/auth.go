package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middlewares.
const (
	CtxUserID      = "user_id"
	CtxUserUUID    = "user_uuid"
	CtxIsAnonymous = "is_anonymous"
	CtxClaims      = "claims"
)

func parseToken(c *gin.Context) (jwt.MapClaims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errors.New("missing authorization header")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return nil, errors.New("invalid authorization header")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	userID, _ := claims["user_id"].(float64)
	userUUID, _ := claims["uuid"].(string)
	isAnonymous, _ := claims["is_anonymous"].(bool)

	c.Set(CtxUserID, uint(userID))
	c.Set(CtxUserUUID, userUUID)
	c.Set(CtxIsAnonymous, isAnonymous)
	c.Set(CtxClaims, claims)
}

// AuthMiddleware rejects requests without a valid session token. Both full
// accounts and anonymous sessions pass.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		setIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth sets identity when a valid token is present and lets the
// request through either way. Click tracking runs on this: callers can be
// anonymous, fully registered, or carry no session at all.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseToken(c); err == nil {
			setIdentity(c, claims)
		}
		c.Next()
	}
}

// RequireFullAccount rejects anonymous sessions. Must run after
// AuthMiddleware.
func RequireFullAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(CtxIsAnonymous) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Full authentication required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
