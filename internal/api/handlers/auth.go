package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"github.com/playmatatu/duels/internal/admin"
)

const (
	ctxPlayerID = "player_id"
	ctxAdmin    = "admin_name"
	roleAdmin   = "admin"
)

// Claims are issued by the community platform for players and by
// AdminLogin for admins.
type Claims struct {
	PlayerID string `json:"player_id,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// SignToken returns an HS256 token for claims valid for ttl.
func SignToken(secret string, claims Claims, ttl time.Duration) (string, time.Time, error) {
	exp := time.Now().Add(ttl)
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	claims.IssuedAt = jwt.NewNumericDate(time.Now())
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

func parseToken(secret, raw string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	return &claims, nil
}

func bearer(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	// Browsers cannot set headers on a websocket upgrade.
	return c.Query("access_token")
}

// AuthMiddleware validates a player bearer token and sets player_id.
func AuthMiddleware(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		claims, err := parseToken(d.Config.JWTSecret, raw)
		if err != nil || claims.PlayerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxPlayerID, claims.PlayerID)
		c.Next()
	}
}

// AdminMiddleware accepts only tokens issued by AdminLogin.
func AdminMiddleware(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseToken(d.Config.JWTSecret, bearer(c))
		if err != nil || claims.Role != roleAdmin || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
			return
		}
		c.Set(ctxAdmin, claims.Subject)
		c.Next()
	}
}

// AdminLogin exchanges an admin name and token for a bearer JWT.
func AdminLogin(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d.Admin == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin accounts unavailable"})
			return
		}
		var req struct {
			Name  string `json:"name" binding:"required"`
			Token string `json:"token" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and token required"})
			return
		}
		acct, err := d.Admin.Authenticate(c.Request.Context(), req.Name, req.Token)
		if errors.Is(err, admin.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		claims := Claims{Role: roleAdmin, RegisteredClaims: jwt.RegisteredClaims{Subject: acct.Name}}
		token, exp, err := SignToken(d.Config.JWTSecret, claims, d.Config.JWTTTL)
		if err != nil {
			abortWithError(c, d.Log, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": exp.Format(time.RFC3339),
			"admin":      acct,
		})
	}
}
