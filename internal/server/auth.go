package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/parchment-games/hexcrawl/internal/config"
	"github.com/parchment-games/hexcrawl/pkg/logger"
	"github.com/parchment-games/hexcrawl/pkg/models"
)

// JWTValidator handles JWT token validation
type JWTValidator struct {
	config *config.Config
	redis  *redis.Client
	ctx    context.Context
}

// Claims represents JWT token claims issued to campaign members
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"` // "gm" or "player"
	jwt.RegisteredClaims
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(cfg *config.Config, redisClient *redis.Client) (*JWTValidator, error) {
	if cfg.Auth.Secret == "" {
		return nil, fmt.Errorf("auth secret is not configured")
	}
	return &JWTValidator{
		config: cfg,
		redis:  redisClient,
		ctx:    context.Background(),
	}, nil
}

// ValidateToken validates a JWT token and returns member information
func (v *JWTValidator) ValidateToken(tokenString string) (*models.Member, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.Auth.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if v.config.Auth.Issuer != "" && claims.Issuer != v.config.Auth.Issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.config.Auth.Issuer, claims.Issuer)
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("token expired")
	}

	role := models.Role(claims.Role)
	if role != models.RoleGM && role != models.RolePlayer {
		return nil, fmt.Errorf("unknown role %q", claims.Role)
	}

	// Check the revocation list; a Redis outage must not lock everyone out
	revokedKey := v.config.Redis.RevokedPrefix + claims.Subject
	revoked, err := v.redis.Exists(v.ctx, revokedKey).Result()
	if err != nil {
		logger.Log.WithError(err).Warn("Failed to check token revocation list")
	} else if revoked > 0 {
		return nil, fmt.Errorf("token is revoked")
	}

	return &models.Member{
		ID:   claims.Subject,
		Name: claims.Name,
		Role: role,
	}, nil
}

// extractTokenFromHeader extracts a JWT token from a WebSocket upgrade request
func extractTokenFromHeader(r *http.Request) string {
	// Try Sec-WebSocket-Protocol header first (recommended)
	// Format: "access_token, <token>"
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		var parts []string
		for _, p := range strings.Split(protocols, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 2 && parts[0] == "access_token" {
			return parts[1]
		}
	}

	// Try Authorization header
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return auth[len("Bearer "):]
	}

	// Try query parameter (less secure, but supported)
	return r.URL.Query().Get("token")
}
