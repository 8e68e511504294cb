package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/kquest/marketplace-core/internal/domain"
)

const (
	// AUTH_ADDRESS_KEY is the gin context key holding the caller's wallet address
	AUTH_ADDRESS_KEY = "auth_address"
	// JWT_CLAIMS_KEY is the gin context key holding the parsed claims
	JWT_CLAIMS_KEY = "jwt_claims"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// JWTSecret is the HMAC secret the session issuer signs tokens with
	JWTSecret string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success bool
	// Address is the wallet address carried in the token subject
	Address string
	Claims  *jwt.RegisteredClaims
	Error   error
}

// Authenticate validates the Authorization header and extracts the
// caller's wallet address from the token subject. Session issuance
// happens outside this service; only validation lives here.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	result := AuthResult{Success: false}

	if authHeader == "" {
		result.Error = errors.New("missing Authorization header")
		return result
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		result.Error = errors.New("invalid Authorization header format")
		return result
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		result.Error = fmt.Errorf("invalid token: %w", err)
		return result
	}
	if !token.Valid {
		result.Error = errors.New("invalid token")
		return result
	}

	if !domain.ValidAddress(claims.Subject) {
		result.Error = errors.New("token subject is not a wallet address")
		return result
	}

	result.Success = true
	result.Claims = claims
	result.Address = domain.NormalizeAddress(claims.Subject)
	return result
}

// Auth returns a middleware that rejects requests without a valid session token
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if !result.Success {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": result.Error.Error(),
				},
			})
			return
		}

		c.Set(AUTH_ADDRESS_KEY, result.Address)
		c.Set(JWT_CLAIMS_KEY, result.Claims)
		c.Next()
	}
}

// CallerAddress returns the authenticated wallet address, empty when unauthenticated
func CallerAddress(c *gin.Context) string {
	address, _ := c.Get(AUTH_ADDRESS_KEY)
	if s, ok := address.(string); ok {
		return s
	}
	return ""
}
