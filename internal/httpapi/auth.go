package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the claims in the admin JWT token
type JWTClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// adminEnabled reports whether the admin surface is configured at all.
func (r *Router) adminEnabled() bool {
	return r.cfg.AdminAPIKey != "" && r.cfg.JWTSecret != ""
}

// handleIssueToken exchanges the admin api key for a short-lived JWT.
func (r *Router) handleIssueToken(w http.ResponseWriter, req *http.Request) {
	if !r.adminEnabled() {
		writeError(w, http.StatusNotFound, errTagInvalidRequest, "admin access is not configured")
		return
	}

	var body struct {
		APIKey string `json:"api_key"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, errTagInvalidRequest, "invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(body.APIKey), []byte(r.cfg.AdminAPIKey)) != 1 {
		writeError(w, http.StatusUnauthorized, errTagInvalidRequest, "invalid api key")
		return
	}

	token, expiresAt, err := r.generateJWT()
	if err != nil {
		r.logger.Printf("auth: token generation failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": expiresAt,
	})
}

// withAuth is middleware that requires a valid admin JWT.
func (r *Router) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if !r.adminEnabled() {
			writeError(w, http.StatusNotFound, errTagInvalidRequest, "admin access is not configured")
			return
		}

		authHeader := req.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, errTagInvalidRequest, "missing authorization header")
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			writeError(w, http.StatusUnauthorized, errTagInvalidRequest, "invalid authorization format")
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(r.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, errTagInvalidRequest, "invalid token")
			return
		}

		claims, ok := token.Claims.(*JWTClaims)
		if !ok || claims.Role != "admin" {
			writeError(w, http.StatusUnauthorized, errTagInvalidRequest, "invalid token claims")
			return
		}

		next.ServeHTTP(w, req)
	}
}

// generateJWT creates a new admin token.
func (r *Router) generateJWT() (string, time.Time, error) {
	expiry := r.cfg.JWTExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	expiresAt := time.Now().Add(expiry)

	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		Role: "admin",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(r.cfg.JWTSecret))
	return signed, expiresAt, err
}
