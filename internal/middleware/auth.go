package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const AdminSubjectKey contextKey = "adminSubject"

const (
	// AdminIssuer is the iss claim expected on admin tokens.
	AdminIssuer = "yeschef"
	AdminRole   = "admin"
)

// AdminAuth guards administrative endpoints with HS256 tokens signed by
// secret and carrying role=admin. An empty secret disables the check.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				unauthorized(w, "Invalid Authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
				}
				return []byte(secret), nil
			}, jwt.WithIssuer(AdminIssuer), jwt.WithExpirationRequired())

			if err != nil || !token.Valid {
				slog.Warn("Rejected admin token", "path", r.URL.Path, "error", err)
				unauthorized(w, "Invalid token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				unauthorized(w, "Invalid claims")
				return
			}

			if role, _ := claims["role"].(string); role != AdminRole {
				forbidden(w)
				return
			}

			subject, ok := claims["sub"].(string)
			if !ok || subject == "" {
				unauthorized(w, "Missing sub claim")
				return
			}

			ctx := context.WithValue(r.Context(), AdminSubjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminSubject extracts the admin token subject from request context
func GetAdminSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(AdminSubjectKey).(string)
	return subject, ok
}

func unauthorized(w http.ResponseWriter, reason string) {
	writeError(w, http.StatusUnauthorized, "Unauthorized: "+reason)
}

func forbidden(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, "Forbidden: admin role required")
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"success": false, "error": message})
}
