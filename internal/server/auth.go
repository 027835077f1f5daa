// File: internal/server/auth.go
package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AdminRole is the role claim a bearer token must carry to use the report API.
const AdminRole = "admin"

var errMissingToken = errors.New("missing bearer token")

// AdminClaims are the claims accepted on report API tokens.
type AdminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAdminToken returns middleware that only lets through requests with
// an unexpired HS256 bearer token signed with secret and carrying the admin role.
func RequireAdminToken(secret []byte, logger *zap.Logger) func(http.Handler) http.Handler {
	log := logger.Named("auth")
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	keyFunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(parser, keyFunc, r)
			if err != nil {
				log.Debug("Rejected report API request", zap.String("remote", r.RemoteAddr), zap.Error(err))
				writeError(w, log, http.StatusUnauthorized, "unauthorized", err.Error())
				return
			}
			if claims.Role != AdminRole {
				writeError(w, log, http.StatusForbidden, "forbidden", "administrator role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(parser *jwt.Parser, keyFunc jwt.Keyfunc, r *http.Request) (*AdminClaims, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errMissingToken
	}

	claims := &AdminClaims{}
	if _, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, keyFunc); err != nil {
		return nil, err
	}
	return claims, nil
}
