// Package http implements the admin HTTP surface of the session keeper:
// middleware, route handlers, and request/response utilities. Tracing and
// authentication concerns are handled at this layer before requests reach
// the session manager.
package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-session-keeper/internal/logger"
	"github.com/MKhiriev/go-session-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces JWT bearer authentication on the
// admin API.
//
// When no token sign key is configured the middleware is a pass-through —
// appropriate only when the server listens on a loopback address. With a
// key configured it extracts the bearer token from the "Authorization"
// header and validates signature, issuer, and expiry via
// [utils.ValidateAdminToken], rejecting with 401 on any failure.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.cfg.TokenSignKey == "" {
			next.ServeHTTP(w, r)
			return
		}

		log := logger.FromRequest(r)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Err(ErrEmptyAuthorizationHeader).Send()
			http.Error(w, ErrEmptyAuthorizationHeader.Error(), http.StatusUnauthorized)
			return
		}

		tokenString, err := getTokenFromAuthHeader(authHeader)
		if err != nil {
			log.Err(err).Send()
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		subject, err := utils.ValidateAdminToken(tokenString, h.cfg.TokenSignKey, h.cfg.TokenIssuer)
		if err != nil {
			log.Err(err).Msg("token rejected")
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		log.Debug().Str("subject", subject).Msg("request authorized")
		next.ServeHTTP(w, r)
	})
}

// getTokenFromAuthHeader extracts the token value from a "Bearer <token>"
// header.
func getTokenFromAuthHeader(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidAuthorizationHeader
	}
	if parts[1] == "" {
		return "", ErrEmptyToken
	}
	return parts[1], nil
}
