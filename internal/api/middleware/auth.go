// Package middleware holds the HTTP middleware of the API: authentication,
// role gates, trace IDs and request spans.
package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/redact"
	"github.com/phrazzld/taskboard-api/internal/service"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// basicRealm is announced on failed basic authentication.
const basicRealm = `Basic realm="taskboard"`

// AuthMiddleware authenticates requests with a bearer JWT or, as a fallback,
// HTTP basic credentials.
type AuthMiddleware struct {
	jwtService  auth.JWTService
	authService service.AuthService
	logger      *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	authService service.AuthService,
	logger *slog.Logger,
) *AuthMiddleware {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService:  jwtService,
		authService: authService,
		logger:      logger.With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate resolves the caller from the Authorization header and stores
// it in the request context. Bearer tokens only carry the user id that is
// trusted; roles are reloaded so that revoked roles and deleted users take
// effect before the token expires.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		var (
			principal domain.Principal
			ok        bool
		)
		scheme, credentials, _ := strings.Cut(header, " ")
		switch strings.ToLower(scheme) {
		case "bearer":
			principal, ok = m.bearer(w, r, strings.TrimSpace(credentials))
		case "basic":
			principal, ok = m.basic(w, r)
		default:
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		if !ok {
			return
		}

		ctx := shared.WithPrincipal(r.Context(), principal)
		log := logger.FromContextOrDefault(ctx, m.logger).With(slog.Int64("user_id", principal.UserID))
		ctx = logger.WithLogger(ctx, log)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) bearer(w http.ResponseWriter, r *http.Request, token string) (domain.Principal, bool) {
	if token == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return domain.Principal{}, false
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
		case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		default:
			m.logger.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return domain.Principal{}, false
	}

	principal, err := m.authService.PrincipalFor(r.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		} else {
			m.logger.Error("failed to load token principal", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
		}
		return domain.Principal{}, false
	}
	return principal, true
}

func (m *AuthMiddleware) basic(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	email, password, ok := r.BasicAuth()
	if !ok {
		w.Header().Set("WWW-Authenticate", basicRealm)
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
		return domain.Principal{}, false
	}

	principal, err := m.authService.Authenticate(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			w.Header().Set("WWW-Authenticate", basicRealm)
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
		} else {
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
		}
		return domain.Principal{}, false
	}
	return principal, true
}

// RequireRole admits callers holding at least one of roles. It must run
// after Authenticate.
func RequireRole(roles ...domain.RoleName) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := shared.PrincipalFromContext(r.Context())
			if !ok {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if p.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.FromContextOrDefault(r.Context(), slog.Default()).Debug("role check failed",
				slog.String("path", r.URL.Path),
				slog.Any("required", roles))
			shared.RespondWithError(w, r, http.StatusForbidden, "Insufficient permissions")
		})
	}
}
