package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service/auth"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// AuthService verifies credentials and issues tokens.
type AuthService interface {
	// Login checks the credentials and returns a signed token.
	// Returns ErrInvalidCredentials for an unknown email or a wrong password.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Authenticate checks the credentials and returns the caller they identify.
	Authenticate(ctx context.Context, email, password string) (domain.Principal, error)

	// PrincipalFor loads the current roles of the user with the given id.
	PrincipalFor(ctx context.Context, userID int64) (domain.Principal, error)
}

type authService struct {
	users    store.UserStore
	jwt      auth.JWTService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

var _ AuthService = (*authService)(nil)

// NewAuthService creates an AuthService.
func NewAuthService(
	users store.UserStore,
	jwt auth.JWTService,
	verifier auth.PasswordVerifier,
	logger *slog.Logger,
) AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &authService{
		users:    users,
		jwt:      jwt,
		verifier: verifier,
		logger:   logger.With("component", "auth_service"),
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	principal, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.jwt.GenerateToken(ctx, principal)
	if err != nil {
		return nil, wrap("auth", "login", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user logged in", slog.Int64("user_id", principal.UserID))
	return &LoginResult{Token: token, UserID: principal.UserID, ExpiresAt: expiresAt}, nil
}

func (s *authService) Authenticate(ctx context.Context, email, password string) (domain.Principal, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("authentication failed: unknown email")
			return domain.Principal{}, ErrInvalidCredentials
		}
		return domain.Principal{}, wrap("auth", "authenticate", err)
	}

	if err := s.verifier.Compare(user.PasswordDigest, password); err != nil {
		log.Debug("authentication failed: password mismatch", slog.Int64("user_id", user.ID))
		return domain.Principal{}, ErrInvalidCredentials
	}
	return user.Principal(), nil
}

func (s *authService) PrincipalFor(ctx context.Context, userID int64) (domain.Principal, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return domain.Principal{}, wrap("auth", "principal", err)
	}
	return user.Principal(), nil
}
