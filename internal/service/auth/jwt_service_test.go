package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/phrazzld/taskboard-api/internal/config"
	"github.com/phrazzld/taskboard-api/internal/domain"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60, BCryptCost: bcrypt.MinCost}
}

func newTestService(t *testing.T, now func() time.Time) JWTService {
	t.Helper()
	svc, err := NewJWTService(testConfig(), WithClock(now))
	require.NoError(t, err)
	return svc
}

var testPrincipal = domain.Principal{
	UserID: 42,
	Email:  "ada@example.com",
	Roles:  []domain.RoleName{domain.RoleAdmin, domain.RoleUser},
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)

	_, err = NewJWTService(testConfig())
	assert.NoError(t, err)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return fixedTime })

	token, expiresAt, err := svc.GenerateToken(context.Background(), testPrincipal)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(time.Hour), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, testPrincipal, claims.Principal())
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, func() time.Time { return issued })
	token, _, err := issuer.GenerateToken(context.Background(), testPrincipal)
	require.NoError(t, err)

	tests := []struct {
		name    string
		at      time.Time
		token   string
		wantErr error
	}{
		{name: "valid within lifetime", at: issued.Add(30 * time.Minute), token: token},
		{name: "valid within leeway after expiry", at: issued.Add(61 * time.Minute), token: token},
		{name: "expired", at: issued.Add(2 * time.Hour), token: token, wantErr: ErrExpiredToken},
		{name: "issued in the future", at: issued.Add(-10 * time.Minute), token: token, wantErr: ErrTokenNotYetValid},
		{name: "malformed", at: issued, token: "not-a-jwt", wantErr: ErrInvalidToken},
		{name: "tampered", at: issued, token: token + "x", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t, func() time.Time { return tt.at })
			claims, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), claims.UserID)
		})
	}
}

func TestValidateTokenRejectsForeignTokens(t *testing.T) {
	t.Parallel()

	now := time.Now()
	svc := newTestService(t, time.Now)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-that-is-long-enough-too"
	other, err := NewJWTService(otherCfg)
	require.NoError(t, err)
	foreign, _, err := other.GenerateToken(context.Background(), testPrincipal)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})
	signed, err := noUser.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtCustomClaims{UserID: 1})
	signed, err = noExpiry.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwtCustomClaims{UserID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasherAndVerifier(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	digest, err := hasher.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", digest)

	assert.NoError(t, verifier.Compare(digest, "s3cret"))
	assert.ErrorIs(t, verifier.Compare(digest, "wrong"), bcrypt.ErrMismatchedHashAndPassword)

	cost, err := bcrypt.Cost([]byte(digest))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
}
