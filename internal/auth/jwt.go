// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/pulsecrm/pulse-crm/internal/config"
	"github.com/pulsecrm/pulse-crm/internal/core"
	"github.com/pulsecrm/pulse-crm/internal/middleware"
)

const tokenTypeAccess = "access"

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type JWTManager struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	config     config.JWTConfig
	revocation RevocationChecker
	now        func() time.Time
}

func NewJWTManager(cfg config.JWTConfig) (*JWTManager, error) {
	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newJWTManager(privateKey, cfg)
}

// NewJWTManagerFromECDSA builds a manager around an in-memory key.
func NewJWTManagerFromECDSA(
	key *ecdsa.PrivateKey,
	cfg config.JWTConfig,
) (*JWTManager, error) {
	privateKey, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}

	return newJWTManager(privateKey, cfg)
}

func newJWTManager(privateKey jwk.Key, cfg config.JWTConfig) (*JWTManager, error) {
	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	keyID := uuid.New().String()[:8]
	if setErr := privateKey.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return nil, fmt.Errorf("set key id: %w", setErr)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	return &JWTManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		config:     cfg,
		now:        time.Now,
	}, nil
}

// WithRevocation makes VerifyAccessToken reject revoked token ids.
func (m *JWTManager) WithRevocation(checker RevocationChecker) *JWTManager {
	m.revocation = checker
	return m
}

func GenerateKeyPair(privateKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	return nil
}

type AccessTokenClaims struct {
	UserID string
	Role   string
}

type IssuedToken struct {
	Token     string
	TokenID   string
	ExpiresAt time.Time
}

func (m *JWTManager) CreateAccessToken(
	claims AccessTokenClaims,
) (*IssuedToken, error) {
	now := m.now()
	expiresAt := now.Add(m.config.AccessTokenExpire)
	tokenID := uuid.New().String()

	token, err := jwt.NewBuilder().
		JwtID(tokenID).
		Issuer(m.config.Issuer).
		Audience([]string{m.config.Audience}).
		Subject(claims.UserID).
		IssuedAt(now).
		Expiration(expiresAt).
		NotBefore(now).
		Claim("role", claims.Role).
		Claim("type", tokenTypeAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), m.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &IssuedToken{
		Token:     string(signed),
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func (m *JWTManager) VerifyAccessToken(
	ctx context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), m.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithAudience(m.config.Audience),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var role string
	if err := token.Get("role", &role); err != nil || role == "" {
		return nil, fmt.Errorf(
			"verify token: missing role claim: %w",
			core.ErrTokenInvalid,
		)
	}

	tokenID, _ := token.JwtID()
	expiresAt, _ := token.Expiration()

	if m.revocation != nil && tokenID != "" {
		revoked, revErr := m.revocation.IsRevoked(ctx, tokenID)
		if revErr != nil {
			return nil, fmt.Errorf("verify token: %w", revErr)
		}
		if revoked {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
		}
	}

	return &middleware.AccessTokenClaims{
		UserID:    subject,
		Role:      role,
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}, nil
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (m *JWTManager) GetKeyID() string {
	var kid string
	//nolint:errcheck // key ID always set during construction
	_ = m.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}

func (m *JWTManager) TokenLifetime() time.Duration {
	return m.config.AccessTokenExpire
}
