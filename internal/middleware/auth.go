// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
	ClaimsKey   contextKey = "jwt_claims"
)

const (
	RoleAdmin          = "ADMIN"
	RoleManager        = "MANAGER"
	RoleSalesExecutive = "SALES_EXECUTIVE"
)

type TokenVerifier interface {
	VerifyAccessToken(
		ctx context.Context,
		token string,
	) (*AccessTokenClaims, error)
}

// AccessTokenClaims is the identity re-derived from a verified token.
type AccessTokenClaims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Authorize is the access gate: nil when the identity's role is in allowed.
func Authorize(claims *AccessTokenClaims, allowed ...string) error {
	if claims == nil || claims.UserID == "" {
		return fmt.Errorf("authorize: %w", core.ErrUnauthorized)
	}

	for _, role := range allowed {
		if claims.Role == role {
			return nil
		}
	}

	return fmt.Errorf("authorize: role %q: %w", claims.Role, core.ErrForbidden)
}

func Authenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authenticate(verifier, ExtractToken)
}

// QueryAuthenticator also accepts ?token=, for clients such as browsers
// opening a WebSocket that cannot set an Authorization header.
func QueryAuthenticator(verifier TokenVerifier) func(http.Handler) http.Handler {
	return authenticate(verifier, func(r *http.Request) string {
		if token := ExtractToken(r); token != "" {
			return token
		}
		return strings.TrimSpace(r.URL.Query().Get("token"))
	})
}

func authenticate(
	verifier TokenVerifier,
	extract func(*http.Request) string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extract(r)

			if token == "" {
				core.JSONError(
					w,
					core.UnauthorizedError("not authorized, no token"),
				)
				return
			}

			claims, err := verifier.VerifyAccessToken(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func WithClaims(ctx context.Context, claims *AccessTokenClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, UserRoleKey, claims.Role)
	ctx = context.WithValue(ctx, ClaimsKey, claims)
	return ctx
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := Authorize(GetClaims(r.Context()), roles...)

			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, core.ErrUnauthorized):
				core.JSONError(
					w,
					core.UnauthorizedError("authentication required"),
				)
			default:
				core.JSONError(
					w,
					core.ForbiddenError(
						"you do not have permission for this action",
					),
				)
			}
		})
	}
}

// RequireStaff admits administrators and managers.
func RequireStaff(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin, RoleManager)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func GetClaims(ctx context.Context) *AccessTokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*AccessTokenClaims); ok {
		return claims
	}
	return nil
}
