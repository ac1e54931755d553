// middleware/jwt_middleware.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/WenderAlvesSantos/api-aecac/security"
	"github.com/WenderAlvesSantos/api-aecac/services"
)

// Context keys set by the auth middleware.
const (
	tokenKey    = "user"
	identityKey = "identity"
)

const (
	msgTokenMissing = "Token não fornecido"
	msgTokenInvalid = "Token inválido"
)

// Resolver turns the account id of a verified token into an identity.
type Resolver interface {
	Resolve(ctx context.Context, accountID string) (services.Identity, error)
}

// Verifier checks a raw token outside the echo JWT middleware.
type Verifier interface {
	Verify(token string) (string, error)
}

// Auth builds the authentication middlewares of the API.
type Auth struct {
	secret   []byte
	verifier Verifier
	resolver Resolver
	log      *zap.Logger
}

func NewAuth(secret []byte, verifier Verifier, resolver Resolver, log *zap.Logger) *Auth {
	return &Auth{secret: secret, verifier: verifier, resolver: resolver, log: log}
}

// Required rejects requests without a valid bearer token, or whose token no
// longer names an existing account, and stores the caller's identity in the context.
func (a *Auth) Required() echo.MiddlewareFunc {
	jwtMiddleware := echoMiddleware.JWTWithConfig(echoMiddleware.JWTConfig{
		SigningKey:    a.secret,
		SigningMethod: echoMiddleware.AlgorithmHS256,
		Claims:        &security.Claims{},
		ContextKey:    tokenKey,
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			if strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenMissing)
			}
			return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(func(c echo.Context) error {
			token, ok := c.Get(tokenKey).(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			}
			claims, ok := token.Claims.(*security.Claims)
			if !ok || claims.UserID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			}
			if err := a.resolve(c, claims.UserID); err != nil {
				return err
			}
			// The account behind the token may have been deleted since it was issued.
			if _, unknown := IdentityFrom(c).(services.UnknownIdentity); unknown {
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenInvalid)
			}
			return next(c)
		})
	}
}

// Optional resolves the identity when a valid bearer token is present and
// lets every other request through as anonymous.
func (a *Auth) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if raw == "" {
				c.Set(identityKey, services.UnknownIdentity{})
				return next(c)
			}
			accountID, err := a.verifier.Verify(raw)
			if err != nil {
				c.Set(identityKey, services.UnknownIdentity{})
				return next(c)
			}
			if err := a.resolve(c, accountID); err != nil {
				return err
			}
			return next(c)
		}
	}
}

func (a *Auth) resolve(c echo.Context, accountID string) error {
	who, err := a.resolver.Resolve(c.Request().Context(), accountID)
	if err != nil {
		a.log.Error("failed to resolve identity", zap.String("account", accountID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Erro ao validar token")
	}
	c.Set(identityKey, who)
	return nil
}

// AccountFromToken verifies a raw token and returns the account id, for
// callers outside the HTTP middleware chain such as the websocket handshake.
func (a *Auth) AccountFromToken(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	accountID, err := a.verifier.Verify(raw)
	if err != nil {
		return "", false
	}
	return accountID, true
}

// BearerToken strips the "Bearer " scheme from an Authorization header.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// IdentityFrom returns the identity stored by Required or Optional.
func IdentityFrom(c echo.Context) services.Identity {
	if who, ok := c.Get(identityKey).(services.Identity); ok && who != nil {
		return who
	}
	return services.UnknownIdentity{}
}
