package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mealdelivery/internal/core/domain/model/account"
	"mealdelivery/internal/core/domain/model/kernel"
	"mealdelivery/internal/generated/servers"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

var (
	// ErrMalformedAuthorization is returned by Resolve for a header that is
	// not "Bearer <token>".
	ErrMalformedAuthorization = errors.New("authorization header must be a bearer token")

	// ErrInvalidToken is returned by Resolve for a token with a bad
	// signature, an expired lifetime, or unusable claims.
	ErrInvalidToken = errors.New("bearer token is invalid")
)

// Claims carries the account identity in "sub" and its role in "role".
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens issued by the identity service.
type Authenticator struct {
	secret []byte
}

// NewAuthenticator verifies tokens signed with secret.
func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Resolve maps an Authorization header to an actor. An empty header is the
// anonymous actor; anything unverifiable is an error.
func (a *Authenticator) Resolve(header string) (account.Actor, error) {
	if header == "" {
		return account.Anonymous(), nil
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(raw) == "" {
		return account.Actor{}, ErrMalformedAuthorization
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return account.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return account.Actor{}, fmt.Errorf("%w: subject: %w", ErrInvalidToken, err)
	}
	role, err := account.ParseRole(claims.Role)
	if err != nil {
		return account.Actor{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return account.NewActor(id, role)
}

// Issue signs a token for the given account. The service itself never
// issues tokens; this exists for tooling and tests.
func (a *Authenticator) Issue(id kernel.UUID, role account.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Middleware stores the resolved actor on the echo context of API requests.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().URL.Path, apiPrefix) {
				return next(c)
			}

			actor, err := a.Resolve(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, servers.Error{
					Code:    http.StatusUnauthorized,
					Message: "Invalid bearer token",
				})
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) account.Actor {
	if actor, ok := c.Get(actorContextKey).(account.Actor); ok {
		return actor
	}
	return account.Anonymous()
}
