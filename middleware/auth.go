package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"Mandi/Models"
)

const (
	CookieName = "jwt"
	localsUser = "user"
)

type UserSource interface {
	GetUser(ctx context.Context, id uint) (*Models.User, error)
}

// Auth issues and checks the session token. The token is a signed JWT whose
// issuer claim carries the user id.
type Auth struct {
	secret []byte
	users  UserSource
	ttl    time.Duration
}

func NewAuth(secret string, users UserSource) *Auth {
	return &Auth{secret: []byte(secret), users: users, ttl: 24 * time.Hour}
}

// Issue returns a signed token for the user and its expiry.
func (a *Auth) Issue(userID uint, now time.Time) (string, time.Time, error) {
	expires := now.Add(a.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	return token, expires, err
}

// Cookie wraps a token for the login response.
func (a *Auth) Cookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  expires,
		HTTPOnly: true,
		SameSite: "Lax",
	}
}

func (a *Auth) parse(raw string) (uint, error) {
	token, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}
	id, err := strconv.ParseUint(claims.Issuer, 10, 64)
	if err != nil {
		return 0, errors.New("invalid token issuer")
	}
	return uint(id), nil
}

// token reads the cookie, falling back to a bearer header for mobile clients.
func token(c *fiber.Ctx) string {
	if cookie := c.Cookies(CookieName); cookie != "" {
		return cookie
	}
	if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

// Verify admits users whose permission level is at least required.
func (a *Auth) Verify(required int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := token(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not Logged In.",
			})
		}

		id, err := a.parse(raw)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		user, err := a.users.GetUser(c.UserContext(), id)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		c.Locals(localsUser, *user)

		if user.Permission < required || user.Permission < Models.PermViewer {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions to access this resource",
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the user set by Verify.
func CurrentUser(c *fiber.Ctx) (Models.User, bool) {
	user, ok := c.Locals(localsUser).(Models.User)
	return user, ok
}

// UserID is the id of the current user, zero when anonymous.
func UserID(c *fiber.Ctx) uint {
	if user, ok := CurrentUser(c); ok {
		return user.ID
	}
	return 0
}
