package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"Mandi/Models"
)

type users map[uint]Models.User

func (u users) GetUser(_ context.Context, id uint) (*Models.User, error) {
	user, ok := u[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &user, nil
}

func testApp(auth *Auth) *fiber.App {
	app := fiber.New()
	app.Get("/me", auth.Verify(Models.PermViewer), func(c *fiber.Ctx) error {
		user, _ := CurrentUser(c)
		return c.JSON(fiber.Map{"id": UserID(c), "name": user.Name})
	})
	app.Delete("/admin", auth.Verify(Models.PermAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func TestVerify(t *testing.T) {
	auth := NewAuth("0123456789abcdef", users{
		1: {Model: gorm.Model{ID: 1}, Name: "Munim", Permission: Models.PermClerk},
		2: {Model: gorm.Model{ID: 2}, Name: "Owner", Permission: Models.PermAdmin},
	})
	app := testApp(auth)

	clerk, _, err := auth.Issue(1, time.Now())
	require.NoError(t, err)
	owner, _, err := auth.Issue(2, time.Now())
	require.NoError(t, err)
	ghost, _, err := auth.Issue(9, time.Now())
	require.NoError(t, err)
	expired, _, err := auth.Issue(1, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	forged, _, err := NewAuth("another-secret-value", nil).Issue(2, time.Now())
	require.NoError(t, err)

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		bearer bool
		want   int
	}{
		{"no token", http.MethodGet, "/me", "", false, fiber.StatusUnauthorized},
		{"clerk reads", http.MethodGet, "/me", clerk, false, fiber.StatusOK},
		{"bearer header", http.MethodGet, "/me", clerk, true, fiber.StatusOK},
		{"clerk cannot delete", http.MethodDelete, "/admin", clerk, false, fiber.StatusForbidden},
		{"admin deletes", http.MethodDelete, "/admin", owner, false, fiber.StatusNoContent},
		{"unknown user", http.MethodGet, "/me", ghost, false, fiber.StatusUnauthorized},
		{"expired", http.MethodGet, "/me", expired, false, fiber.StatusUnauthorized},
		{"wrong secret", http.MethodGet, "/me", forged, false, fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				if tc.bearer {
					req.Header.Set("Authorization", "Bearer "+tc.token)
				} else {
					req.AddCookie(&http.Cookie{Name: CookieName, Value: tc.token})
				}
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestVerifySetsUser(t *testing.T) {
	auth := NewAuth("0123456789abcdef", users{5: {Model: gorm.Model{ID: 5}, Name: "Munim", Permission: Models.PermViewer}})
	token, expires, err := auth.Issue(5, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expires, time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	resp, err := testApp(auth).Test(req)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(5), body["id"])
	assert.Equal(t, "Munim", body["name"])
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestLogger(LogConfig{Logger: zerolog.New(&buf), SkipPaths: []string{"/healthz"}}))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("up") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ok", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "req-42", resp.Header.Get(HeaderRequestID))

	_, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first, second map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "info", first["level"])
	assert.Equal(t, "/ok", first["path"])
	assert.Equal(t, float64(200), first["status"])
	assert.Equal(t, "error", second["level"])
	assert.Equal(t, "req-42", second["request_id"])
	assert.Equal(t, "upstream", second["error"])
}
