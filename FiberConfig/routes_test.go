package FiberConfig

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"Mandi/Cache"
	"Mandi/Events"
	"Mandi/Models"
	"Mandi/Notifications"
	"Mandi/Services"
	"Mandi/Store"
	"Mandi/middleware"
)

func newTestApp(t *testing.T) (*fiber.App, *middleware.Auth, map[int]uint) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, Models.Migrate(db))

	store := Store.New(db, Models.SystemSettings{
		CommissionKisanRate:        decimal.RequireFromString("0.02"),
		CommissionVyapariRatePerKg: decimal.RequireFromString("0.40"),
		MandiName:                  "Test Mandi",
	})
	svc := Services.NewLedgerService(store, Cache.NewMemory(16, time.Minute), Events.Noop{}, Notifications.Noop{}, Services.Options{
		LargeTransactionThreshold: decimal.NewFromInt(100000),
		Logger:                    zerolog.Nop(),
	})

	users := map[int]uint{}
	for _, perm := range []int{Models.PermViewer, Models.PermClerk, Models.PermAdmin} {
		u := Models.User{Name: "User", Email: "user" + string(rune('0'+perm)) + "@mandi.in", Password: []byte("x"), Permission: perm}
		require.NoError(t, store.CreateUser(context.Background(), &u))
		users[perm] = u.ID
	}

	auth := middleware.NewAuth("0123456789abcdef", store)
	app := NewApp(Server{
		Service:     svc,
		Auth:        auth,
		Logger:      zerolog.Nop(),
		CORSOrigins: "*",
	})
	return app, auth, users
}

func TestRoutePermissions(t *testing.T) {
	app, auth, users := newTestApp(t)

	tests := []struct {
		method string
		path   string
		body   string
		perm   int
		want   int
	}{
		{http.MethodGet, "/api/kisans", "", 0, fiber.StatusUnauthorized},
		{http.MethodGet, "/api/kisans", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodPost, "/api/kisans", `{"name":"Ramesh"}`, Models.PermViewer, fiber.StatusForbidden},
		{http.MethodPost, "/api/kisans", `{"name":"Ramesh"}`, Models.PermClerk, fiber.StatusCreated},
		{http.MethodPost, "/api/vyaparis", `{"name":"Gupta Traders"}`, Models.PermClerk, fiber.StatusCreated},
		{http.MethodDelete, "/api/kisans/1", "", Models.PermClerk, fiber.StatusForbidden},
		{http.MethodGet, "/api/vyaparis/2", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/settings", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodPut, "/api/settings", `{"commission_kisan_rate":"0.03"}`, Models.PermClerk, fiber.StatusForbidden},
		{http.MethodPut, "/api/settings", `{"commission_kisan_rate":"3"}`, Models.PermAdmin, fiber.StatusUnprocessableEntity},
		{http.MethodPut, "/api/settings", `{"commission_kisan_rate":"0.03"}`, Models.PermAdmin, fiber.StatusOK},
		{http.MethodGet, "/api/users", "", Models.PermClerk, fiber.StatusForbidden},
		{http.MethodGet, "/api/users", "", Models.PermAdmin, fiber.StatusOK},
		{http.MethodPost, "/api/products", `{"name":"Tomato"}`, Models.PermClerk, fiber.StatusCreated},
		{http.MethodGet, "/api/products/1", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodPost, "/api/products/stats/refresh", "", Models.PermClerk, fiber.StatusForbidden},
		{http.MethodPost, "/api/products/stats/refresh", "", Models.PermAdmin, fiber.StatusOK},
		{http.MethodPatch, "/api/transactions/batch", `{"ids":[1],"patch":{"notes":"x"}}`, Models.PermClerk, fiber.StatusForbidden},
		{http.MethodGet, "/api/transactions", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/payments", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/bootstrap", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/dashboard/daily?date=2024-03-05", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/analytics/monthly", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/analytics/recent-activity", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/api/market-rates", "", Models.PermViewer, fiber.StatusOK},
		{http.MethodPost, "/api/market-rates/refresh", "", Models.PermAdmin, fiber.StatusServiceUnavailable},
		{http.MethodPost, "/api/reconcile", "", Models.PermClerk, fiber.StatusForbidden},
		{http.MethodPost, "/api/reconcile", "", Models.PermAdmin, fiber.StatusOK},
		{http.MethodPost, "/api/fcm-token", `{"value":"device-token"}`, Models.PermViewer, fiber.StatusOK},
		{http.MethodGet, "/healthz", "", 0, fiber.StatusOK},
	}

	// rows run in order, later rows rely on parties created earlier
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		req.Header.Set("Content-Type", "application/json")
		if tt.perm != 0 {
			token, _, err := auth.Issue(users[tt.perm], time.Now())
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, tt.want, resp.StatusCode, "%s %s as %d", tt.method, tt.path, tt.perm)
	}
}

func TestRequestIDHeader(t *testing.T) {
	app, _, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(middleware.HeaderRequestID))
}
