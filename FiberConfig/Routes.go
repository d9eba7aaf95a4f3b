package FiberConfig

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog"

	"Mandi/Controllers"
	"Mandi/Models"
	"Mandi/Services"
	"Mandi/Templates"
	"Mandi/middleware"
)

// Server holds what the HTTP layer needs from the rest of the application.
type Server struct {
	Service     *Services.LedgerService
	Auth        *middleware.Auth
	Rates       Services.RateSource
	Logger      zerolog.Logger
	CORSOrigins string
}

// NewApp builds the fiber app with the printable bill views, the common
// middleware and every route.
func NewApp(s Server) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:                 Templates.Engine(),
		DisableStartupMessage: true,
	})
	app.Use(middleware.RequestLogger(middleware.LogConfig{
		Logger:    s.Logger,
		SkipPaths: []string{"/healthz"},
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     s.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID",
		AllowCredentials: s.CORSOrigins != "*",
		MaxAge:           300,
	}))

	SetupRoutes(app, s)
	return app
}

func SetupRoutes(app *fiber.App, s Server) {
	validate := Controllers.NewValidator()
	kisanController := Controllers.NewPartyController(s.Service, validate, Models.PartyKisan)
	vyapariController := Controllers.NewPartyController(s.Service, validate, Models.PartyVyapari)
	productController := Controllers.NewProductController(s.Service, validate)
	transactionController := Controllers.NewTransactionController(s.Service, validate)
	paymentController := Controllers.NewPaymentController(s.Service, validate)
	settingsController := Controllers.NewSettingsController(s.Service, validate)
	userController := Controllers.NewUserController(s.Service, s.Auth, validate)
	dashboardController := Controllers.NewDashboardController(s.Service, s.Rates)

	viewer := s.Auth.Verify(Models.PermViewer)
	clerk := s.Auth.Verify(Models.PermClerk)
	admin := s.Auth.Verify(Models.PermAdmin)

	app.Get("/healthz", dashboardController.Health)

	api := app.Group("/api")
	api.Post("/login", userController.Login)
	api.Post("/logout", userController.Logout)
	api.Get("/me", viewer, userController.Me)
	api.Post("/fcm-token", viewer, userController.UpdateFCMToken)

	// Users
	users := api.Group("/users", admin)
	users.Get("/", userController.GetUsers)
	users.Post("/", userController.RegisterUser)

	// Kisans and vyaparis share one controller shape
	partyRoutes(api.Group("/kisans", viewer), kisanController, clerk, admin)
	partyRoutes(api.Group("/vyaparis", viewer), vyapariController, clerk, admin)

	// Products
	products := api.Group("/products", viewer)
	products.Get("/", productController.GetProducts)
	products.Post("/stats/refresh", admin, productController.RefreshStats)
	products.Get("/:id", productController.GetProduct)
	products.Post("/", clerk, productController.CreateProduct)
	products.Put("/:id", clerk, productController.UpdateProduct)
	products.Delete("/:id", admin, productController.DeleteProduct)

	// Transactions, static paths before the id route
	transactions := api.Group("/transactions", viewer)
	transactions.Get("/", transactionController.GetTransactions)
	transactions.Post("/preview", transactionController.PreviewTransaction)
	transactions.Patch("/batch", admin, transactionController.BatchEdit)
	transactions.Get("/:id", transactionController.GetTransaction)
	transactions.Post("/", clerk, transactionController.CreateTransaction)
	transactions.Delete("/:id", admin, transactionController.DeleteTransaction)

	// Payments
	payments := api.Group("/payments", viewer)
	payments.Get("/", paymentController.GetPayments)
	payments.Post("/", clerk, paymentController.CreatePayment)
	payments.Delete("/:id", admin, paymentController.DeletePayment)

	// Settings
	api.Get("/settings", viewer, settingsController.GetSettings)
	api.Put("/settings", admin, settingsController.UpdateSettings)

	// Dashboard and analytics
	api.Get("/bootstrap", viewer, dashboardController.GetBootstrap)
	api.Get("/dashboard/daily", viewer, dashboardController.GetDailySummary)
	analytics := api.Group("/analytics", viewer)
	analytics.Get("/monthly", dashboardController.GetMonthly)
	analytics.Get("/top-parties", dashboardController.GetTopParties)
	analytics.Get("/recent-activity", dashboardController.GetRecentActivity)

	api.Get("/market-rates", viewer, dashboardController.GetMarketRates)
	api.Post("/market-rates/refresh", admin, dashboardController.RefreshMarketRates)

	api.Post("/reconcile", admin, dashboardController.Reconcile)
}

func partyRoutes(r fiber.Router, c *Controllers.PartyController, clerk, admin fiber.Handler) {
	r.Get("/", c.GetParties)
	r.Get("/:id", c.GetParty)
	r.Post("/", clerk, c.CreateParty)
	r.Put("/:id", clerk, c.UpdateParty)
	r.Delete("/:id", admin, c.DeleteParty)
	r.Get("/:id/statement", c.GetStatement)
	r.Get("/:id/statement/export", c.ExportStatement)
	r.Get("/:id/statement/print", c.PrintStatement)
	r.Post("/:id/reconcile", admin, c.Reconcile)
}
