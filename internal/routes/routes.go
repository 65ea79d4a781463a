// Package routes defines the API routing configuration.
package routes

import (
	"forbill/internal/handlers"
	"forbill/internal/middleware"
	"forbill/internal/repositories"
	"forbill/internal/services/auth"
	"forbill/internal/services/conversation"
	"forbill/internal/services/payment"
	"forbill/internal/services/session"
	"forbill/internal/services/transaction"
	"forbill/internal/services/vtu"
	"forbill/internal/services/wallet"
	"forbill/internal/services/whatsapp"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers onto the app.
func SetupRoutes(app *fiber.App, db *gorm.DB, whatsAppConfig whatsapp.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db, repositories.CacheService)
	providerRepo := repositories.NewProviderRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)

	// Services
	whatsAppService := whatsapp.NewService(whatsAppConfig, nil)
	var balanceCache wallet.BalanceCache
	if repositories.CacheService != nil {
		balanceCache = repositories.CacheService
	}
	walletService := wallet.NewService(userRepo, balanceCache)
	gateway := vtu.NewClient(nil)
	transactionService := transaction.NewService(
		transactionRepo,
		providerRepo,
		walletService,
		gateway,
		whatsAppService,
	)
	sessionService := session.NewService(sessionRepo)
	conversationService := conversation.NewService(
		userRepo,
		walletService,
		transactionService,
		sessionService,
		whatsAppService,
		templateRepo,
	)
	authService := auth.NewService(userRepo)
	paymentService := payment.NewService(paymentRepo, walletService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	webhookHandler := handlers.NewWebhookHandler(whatsAppService, conversationService)
	adminHandler := handlers.NewAdminHandler(userRepo, providerRepo, templateRepo, walletService, transactionService)
	paymentHandler := handlers.NewPaymentHandler(userRepo, paymentService)

	app.Get("/health", handlers.HealthCheck)
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to ForBill API",
			"version": "1.0.0",
		})
	})

	// WhatsApp webhook (verified by token/signature, not JWT)
	app.Get("/webhook/whatsapp", webhookHandler.Verify)
	app.Post("/webhook/whatsapp", webhookHandler.Handle)

	api := app.Group("/api")
	api.Post("/login", authHandler.Login)

	authMiddleware := middleware.NewAuthMiddleware()
	protected := api.Use(authMiddleware.Handler)
	protected.Post("/change-password", authHandler.ChangePassword)

	admin := protected.Group("/admin", middleware.RequireAdmin)
	admin.Post("/wallet/fund", adminHandler.FundWallet)
	admin.Get("/wallet/:phone", adminHandler.GetUserBalance)
	admin.Get("/providers", adminHandler.ListProviders)
	admin.Post("/providers", adminHandler.CreateProvider)
	admin.Post("/templates", adminHandler.UpsertTemplate)
	admin.Get("/transactions/:reference", adminHandler.GetTransaction)
	admin.Post("/transactions/:reference/refund", adminHandler.MarkRefunded)
	admin.Post("/payments/topup", paymentHandler.InitiateTopUp)
	admin.Post("/payments/confirm", paymentHandler.ConfirmTopUp)
	admin.Post("/payments/fail", paymentHandler.FailTopUp)
}
