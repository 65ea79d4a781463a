package handlers

import (
	"errors"

	"forbill/internal/models"
	"forbill/internal/repositories"
	"forbill/internal/services/transaction"
	"forbill/internal/services/wallet"
	"forbill/internal/services/whatsapp"
	"forbill/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the operator API: wallet funding, provider
// management and manual refund marking.
type AdminHandler struct {
	users        repositories.UserRepository
	providers    repositories.ProviderRepository
	templates    repositories.TemplateRepository
	wallet       wallet.Service
	transactions transaction.Service
}

func NewAdminHandler(
	users repositories.UserRepository,
	providers repositories.ProviderRepository,
	templates repositories.TemplateRepository,
	walletSvc wallet.Service,
	transactions transaction.Service,
) *AdminHandler {
	return &AdminHandler{
		users:        users,
		providers:    providers,
		templates:    templates,
		wallet:       walletSvc,
		transactions: transactions,
	}
}

// FundWallet credits a user's wallet by phone number. This is the manual
// top-up path operators use until self-service funding is the norm.
func (h *AdminHandler) FundWallet(c *fiber.Ctx) error {
	var input struct {
		Phone  string  `json:"phone"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Phone == "" || input.Amount <= 0 {
		return utils.BadRequest(c, "Phone and a positive amount are required")
	}

	phone := whatsapp.FormatPhoneNumber(input.Phone)
	user, err := h.users.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to look up user")
	}

	if err := h.wallet.Credit(c.Context(), user.ID, input.Amount); err != nil {
		return utils.InternalError(c, "Failed to credit wallet")
	}

	balance, err := h.wallet.GetBalance(c.Context(), user.ID)
	if err != nil {
		return utils.InternalError(c, "Credited but failed to read balance")
	}
	return utils.Success(c, fiber.Map{
		"phone":   user.Phone,
		"balance": balance,
	})
}

// GetUserBalance reads a user's wallet balance by phone.
func (h *AdminHandler) GetUserBalance(c *fiber.Ctx) error {
	phone := whatsapp.FormatPhoneNumber(c.Params("phone"))
	user, err := h.users.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to look up user")
	}

	balance, err := h.wallet.GetBalance(c.Context(), user.ID)
	if err != nil {
		return utils.InternalError(c, "Failed to read balance")
	}
	return utils.Success(c, fiber.Map{
		"phone":   user.Phone,
		"balance": balance,
	})
}

// ListProviders returns every configured provider with credentials
// redacted.
func (h *AdminHandler) ListProviders(c *fiber.Ctx) error {
	providers, err := h.providers.List()
	if err != nil {
		return utils.InternalError(c, "Failed to list providers")
	}

	out := make([]fiber.Map, 0, len(providers))
	for _, p := range providers {
		out = append(out, fiber.Map{
			"id":              p.ID,
			"name":            p.Name,
			"code":            p.Code,
			"api_endpoint":    p.APIEndpoint,
			"service_type":    p.ServiceType,
			"is_active":       p.IsActive,
			"commission_rate": p.CommissionRate,
			"settings":        p.Settings,
		})
	}
	return utils.Success(c, fiber.Map{"providers": out})
}

// CreateProvider registers a new fulfillment partner.
func (h *AdminHandler) CreateProvider(c *fiber.Ctx) error {
	var input struct {
		Name           string      `json:"name"`
		Code           string      `json:"code"`
		APIEndpoint    string      `json:"api_endpoint"`
		APIKey         string      `json:"api_key"`
		SecretKey      string      `json:"secret_key"`
		ServiceType    string      `json:"service_type"`
		CommissionRate float64     `json:"commission_rate"`
		Settings       models.JSON `json:"settings"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.Code == "" || input.APIEndpoint == "" {
		return utils.BadRequest(c, "Name, code and api_endpoint are required")
	}
	if input.CommissionRate < 0 || input.CommissionRate >= 1 {
		return utils.BadRequest(c, "commission_rate must be in [0, 1)")
	}

	provider := &models.Provider{
		Name:           input.Name,
		Code:           input.Code,
		APIEndpoint:    input.APIEndpoint,
		APIKey:         input.APIKey,
		SecretKey:      input.SecretKey,
		ServiceType:    input.ServiceType,
		IsActive:       true,
		CommissionRate: input.CommissionRate,
		Settings:       input.Settings,
	}
	if provider.ServiceType == "" {
		provider.ServiceType = models.ProviderServiceBoth
	}

	if err := h.providers.Create(provider); err != nil {
		return utils.InternalError(c, "Failed to create provider")
	}
	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"id":   provider.ID,
		"code": provider.Code,
	})
}

// UpsertTemplate creates or replaces an outbound message template.
func (h *AdminHandler) UpsertTemplate(c *fiber.Ctx) error {
	var input struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		MessageText string `json:"message_text"`
		Language    string `json:"language"`
		IsActive    *bool  `json:"is_active"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Name == "" || input.MessageText == "" {
		return utils.BadRequest(c, "Name and message_text are required")
	}

	tpl := &models.MessageTemplate{
		Name:        input.Name,
		Category:    input.Category,
		MessageText: input.MessageText,
		Language:    input.Language,
		IsActive:    true,
		Description: input.Description,
	}
	if input.IsActive != nil {
		tpl.IsActive = *input.IsActive
	}
	if tpl.Language == "" {
		tpl.Language = "en"
	}

	if err := h.templates.Upsert(tpl); err != nil {
		return utils.InternalError(c, "Failed to save template")
	}
	return utils.Success(c, fiber.Map{
		"id":   tpl.ID,
		"name": tpl.Name,
	})
}

// GetTransaction looks up a transaction by reference.
func (h *AdminHandler) GetTransaction(c *fiber.Ctx) error {
	reference := c.Params("reference")
	txn, err := h.transactions.GetByReference(c.Context(), reference)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound) {
			return utils.NotFound(c, "Transaction not found")
		}
		return utils.InternalError(c, "Failed to look up transaction")
	}
	return utils.Success(c, txn)
}

// MarkRefunded marks a failed transaction as refunded after the money has
// been returned out of band.
func (h *AdminHandler) MarkRefunded(c *fiber.Ctx) error {
	reference := c.Params("reference")
	txn, err := h.transactions.MarkRefunded(c.Context(), reference)
	if err != nil {
		switch {
		case errors.Is(err, transaction.ErrTransactionNotFound):
			return utils.NotFound(c, "Transaction not found")
		case errors.Is(err, transaction.ErrNotRefundable):
			return utils.BadRequest(c, "Only failed transactions can be marked refunded")
		default:
			return utils.InternalError(c, "Failed to mark transaction refunded")
		}
	}
	return utils.Success(c, fiber.Map{
		"reference":   txn.Reference,
		"status":      txn.Status,
		"refunded_at": txn.RefundedAt,
	})
}
