package handlers

import (
	"errors"

	"forbill/internal/repositories"
	"forbill/internal/services/payment"
	"forbill/internal/services/whatsapp"
	"forbill/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// PaymentHandler exposes the card top-up flow operators drive on behalf
// of chat users.
type PaymentHandler struct {
	users    repositories.UserRepository
	payments payment.Service
}

func NewPaymentHandler(users repositories.UserRepository, payments payment.Service) *PaymentHandler {
	return &PaymentHandler{users: users, payments: payments}
}

// InitiateTopUp creates a Stripe PaymentIntent for a user's wallet top-up.
func (h *PaymentHandler) InitiateTopUp(c *fiber.Ctx) error {
	var input struct {
		Phone  string  `json:"phone"`
		Amount float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.Phone == "" {
		return utils.BadRequest(c, "Phone is required")
	}

	user, err := h.users.GetByPhone(whatsapp.FormatPhoneNumber(input.Phone))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalError(c, "Failed to look up user")
	}

	pay, err := h.payments.InitiateTopUp(c.Context(), user, input.Amount)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) {
			return utils.BadRequest(c, "Amount must be greater than zero")
		}
		return utils.InternalError(c, "Failed to initiate top-up")
	}

	return utils.Respond(c, fiber.StatusCreated, fiber.Map{
		"reference":         pay.Reference,
		"gateway_reference": pay.GatewayReference,
		"client_secret":     pay.Metadata.GetPath("client_secret", ""),
		"amount":            pay.Amount,
		"status":            pay.Status,
	})
}

// ConfirmTopUp finalizes a top-up after the gateway reports success and
// credits the wallet.
func (h *PaymentHandler) ConfirmTopUp(c *fiber.Ctx) error {
	var input struct {
		GatewayReference string `json:"gateway_reference"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.GatewayReference == "" {
		return utils.BadRequest(c, "gateway_reference is required")
	}

	pay, err := h.payments.ConfirmTopUp(c.Context(), input.GatewayReference)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			return utils.NotFound(c, "Payment not found")
		case errors.Is(err, payment.ErrAlreadyFinalized):
			return utils.BadRequest(c, "Payment already finalized")
		default:
			return utils.InternalError(c, "Failed to confirm top-up")
		}
	}

	return utils.Success(c, fiber.Map{
		"reference": pay.Reference,
		"status":    pay.Status,
		"paid_at":   pay.PaidAt,
	})
}

// FailTopUp marks a pending top-up failed.
func (h *PaymentHandler) FailTopUp(c *fiber.Ctx) error {
	var input struct {
		GatewayReference string `json:"gateway_reference"`
		Reason           string `json:"reason"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.GatewayReference == "" {
		return utils.BadRequest(c, "gateway_reference is required")
	}

	pay, err := h.payments.FailTopUp(c.Context(), input.GatewayReference, input.Reason)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrPaymentNotFound):
			return utils.NotFound(c, "Payment not found")
		case errors.Is(err, payment.ErrAlreadyFinalized):
			return utils.BadRequest(c, "Payment already finalized")
		default:
			return utils.InternalError(c, "Failed to update payment")
		}
	}

	return utils.Success(c, fiber.Map{
		"reference": pay.Reference,
		"status":    pay.Status,
	})
}
