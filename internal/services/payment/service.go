package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"forbill/internal/models"
	"forbill/internal/repositories"
	"forbill/internal/services/wallet"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
)

// Service funds wallets through a card gateway. The purchase flow never
// touches this path; it only ever spends what already landed in the
// wallet.
type Service interface {
	// InitiateTopUp creates a Stripe PaymentIntent for amount and records
	// a pending Payment row. The returned payment carries the intent's
	// client secret in its metadata for the paying client.
	InitiateTopUp(ctx context.Context, user *models.User, amount float64) (*models.Payment, error)

	// ConfirmTopUp finalizes a payment after the gateway reports success
	// and credits the wallet.
	ConfirmTopUp(ctx context.Context, gatewayReference string) (*models.Payment, error)

	// FailTopUp marks a pending payment failed with a reason.
	FailTopUp(ctx context.Context, gatewayReference, reason string) (*models.Payment, error)
}

type service struct {
	payments repositories.PaymentRepository
	wallet   wallet.Service
}

// NewService creates a payment service. The Stripe API key comes from
// stripe.Key, set at startup.
func NewService(payments repositories.PaymentRepository, walletSvc wallet.Service) Service {
	if payments == nil {
		panic("payment repository is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	return &service{payments: payments, wallet: walletSvc}
}

func (s *service) InitiateTopUp(ctx context.Context, user *models.User, amount float64) (*models.Payment, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(amount * 100)),
		Currency: stripe.String(string(stripe.CurrencyNGN)),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", user.ID))
	params.AddMetadata("phone", user.Phone)
	// One intent per initiation even if Stripe sees a retried request.
	params.SetIdempotencyKey(uuid.NewString())

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	reference, err := randomPaymentReference()
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		Reference:        reference,
		UserID:           user.ID,
		Gateway:          models.GatewayStripe,
		Amount:           amount,
		GatewayReference: intent.ID,
		Status:           models.PaymentStatusPending,
		CustomerEmail:    user.Email,
		CustomerPhone:    user.Phone,
		Metadata:         models.JSON{"client_secret": intent.ClientSecret},
	}
	if err := s.payments.Create(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) ConfirmTopUp(ctx context.Context, gatewayReference string) (*models.Payment, error) {
	payment, err := s.payments.GetByGatewayReference(gatewayReference)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusPending && payment.Status != models.PaymentStatusProcessing {
		return nil, ErrAlreadyFinalized
	}

	now := time.Now()
	payment.Status = models.PaymentStatusSuccess
	payment.PaidAt = &now
	if err := s.payments.Update(payment); err != nil {
		return nil, err
	}

	// Credit after the payment row is terminal so a replayed webhook
	// cannot double-credit.
	if err := s.wallet.Credit(ctx, payment.UserID, payment.Amount); err != nil {
		log.Printf("CRITICAL: payment %s succeeded but wallet credit failed for user %d: %v",
			payment.Reference, payment.UserID, err)
		return nil, err
	}
	return payment, nil
}

func (s *service) FailTopUp(ctx context.Context, gatewayReference, reason string) (*models.Payment, error) {
	payment, err := s.payments.GetByGatewayReference(gatewayReference)
	if err != nil {
		if err == repositories.ErrPaymentNotFound {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if payment.Status != models.PaymentStatusPending && payment.Status != models.PaymentStatusProcessing {
		return nil, ErrAlreadyFinalized
	}

	payment.Status = models.PaymentStatusFailed
	payment.FailureReason = reason
	if err := s.payments.Update(payment); err != nil {
		return nil, err
	}
	return payment, nil
}

const paymentReferenceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomPaymentReference() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = paymentReferenceAlphabet[int(b)%len(paymentReferenceAlphabet)]
	}
	return "PAY_" + string(buf), nil
}
