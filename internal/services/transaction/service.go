package transaction

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"time"

	"forbill/internal/models"
	"forbill/internal/repositories"
	"forbill/internal/services/vtu"
	"forbill/internal/services/wallet"
)

type service struct {
	transactions repositories.TransactionRepository
	providers    repositories.ProviderRepository
	wallet       wallet.Service
	gateway      vtu.Gateway
	notifier     Notifier
}

// NewService creates a new transaction coordinator.
func NewService(
	transactions repositories.TransactionRepository,
	providers repositories.ProviderRepository,
	walletSvc wallet.Service,
	gateway vtu.Gateway,
	notifier Notifier,
) Service {
	if transactions == nil {
		panic("transaction repository is required")
	}
	if providers == nil {
		panic("provider repository is required")
	}
	if walletSvc == nil {
		panic("wallet service is required")
	}
	if gateway == nil {
		panic("gateway is required")
	}

	return &service{
		transactions: transactions,
		providers:    providers,
		wallet:       walletSvc,
		gateway:      gateway,
		notifier:     notifier,
	}
}

func (s *service) CreateTransaction(ctx context.Context, user *models.User, serviceType, networkCode, recipientPhone string, amount float64) (*models.Transaction, error) {
	if !models.IsValidServiceType(serviceType) {
		return nil, ErrInvalidServiceType
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	provider, err := s.providers.GetActiveByCode(networkCode)
	if err != nil {
		if err == repositories.ErrProviderNotFound {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to resolve provider: %w", err)
	}

	// Airtime/data need a provider that claims the capability up front.
	// Electricity/tv ride the same network providers and are rejected at
	// dispatch time instead, with a refund if funds were already held.
	if (serviceType == models.ServiceAirtime || serviceType == models.ServiceData) &&
		!provider.SupportsServiceType(serviceType) {
		return nil, ErrProviderNotFound
	}

	if amount < provider.MinAmount(1) || amount > provider.MaxAmount(amount) {
		return nil, ErrAmountOutOfRange
	}

	reference, err := s.generateReference()
	if err != nil {
		return nil, err
	}

	// Commission is frozen here at the provider's current rate; later
	// rate changes never touch existing records.
	commission := provider.CalculateCommission(amount)

	txn := &models.Transaction{
		Reference:      reference,
		UserID:         user.ID,
		ProviderID:     provider.ID,
		Provider:       provider,
		RecipientPhone: recipientPhone,
		ServiceType:    serviceType,
		NetworkCode:    networkCode,
		Amount:         amount,
		Commission:     commission,
		ProviderAmount: amount - commission,
		Status:         models.StatusPending,
		PaymentMethod:  models.PaymentMethodWallet,
	}

	if err := s.transactions.Create(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// ProcessTransaction is the compensating sequence. The strict order is
// debit -> provider call -> (commit | credit back); nothing reorders it,
// and every post-debit exit path settles the reservation.
func (s *service) ProcessTransaction(ctx context.Context, txn *models.Transaction) (err error) {
	if err := txn.TransitionTo(models.StatusProcessing); err != nil {
		return err
	}
	if err := s.transactions.Update(txn); err != nil {
		return err
	}

	ok, balErr := s.wallet.HasSufficientBalance(ctx, txn.UserID, txn.Amount)
	if balErr != nil {
		s.recordFailure(ctx, txn, balErr.Error(), "", nil)
		return balErr
	}
	if !ok {
		// No debit happened; fail the record and stop.
		s.recordFailure(ctx, txn, reasonInsufficientBalance, "", nil)
		return nil
	}

	res, resErr := reserve(ctx, s.wallet, txn.UserID, txn.Amount)
	if resErr != nil {
		s.recordFailure(ctx, txn, resErr.Error(), "", nil)
		return nil
	}

	var failureReason, rawResponse string

	// Compensation backstop. Any exit that did not commit the
	// reservation, panics included, credits the wallet back before the
	// failure is recorded and the user notified.
	defer func() {
		if rec := recover(); rec != nil {
			failureReason = fmt.Sprintf("unexpected failure: %v", rec)
			err = nil
		}
		if res.Settled() {
			return
		}
		if releaseErr := res.Release(ctx); releaseErr != nil {
			failureReason = fmt.Sprintf("%s (refund pending: %v)", failureReason, releaseErr)
		}
		s.recordFailure(ctx, txn, failureReason, rawResponse, res)
	}()

	result := s.dispatch(ctx, txn)
	if !result.Success {
		failureReason = result.ErrorMessage()
		if failureReason == "" {
			failureReason = "VTU purchase failed"
		}
		rawResponse = result.RawResponse
		return nil
	}

	res.Commit()

	now := time.Now()
	if err := txn.TransitionTo(models.StatusCompleted); err != nil {
		return err
	}
	txn.CompletedAt = &now
	txn.ProviderReference = result.ProviderReference
	txn.ProviderResponse = result.RawResponse
	if err := s.transactions.Update(txn); err != nil {
		return err
	}

	s.notify(ctx, txn, s.successMessage(txn))
	return nil
}

// dispatch routes the provider call by service type. Purchase paths that
// lack a required parameter fail here without touching the network.
func (s *service) dispatch(ctx context.Context, txn *models.Transaction) vtu.Result {
	provider := txn.Provider
	if provider == nil {
		loaded, err := s.providers.GetByID(txn.ProviderID)
		if err != nil {
			return vtu.Result{Success: false, Error: &vtu.ResultError{Message: "VTU provider not found"}}
		}
		provider = loaded
		txn.Provider = loaded
	}

	switch txn.ServiceType {
	case models.ServiceAirtime:
		return s.gateway.PurchaseAirtime(ctx, provider, txn)
	case models.ServiceData:
		planCode, _ := txn.Metadata.GetPath("plan_code", "").(string)
		if planCode == "" {
			return vtu.Result{Success: false, Error: &vtu.ResultError{Message: reasonDataPlanMissing}}
		}
		return s.gateway.PurchaseData(ctx, provider, txn, planCode)
	default:
		return vtu.Result{
			Success: false,
			Error:   &vtu.ResultError{Message: fmt.Sprintf("%s purchases are not available yet", txn.ServiceType)},
		}
	}
}

// recordFailure marks the transaction failed, stamping refunded_at when a
// reservation was actually credited back, and sends the failure
// notification.
func (s *service) recordFailure(ctx context.Context, txn *models.Transaction, reason, rawResponse string, res *reservation) {
	if err := txn.TransitionTo(models.StatusFailed); err != nil {
		log.Printf("cannot fail transaction %s: %v", txn.Reference, err)
		return
	}
	txn.FailureReason = reason
	if rawResponse != "" {
		txn.ProviderResponse = rawResponse
	}
	if res != nil && res.Released() {
		now := time.Now()
		txn.RefundedAt = &now
	}
	if err := s.transactions.Update(txn); err != nil {
		log.Printf("failed to persist failure for transaction %s: %v", txn.Reference, err)
	}

	s.notify(ctx, txn, s.failureMessage(txn))
}

func (s *service) MarkRefunded(ctx context.Context, reference string) (*models.Transaction, error) {
	txn, err := s.transactions.GetByReference(reference)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if err := txn.TransitionTo(models.StatusRefunded); err != nil {
		return nil, ErrNotRefundable
	}
	if txn.RefundedAt == nil {
		now := time.Now()
		txn.RefundedAt = &now
	}
	if err := s.transactions.Update(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*models.Transaction, error) {
	txn, err := s.transactions.GetByReference(reference)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

func (s *service) GetByReferenceForUser(ctx context.Context, reference string, userID uint) (*models.Transaction, error) {
	txn, err := s.transactions.GetByReferenceForUser(reference, userID)
	if err != nil {
		if err == repositories.ErrTransactionNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return txn, nil
}

func (s *service) GetUserTransactions(ctx context.Context, userID uint, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.transactions.ListRecentByUser(userID, limit)
}

// generateReference produces a unique human-readable reference, retrying
// on collision. Collisions stay internal; callers never see them.
func (s *service) generateReference() (string, error) {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		ref, err := randomReference()
		if err != nil {
			return "", err
		}
		exists, err := s.transactions.ReferenceExists(ref)
		if err != nil {
			return "", err
		}
		if !exists {
			return ref, nil
		}
	}
	return "", ErrReferenceExhausted
}

func randomReference() (string, error) {
	buf := make([]byte, referenceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reference: %w", err)
	}
	for i, b := range buf {
		buf[i] = referenceAlphabet[int(b)%len(referenceAlphabet)]
	}
	return referencePrefix + string(buf), nil
}

func (s *service) notify(ctx context.Context, txn *models.Transaction, message string) {
	if s.notifier == nil {
		return
	}
	phone := ""
	if txn.User != nil {
		phone = txn.User.Phone
	}
	if phone == "" {
		log.Printf("no phone on transaction %s; skipping notification", txn.Reference)
		return
	}
	if err := s.notifier.SendText(ctx, phone, message); err != nil {
		log.Printf("failed to notify user %d for transaction %s: %v", txn.UserID, txn.Reference, err)
	}
}
