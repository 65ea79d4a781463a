package conversation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"forbill/internal/models"
	"forbill/internal/repositories"
	"forbill/internal/services/session"
	"forbill/internal/services/transaction"
	"forbill/internal/services/vtu"
	"forbill/internal/services/wallet"
	"forbill/internal/services/whatsapp"
)

// Channel is the chat transport the conversation pipeline talks through.
type Channel interface {
	SendText(ctx context.Context, phone, message string) error
	MarkMessageAsRead(ctx context.Context, messageID string) error
}

// Service is the inbound message pipeline: user provisioning, intent
// routing and the multi-step purchase dialogue.
type Service interface {
	ProcessMessage(ctx context.Context, from, messageID, text string) error
}

type service struct {
	users        repositories.UserRepository
	wallet       wallet.Service
	transactions transaction.Service
	sessions     session.Service
	channel      Channel
	templates    repositories.TemplateRepository
}

// NewService wires the conversation pipeline. templates may be nil; the
// built-in copy is used then.
func NewService(
	users repositories.UserRepository,
	walletSvc wallet.Service,
	transactions transaction.Service,
	sessions session.Service,
	channel Channel,
	templates repositories.TemplateRepository,
) Service {
	if users == nil || walletSvc == nil || transactions == nil || sessions == nil || channel == nil {
		panic("conversation service requires all collaborators")
	}
	return &service{
		users:        users,
		wallet:       walletSvc,
		transactions: transactions,
		sessions:     sessions,
		channel:      channel,
		templates:    templates,
	}
}

// renderTemplate serves a stored template when one is active, otherwise
// the built-in fallback copy.
func (s *service) renderTemplate(name string, vars map[string]string, fallback string) string {
	if s.templates == nil {
		return fallback
	}
	tpl, err := s.templates.GetActiveByName(name)
	if err != nil {
		if !errors.Is(err, repositories.ErrTemplateNotFound) {
			log.Printf("failed to load template %s: %v", name, err)
		}
		return fallback
	}
	return tpl.Render(vars)
}

// Context keys for the in-flight purchase, namespaced under "purchase".
const (
	ctxServiceType = "purchase.service_type"
	ctxNetwork     = "purchase.network"
	ctxAmount      = "purchase.amount"
	ctxPhone       = "purchase.phone"
	ctxPlanCode    = "purchase.plan_code"
	ctxPlanName    = "purchase.plan_name"
)

func (s *service) ProcessMessage(ctx context.Context, from, messageID, text string) error {
	phone := whatsapp.FormatPhoneNumber(from)

	if messageID != "" {
		if err := s.channel.MarkMessageAsRead(ctx, messageID); err != nil {
			log.Printf("failed to mark message %s as read: %v", messageID, err)
		}
	}

	user, err := s.users.FirstOrCreateByPhone(phone, models.User{
		Name:     "ForBill User",
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("failed to provision user: %w", err)
	}
	if err := s.users.TouchLastSeen(user.ID, time.Now()); err != nil {
		log.Printf("failed to touch last seen for user %d: %v", user.ID, err)
	}

	sess, err := s.sessions.GetOrCreate(ctx, user.ID, phone)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	reply, err := s.handle(ctx, user, sess, text)
	if err != nil {
		return err
	}
	if reply != "" {
		return s.channel.SendText(ctx, user.Phone, reply)
	}
	return nil
}

func (s *service) handle(ctx context.Context, user *models.User, sess *models.ConversationSession, text string) (string, error) {
	intent := DetectIntent(text)

	// cancel wins over everything, including mid-flow steps.
	if intent == IntentCancel {
		if sess.IsIdle() {
			return helpMessage(), nil
		}
		if err := s.sessions.ResetToIdle(ctx, sess); err != nil {
			return "", err
		}
		return cancelledMessage(), nil
	}

	if !sess.IsIdle() {
		return s.continueFlow(ctx, user, sess, text)
	}

	switch intent {
	case IntentGreeting:
		return s.renderTemplate("welcome", map[string]string{
			"name":    user.Name,
			"balance": fmt.Sprintf("%.2f", user.WalletBalance),
		}, welcomeMessage(user)), nil
	case IntentHelp:
		return s.renderTemplate("help", nil, helpMessage()), nil
	case IntentBalance:
		balance, err := s.wallet.GetBalance(ctx, user.ID)
		if err != nil {
			return "", err
		}
		return balanceMessage(balance), nil
	case IntentStatus:
		return s.handleStatus(ctx, user, text)
	case IntentPurchase:
		return s.startPurchase(ctx, user, sess, text)
	default:
		return defaultResponse(), nil
	}
}

// startPurchase opens the purchase dialogue. A fully specified one-shot
// command jumps straight to confirmation; anything partial enters the
// step-by-step flow.
func (s *service) startPurchase(ctx context.Context, user *models.User, sess *models.ConversationSession, text string) (string, error) {
	if cmd, ok := ParsePurchaseCommand(text); ok {
		balance, err := s.wallet.GetBalance(ctx, user.ID)
		if err != nil {
			return "", err
		}
		if balance < cmd.Amount {
			return lowBalanceMessage(balance, cmd.Amount), nil
		}
		patch := models.JSON{}
		patch.SetPath(ctxServiceType, cmd.ServiceType)
		patch.SetPath(ctxNetwork, cmd.NetworkCode)
		patch.SetPath(ctxAmount, cmd.Amount)
		patch.SetPath(ctxPhone, cmd.Phone)
		if cmd.PlanCode != "" {
			patch.SetPath(ctxPlanCode, cmd.PlanCode)
			patch.SetPath(ctxPlanName, cmd.PlanName)
		}
		if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingConfirmation, patch); err != nil {
			return "", err
		}
		return confirmationSummary(cmd.ServiceType, cmd.NetworkCode, cmd.PlanName, cmd.Phone, cmd.Amount), nil
	}

	// Partial intent: capture what the first message already tells us.
	network, serviceType := ParseServiceSelection(text)
	if network != "" && serviceType != "" {
		patch := models.JSON{}
		patch.SetPath(ctxServiceType, serviceType)
		patch.SetPath(ctxNetwork, network)
		if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingServiceType, patch); err != nil {
			return "", err
		}
		if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingAmount, nil); err != nil {
			return "", err
		}
		return amountPrompt(network, serviceType), nil
	}

	if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingServiceType, nil); err != nil {
		return "", err
	}
	if serviceType == models.ServiceAirtime {
		return airtimeInstructions(), nil
	}
	if serviceType == models.ServiceData {
		return dataInstructions(network), nil
	}
	return serviceSelectionPrompt(), nil
}

// continueFlow advances an in-progress dialogue one step.
func (s *service) continueFlow(ctx context.Context, user *models.User, sess *models.ConversationSession, text string) (string, error) {
	switch sess.CurrentStep {
	case models.StepAwaitingServiceType:
		return s.handleServiceTypeStep(ctx, sess, text)
	case models.StepAwaitingAmount:
		return s.handleAmountStep(ctx, sess, text)
	case models.StepAwaitingPhone:
		return s.handlePhoneStep(ctx, sess, text)
	case models.StepAwaitingConfirmation:
		return s.handleConfirmationStep(ctx, user, sess, text)
	case models.StepProcessing:
		return processingMessage(), nil
	default:
		if err := s.sessions.ResetToIdle(ctx, sess); err != nil {
			return "", err
		}
		return defaultResponse(), nil
	}
}

func (s *service) handleServiceTypeStep(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	network, serviceType := ParseServiceSelection(text)
	if network == "" || serviceType == "" {
		return invalidSelectionMessage(), nil
	}
	patch := models.JSON{}
	patch.SetPath(ctxServiceType, serviceType)
	patch.SetPath(ctxNetwork, network)
	if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingAmount, patch); err != nil {
		return "", err
	}
	return amountPrompt(network, serviceType), nil
}

func (s *service) handleAmountStep(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	serviceType := sess.GetContextString(ctxServiceType)
	network := sess.GetContextString(ctxNetwork)

	patch := models.JSON{}
	if serviceType == models.ServiceData {
		plan, ok := vtu.MatchDataPlan(network, text)
		if !ok {
			return invalidPlanMessage(network), nil
		}
		patch.SetPath(ctxAmount, plan.Amount)
		patch.SetPath(ctxPlanCode, plan.Code)
		patch.SetPath(ctxPlanName, plan.Name)
	} else {
		amount, ok := ParseAmount(text)
		if !ok {
			return invalidAmountMessage(), nil
		}
		patch.SetPath(ctxAmount, amount)
	}

	if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingPhone, patch); err != nil {
		return "", err
	}
	return phonePrompt(), nil
}

func (s *service) handlePhoneStep(ctx context.Context, sess *models.ConversationSession, text string) (string, error) {
	phone, ok := ParsePhone(text)
	if !ok {
		return invalidPhoneMessage(), nil
	}
	patch := models.JSON{}
	patch.SetPath(ctxPhone, phone)
	if err := s.sessions.UpdateStep(ctx, sess, models.StepAwaitingConfirmation, patch); err != nil {
		return "", err
	}
	return confirmationSummary(
		sess.GetContextString(ctxServiceType),
		sess.GetContextString(ctxNetwork),
		sess.GetContextString(ctxPlanName),
		phone,
		sess.GetContextFloat(ctxAmount),
	), nil
}

func (s *service) handleConfirmationStep(ctx context.Context, user *models.User, sess *models.ConversationSession, text string) (string, error) {
	if IsNegative(text) {
		if err := s.sessions.ResetToIdle(ctx, sess); err != nil {
			return "", err
		}
		return cancelledMessage(), nil
	}
	if !IsAffirmative(text) {
		return "Reply *yes* to confirm or *no* to cancel.", nil
	}

	serviceType := sess.GetContextString(ctxServiceType)
	network := sess.GetContextString(ctxNetwork)
	phone := sess.GetContextString(ctxPhone)
	amount := sess.GetContextFloat(ctxAmount)
	planCode := sess.GetContextString(ctxPlanCode)

	// Claim the conversation before any money moves. A redelivered
	// confirmation loses this step transition on the locked row and
	// stops here; the delivery that won sends the outcome.
	if err := s.sessions.UpdateStep(ctx, sess, models.StepProcessing, nil); err != nil {
		if errors.Is(err, session.ErrInvalidStep) {
			return "", nil
		}
		return "", err
	}

	txn, err := s.transactions.CreateTransaction(ctx, user, serviceType, network, phone, amount)
	if err != nil {
		resetErr := s.sessions.ResetToIdle(ctx, sess)
		if resetErr != nil {
			return "", resetErr
		}
		switch {
		case errors.Is(err, transaction.ErrAmountOutOfRange):
			return "⚠️ That amount is outside the allowed range (₦50 - ₦50,000).", nil
		case errors.Is(err, transaction.ErrProviderNotFound):
			return "⚠️ That network isn't available right now. Please try again later.", nil
		default:
			return "", err
		}
	}
	txn.User = user
	if planCode != "" {
		txn.Metadata = models.NewJSON(map[string]interface{}{"plan_code": planCode})
	}

	if err := s.sessions.SetCurrentTransaction(ctx, sess, &txn.ID); err != nil {
		return "", err
	}
	if sendErr := s.channel.SendText(ctx, user.Phone, processingMessage()); sendErr != nil {
		log.Printf("failed to send processing notice to user %d: %v", user.ID, sendErr)
	}

	if err := s.transactions.ProcessTransaction(ctx, txn); err != nil {
		log.Printf("processing failed for transaction %s: %v", txn.Reference, err)
	}

	// The purchase is terminal either way; the coordinator already sent
	// the outcome notification.
	if err := s.sessions.ResetToIdle(ctx, sess); err != nil {
		return "", err
	}
	return "", nil
}

func (s *service) handleStatus(ctx context.Context, user *models.User, text string) (string, error) {
	if reference, ok := ParseStatusReference(text); ok {
		txn, err := s.transactions.GetByReferenceForUser(ctx, reference, user.ID)
		if err != nil {
			if errors.Is(err, transaction.ErrTransactionNotFound) {
				return statusNotFoundMessage(reference), nil
			}
			return "", err
		}
		return s.transactions.StatusMessage(txn), nil
	}

	// "status" with no reference and no ask for the list gets the
	// how-to; "my transactions" falls through to the listing.
	if !strings.Contains(strings.ToLower(text), "transaction") {
		return statusInstructions(), nil
	}

	txns, err := s.transactions.GetUserTransactions(ctx, user.ID, 10)
	if err != nil {
		return "", err
	}
	if len(txns) == 0 {
		return noTransactionsMessage(), nil
	}

	var b strings.Builder
	b.WriteString(transactionListHeader())
	for _, txn := range txns {
		fmt.Fprintf(&b, "\n• %s - %s ₦%.2f - %s",
			txn.Reference, txn.ServiceType, txn.Amount, txn.Status)
	}
	b.WriteString("\n\nSend _\"Status TXN_...\"_ for details.")
	return b.String(), nil
}
