package transaction

import (
	"fmt"
	"strings"

	"forbill/internal/models"
	"forbill/internal/services/vtu"
)

// StatusMessage formats the user-facing status line for a transaction.
func (s *service) StatusMessage(txn *models.Transaction) string {
	network := vtu.NetworkName(txn.NetworkCode)
	head := fmt.Sprintf("Transaction %s\n%s %s of ₦%.2f for %s",
		txn.Reference, network, serviceLabel(txn.ServiceType), txn.Amount, txn.RecipientPhone)

	switch txn.Status {
	case models.StatusPending:
		return head + "\n\nStatus: Pending. We have not started processing it yet."
	case models.StatusProcessing:
		return head + "\n\nStatus: Processing. You will get a confirmation shortly."
	case models.StatusCompleted:
		return head + "\n\nStatus: Completed ✅"
	case models.StatusFailed:
		msg := head + "\n\nStatus: Failed ❌"
		if txn.FailureReason != "" {
			msg += "\nReason: " + txn.FailureReason
		}
		if txn.RefundedAt != nil {
			msg += "\nYour wallet has been refunded."
		}
		return msg
	case models.StatusRefunded:
		return head + "\n\nStatus: Refunded. The amount is back in your wallet."
	default:
		return head + "\n\nStatus: " + string(txn.Status)
	}
}

// successMessage is the confirmation sent after a completed purchase.
func (s *service) successMessage(txn *models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Purchase successful!\n\n")
	fmt.Fprintf(&b, "%s %s: ₦%.2f\n", vtu.NetworkName(txn.NetworkCode), serviceLabel(txn.ServiceType), txn.Amount)
	fmt.Fprintf(&b, "Recipient: %s\n", txn.RecipientPhone)
	fmt.Fprintf(&b, "Reference: %s\n\n", txn.Reference)
	b.WriteString("Thank you for using ForBill!")
	return b.String()
}

// failureMessage is the notice sent after a failed purchase. The refund
// line appears only when funds were actually credited back.
func (s *service) failureMessage(txn *models.Transaction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "❌ Purchase failed.\n\n")
	fmt.Fprintf(&b, "%s %s: ₦%.2f\n", vtu.NetworkName(txn.NetworkCode), serviceLabel(txn.ServiceType), txn.Amount)
	fmt.Fprintf(&b, "Reference: %s\n", txn.Reference)
	if txn.FailureReason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", txn.FailureReason)
	}
	if txn.RefundedAt != nil {
		b.WriteString("\nYour wallet has been refunded.")
	}
	return b.String()
}

func serviceLabel(serviceType string) string {
	switch serviceType {
	case models.ServiceAirtime:
		return "airtime"
	case models.ServiceData:
		return "data"
	case models.ServiceElectricity:
		return "electricity"
	case models.ServiceTV:
		return "TV subscription"
	default:
		return serviceType
	}
}
