package models

import (
	"fmt"
	"time"
)

// TransactionStatus is the lifecycle state of a purchase attempt.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusRefunded   TransactionStatus = "refunded"
)

// Service types
const (
	ServiceAirtime     = "airtime"
	ServiceData        = "data"
	ServiceElectricity = "electricity"
	ServiceTV          = "tv"
)

// Payment methods
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodCard   = "card"
	PaymentMethodBank   = "bank"
)

// statusTransitions is the exhaustive transition table. refunded is
// reachable only from failed, via the explicit refund-marking path.
var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {StatusRefunded},
	StatusRefunded:   {},
}

// CanTransitionTo reports whether the table allows moving to next.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (s TransactionStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// IsValidServiceType validates a requested service type.
func IsValidServiceType(serviceType string) bool {
	switch serviceType {
	case ServiceAirtime, ServiceData, ServiceElectricity, ServiceTV:
		return true
	}
	return false
}

// Transaction represents one purchase attempt. Rows are never deleted;
// they are the audit trail for every kobo that moved.
type Transaction struct {
	ID                uint              `gorm:"primarykey"`
	Reference         string            `gorm:"uniqueIndex;not null"`
	UserID            uint              `gorm:"not null;index:idx_transactions_user_status"`
	User              *User             `gorm:"foreignKey:UserID"`
	ProviderID        uint              `gorm:"not null"`
	Provider          *Provider         `gorm:"foreignKey:ProviderID"`
	RecipientPhone    string            `gorm:"not null"`
	ServiceType       string            `gorm:"not null"`
	NetworkCode       string            `gorm:"not null"`
	Amount            float64           `gorm:"not null"`
	Commission        float64           `gorm:"not null;default:0"`
	ProviderAmount    float64           `gorm:"not null"`
	Status            TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_transactions_user_status"`
	ProviderReference string
	ProviderResponse  string
	PaymentReference  string
	PaymentMethod     string `gorm:"not null;default:'wallet'"`
	FailureReason     string
	CompletedAt       *time.Time
	RefundedAt        *time.Time
	Metadata          JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransitionTo moves the transaction to next, rejecting anything the
// transition table does not allow.
func (t *Transaction) TransitionTo(next TransactionStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("illegal transaction status transition %s -> %s (ref %s)", t.Status, next, t.Reference)
	}
	t.Status = next
	return nil
}

