package models

import "time"

// Payment gateways
const (
	GatewayStripe = "stripe"
	GatewayWallet = "wallet"
)

// Payment statuses
const (
	PaymentStatusPending    = "pending"
	PaymentStatusProcessing = "processing"
	PaymentStatusSuccess    = "success"
	PaymentStatusFailed     = "failed"
	PaymentStatusCancelled  = "cancelled"
)

// Payment records a gateway-funded wallet top-up. Purchases themselves are
// funded from the wallet; this is the path money takes into it.
type Payment struct {
	ID               uint   `gorm:"primarykey"`
	Reference        string `gorm:"uniqueIndex;not null"`
	TransactionID    *uint  `gorm:"index"`
	UserID           uint   `gorm:"not null;index"`
	Gateway          string `gorm:"not null;default:'stripe'"`
	Amount           float64
	GatewayFee       float64 `gorm:"default:0"`
	GatewayReference string
	Status           string `gorm:"not null;default:'pending';index"`
	GatewayResponse  string
	CustomerEmail    string
	CustomerPhone    string
	PaidAt           *time.Time
	FailureReason    string
	Metadata         JSON `gorm:"type:jsonb"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
