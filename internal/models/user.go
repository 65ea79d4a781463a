package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name          string  `gorm:"not null;default:'ForBill User'"`
	Phone         string  `gorm:"uniqueIndex;not null"`
	Email         string  `gorm:"index"`
	Password      string  // bcrypt hash, set only for admin accounts
	Role          string  `gorm:"default:'user'"`
	WalletBalance float64 `gorm:"not null;default:0"`
	IsActive      bool    `gorm:"default:true"`
	LastSeenAt    *time.Time
}

// HasSufficientBalance reports whether the wallet can cover amount.
func (u *User) HasSufficientBalance(amount float64) bool {
	return u.WalletBalance >= amount
}
