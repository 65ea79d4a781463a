package models

import (
	"strings"
	"time"
)

// Template categories
const (
	TemplateCategoryGreeting     = "greeting"
	TemplateCategoryConfirmation = "confirmation"
	TemplateCategoryPayment      = "payment"
	TemplateCategoryError        = "error"
)

// MessageTemplate is a stored outbound message with {placeholder}
// variables. Conversation replies fall back to hardcoded copy when no
// active template matches.
type MessageTemplate struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;not null"`
	Category    string `gorm:"index;not null"`
	MessageText string `gorm:"not null"`
	Variables   JSON   `gorm:"type:jsonb"`
	Language    string `gorm:"default:'en'"`
	IsActive    bool   `gorm:"default:true;index"`
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Render substitutes {name}-style placeholders in the template text.
func (t *MessageTemplate) Render(vars map[string]string) string {
	out := t.MessageText
	for k, v := range vars {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}
