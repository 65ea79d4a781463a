package models

import (
	"fmt"
	"time"
)

// SessionStep is the conversation state for a user's purchase dialogue.
type SessionStep string

const (
	StepIdle                 SessionStep = "idle"
	StepAwaitingServiceType  SessionStep = "awaiting_service_type"
	StepAwaitingAmount       SessionStep = "awaiting_amount"
	StepAwaitingPhone        SessionStep = "awaiting_phone"
	StepAwaitingConfirmation SessionStep = "awaiting_confirmation"
	StepAwaitingPayment      SessionStep = "awaiting_payment"
	StepProcessing           SessionStep = "processing"
)

// stepTransitions is the exhaustive conversation transition table. idle is
// both the entry and the reset target, so every step may fall back to it.
var stepTransitions = map[SessionStep][]SessionStep{
	StepIdle:                 {StepAwaitingServiceType, StepAwaitingAmount, StepAwaitingConfirmation},
	StepAwaitingServiceType:  {StepAwaitingAmount, StepIdle},
	StepAwaitingAmount:       {StepAwaitingPhone, StepIdle},
	StepAwaitingPhone:        {StepAwaitingConfirmation, StepIdle},
	StepAwaitingConfirmation: {StepAwaitingPayment, StepProcessing, StepIdle},
	StepAwaitingPayment:      {StepProcessing, StepIdle},
	StepProcessing:           {StepIdle},
}

// CanTransitionTo reports whether the table allows moving to next.
func (s SessionStep) CanTransitionTo(next SessionStep) bool {
	if next == StepIdle {
		return true
	}
	for _, allowed := range stepTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SessionTimeout is how long a conversation stays alive after the last
// touch before the next inbound message starts fresh.
const SessionTimeout = 30 * time.Minute

// ConversationSession tracks one user's progress through the multi-turn
// purchase dialogue. One row per user, reused across conversations.
type ConversationSession struct {
	ID                   uint        `gorm:"primarykey"`
	UserID               uint        `gorm:"uniqueIndex;not null"`
	User                 *User       `gorm:"foreignKey:UserID"`
	ChatPhone            string      `gorm:"index;not null"`
	CurrentStep          SessionStep `gorm:"type:varchar(30);not null;default:'idle';index"`
	ContextData          JSON        `gorm:"type:jsonb"`
	CurrentTransactionID *uint
	LastActivityAt       time.Time `gorm:"index"`
	ExpiresAt            time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Touch refreshes the activity and expiry stamps. Every persisted
// read-modify-write of the session goes through this.
func (s *ConversationSession) Touch(now time.Time) {
	s.LastActivityAt = now
	s.ExpiresAt = now.Add(SessionTimeout)
}

// IsExpired reports whether the session's expiry is in the past.
func (s *ConversationSession) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(time.Now())
}

// IsIdle reports whether no conversation is in progress.
func (s *ConversationSession) IsIdle() bool {
	return s.CurrentStep == StepIdle
}

// SetStep moves the conversation to next, rejecting transitions the table
// does not allow.
func (s *ConversationSession) SetStep(next SessionStep) error {
	if !s.CurrentStep.CanTransitionTo(next) {
		return fmt.Errorf("illegal session step transition %s -> %s (user %d)", s.CurrentStep, next, s.UserID)
	}
	s.CurrentStep = next
	return nil
}

// GetContext reads a context value along a dotted path.
func (s *ConversationSession) GetContext(path string, def interface{}) interface{} {
	return s.ContextData.GetPath(path, def)
}

// SetContext writes a context value along a dotted path, creating
// intermediate maps as needed.
func (s *ConversationSession) SetContext(path string, value interface{}) {
	if s.ContextData == nil {
		s.ContextData = JSON{}
	}
	s.ContextData.SetPath(path, value)
}

// ClearContext drops all conversation context.
func (s *ConversationSession) ClearContext() {
	s.ContextData = JSON{}
}

// GetContextString reads a context string along a dotted path.
func (s *ConversationSession) GetContextString(path string) string {
	if v, ok := s.GetContext(path, "").(string); ok {
		return v
	}
	return ""
}

// GetContextFloat reads a context number along a dotted path.
func (s *ConversationSession) GetContextFloat(path string) float64 {
	switch v := s.GetContext(path, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return 0
	}
}
