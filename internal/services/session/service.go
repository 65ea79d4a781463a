package session

import (
	"context"
	"errors"
	"log"

	"forbill/internal/models"
	"forbill/internal/repositories"

	"gorm.io/gorm"
)

// Service manages conversation session state: one row per user, a strict
// step machine, and a JSON context scratchpad that survives across turns.
// Mutations run under a row lock on the session and validate transitions
// against the row as persisted, so two concurrent inbound messages for
// the same user cannot both advance the conversation.
type Service interface {
	// GetOrCreate returns the user's session, resetting it to a fresh
	// idle state first if it has expired.
	GetOrCreate(ctx context.Context, userID uint, chatPhone string) (*models.ConversationSession, error)

	// UpdateStep transitions the session to next and shallow-merges
	// contextPatch into the context data, persisting both together.
	// Returns ErrInvalidStep when the persisted row no longer allows the
	// transition, even if the caller's copy does.
	UpdateStep(ctx context.Context, session *models.ConversationSession, next models.SessionStep, contextPatch models.JSON) error

	// SetCurrentTransaction links the in-flight transaction to the session.
	SetCurrentTransaction(ctx context.Context, session *models.ConversationSession, transactionID *uint) error

	// ResetToIdle clears the conversation back to the idle step, wiping
	// the context data and transaction link.
	ResetToIdle(ctx context.Context, session *models.ConversationSession) error
}

type service struct {
	sessions repositories.SessionRepository
}

// NewService creates a session service over the given repository.
func NewService(sessions repositories.SessionRepository) Service {
	if sessions == nil {
		panic("session repository is required")
	}
	return &service{sessions: sessions}
}

func (s *service) GetOrCreate(ctx context.Context, userID uint, chatPhone string) (*models.ConversationSession, error) {
	session, err := s.sessions.GetOrCreate(userID, chatPhone)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		log.Printf("session for user %d expired; resetting to idle", userID)
		session.CurrentStep = models.StepIdle
		session.ContextData = models.JSON{}
		session.CurrentTransactionID = nil
		if err := s.sessions.Update(session); err != nil {
			return nil, err
		}
	}

	if session.ChatPhone != chatPhone && chatPhone != "" {
		session.ChatPhone = chatPhone
		if err := s.sessions.Update(session); err != nil {
			return nil, err
		}
	}

	return session, nil
}

func (s *service) UpdateStep(ctx context.Context, session *models.ConversationSession, next models.SessionStep, contextPatch models.JSON) error {
	return s.mutateLocked(session, func(locked *models.ConversationSession) error {
		if err := locked.SetStep(next); err != nil {
			return ErrInvalidStep
		}
		if len(contextPatch) > 0 {
			if locked.ContextData == nil {
				locked.ContextData = models.JSON{}
			}
			locked.ContextData.Merge(contextPatch)
		}
		return nil
	})
}

func (s *service) SetCurrentTransaction(ctx context.Context, session *models.ConversationSession, transactionID *uint) error {
	return s.mutateLocked(session, func(locked *models.ConversationSession) error {
		locked.CurrentTransactionID = transactionID
		return nil
	})
}

func (s *service) ResetToIdle(ctx context.Context, session *models.ConversationSession) error {
	return s.mutateLocked(session, func(locked *models.ConversationSession) error {
		locked.CurrentStep = models.StepIdle
		locked.ClearContext()
		locked.CurrentTransactionID = nil
		return nil
	})
}

// mutateLocked applies mutate to a freshly read, row-locked copy of the
// session and mirrors the persisted state back into the caller's copy on
// success.
func (s *service) mutateLocked(session *models.ConversationSession, mutate func(locked *models.ConversationSession) error) error {
	err := s.sessions.WithSessionLock(session.UserID, func(tx *gorm.DB, locked *models.ConversationSession) error {
		if err := mutate(locked); err != nil {
			return err
		}
		*session = *locked
		return nil
	})
	if errors.Is(err, repositories.ErrSessionNotFound) {
		return ErrSessionNotFound
	}
	return err
}
