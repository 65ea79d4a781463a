package repositories

import (
	"fmt"
	"time"

	"forbill/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository persists per-user conversation sessions. The user_id
// uniqueness constraint plus WithSessionLock give each user exactly one
// serialized session row.
type SessionRepository interface {
	GetOrCreate(userID uint, chatPhone string) (*models.ConversationSession, error)
	Update(session *models.ConversationSession) error
	WithSessionLock(userID uint, fn func(tx *gorm.DB, session *models.ConversationSession) error) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a gorm-backed SessionRepository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) GetOrCreate(userID uint, chatPhone string) (*models.ConversationSession, error) {
	now := time.Now()
	session := models.ConversationSession{
		UserID:         userID,
		ChatPhone:      chatPhone,
		CurrentStep:    models.StepIdle,
		LastActivityAt: now,
		ExpiresAt:      now.Add(models.SessionTimeout),
	}
	err := r.db.Where(models.ConversationSession{UserID: userID}).
		Attrs(session).
		FirstOrCreate(&session).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create session: %w", err)
	}
	return &session, nil
}

func (r *sessionRepository) Update(session *models.ConversationSession) error {
	session.Touch(time.Now())
	if err := r.db.Save(session).Error; err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// WithSessionLock runs fn holding a row lock on the user's session so two
// concurrent inbound messages cannot interleave step transitions. The
// session is saved (with refreshed activity/expiry) when fn succeeds.
func (r *sessionRepository) WithSessionLock(userID uint, fn func(tx *gorm.DB, session *models.ConversationSession) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var session models.ConversationSession
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&session).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to lock session row: %w", err)
		}

		session.Touch(time.Now())
		if err := fn(tx, &session); err != nil {
			return err
		}

		return tx.Save(&session).Error
	})
}
