package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"forbill/internal/models"
	"forbill/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository is the data access contract for users and their wallet
// balances. Balance mutations go through WithUserLock so that concurrent
// purchases for the same user serialize on the row.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	FirstOrCreateByPhone(phone string, defaults models.User) (*models.User, error)
	TouchLastSeen(userID uint, at time.Time) error
	WithUserLock(userID uint, fn func(tx *gorm.DB, user *models.User) error) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a gorm-backed UserRepository. cacheSvc may be
// nil; phone lookups then always hit the database.
func NewUserRepository(db *gorm.DB, cacheSvc *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheSvc}
}

func (r *userRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByPhone reads through the cache; every inbound chat message resolves
// the sender this way.
func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUserByPhone(context.Background(), phone); err == nil && user != nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	r.cacheUser(&user)
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidateUser(user)
	return nil
}

func (r *userRepository) FirstOrCreateByPhone(phone string, defaults models.User) (*models.User, error) {
	if r.cache != nil {
		if user, err := r.cache.GetUserByPhone(context.Background(), phone); err == nil && user != nil {
			return user, nil
		}
	}

	defaults.Phone = phone
	var user models.User
	err := r.db.Where(models.User{Phone: phone}).Attrs(defaults).FirstOrCreate(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}
	r.cacheUser(&user)
	return &user, nil
}

// TouchLastSeen stamps the user's last activity. The cached copy keeps
// its older stamp until the next invalidation; nothing reads it for
// logic.
func (r *userRepository) TouchLastSeen(userID uint, at time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("last_seen_at", at).Error
}

// WithUserLock runs fn inside a transaction holding a row lock on the
// user, then persists the (possibly mutated) user. fn returning an error
// rolls everything back.
func (r *userRepository) WithUserLock(userID uint, fn func(tx *gorm.DB, user *models.User) error) error {
	var locked *models.User
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to lock user row: %w", err)
		}

		if err := fn(tx, &user); err != nil {
			return err
		}

		locked = &user
		return tx.Save(&user).Error
	})
	if err == nil && locked != nil {
		r.invalidateUser(locked)
	}
	return err
}

func (r *userRepository) cacheUser(user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.CacheUser(context.Background(), user); err != nil {
		log.Printf("failed to cache user %d: %v", user.ID, err)
	}
}

func (r *userRepository) invalidateUser(user *models.User) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(context.Background(), user); err != nil {
		log.Printf("failed to invalidate user %d cache: %v", user.ID, err)
	}
}
