package wallet

import (
	"context"
	"fmt"
	"log"

	"forbill/internal/models"
	"forbill/internal/repositories"

	"gorm.io/gorm"
)

type service struct {
	repo  repositories.UserRepository
	cache BalanceCache
}

// NewService creates a new wallet service. cache may be nil.
func NewService(repo repositories.UserRepository, cache BalanceCache) Service {
	if repo == nil {
		panic("repo is required")
	}
	return &service{
		repo:  repo,
		cache: cache,
	}
}

func (s *service) GetBalance(ctx context.Context, userID uint) (float64, error) {
	if s.cache != nil {
		if balance, found, err := s.cache.GetBalance(ctx, userID); err == nil && found {
			return balance, nil
		}
	}

	user, err := s.repo.GetByID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheBalance(ctx, userID, user.WalletBalance); err != nil {
			log.Printf("failed to cache balance for user %d: %v", userID, err)
		}
	}
	return user.WalletBalance, nil
}

func (s *service) HasSufficientBalance(ctx context.Context, userID uint, amount float64) (bool, error) {
	if amount <= 0 {
		return false, ErrInvalidAmount
	}
	// Read through to the row, not the cache: this check gates a debit.
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return false, err
	}
	return user.HasSufficientBalance(amount), nil
}

func (s *service) Debit(ctx context.Context, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.repo.WithUserLock(userID, func(tx *gorm.DB, user *models.User) error {
		if !user.IsActive {
			return ErrUserInactive
		}
		if !user.HasSufficientBalance(amount) {
			return ErrInsufficientBalance
		}
		user.WalletBalance -= amount
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateBalance(ctx, userID)
	return nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount float64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	err := s.repo.WithUserLock(userID, func(tx *gorm.DB, user *models.User) error {
		user.WalletBalance += amount
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidateBalance(ctx, userID)
	return nil
}

func (s *service) invalidateBalance(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateBalance(ctx, userID); err != nil {
		log.Printf("failed to invalidate balance cache for user %d: %v", userID, err)
	}
}
