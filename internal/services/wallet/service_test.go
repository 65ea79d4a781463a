package wallet

import (
	"context"
	"testing"

	"forbill/internal/models"
	"forbill/internal/repositories"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, balance float64, active bool) *models.User {
	t.Helper()
	user := &models.User{
		Name:          "Test User",
		Phone:         "2348012345678",
		WalletBalance: balance,
		IsActive:      active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestWalletService_GetBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(repositories.NewUserRepository(db, nil), nil)
	user := createTestUser(t, db, 1500, true)

	balance, err := svc.GetBalance(context.Background(), user.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1500.0, balance)
}

func TestWalletService_HasSufficientBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(repositories.NewUserRepository(db, nil), nil)
	user := createTestUser(t, db, 500, true)

	tests := []struct {
		name    string
		amount  float64
		want    bool
		wantErr error
	}{
		{name: "exact balance", amount: 500, want: true},
		{name: "below balance", amount: 499.99, want: true},
		{name: "above balance", amount: 500.01, want: false},
		{name: "zero amount", amount: 0, wantErr: ErrInvalidAmount},
		{name: "negative amount", amount: -10, wantErr: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := svc.HasSufficientBalance(context.Background(), user.ID, tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestWalletService_Debit(t *testing.T) {
	t.Run("successful debit", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 1000, true)

		err := svc.Debit(context.Background(), user.ID, 600)
		assert.NoError(t, err)

		balance, err := svc.GetBalance(context.Background(), user.ID)
		assert.NoError(t, err)
		assert.Equal(t, 400.0, balance)
	})

	t.Run("insufficient balance leaves wallet untouched", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 100, true)

		err := svc.Debit(context.Background(), user.ID, 100.01)
		assert.ErrorIs(t, err, ErrInsufficientBalance)

		balance, _ := svc.GetBalance(context.Background(), user.ID)
		assert.Equal(t, 100.0, balance)
	})

	t.Run("inactive user cannot be debited", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 1000, false)

		err := svc.Debit(context.Background(), user.ID, 100)
		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("invalid amount", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 1000, true)

		assert.ErrorIs(t, svc.Debit(context.Background(), user.ID, 0), ErrInvalidAmount)
		assert.ErrorIs(t, svc.Debit(context.Background(), user.ID, -5), ErrInvalidAmount)
	})

	t.Run("balance never goes negative", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 50, true)

		require.NoError(t, svc.Debit(context.Background(), user.ID, 50))
		assert.ErrorIs(t, svc.Debit(context.Background(), user.ID, 1), ErrInsufficientBalance)

		balance, _ := svc.GetBalance(context.Background(), user.ID)
		assert.Equal(t, 0.0, balance)
	})
}

func TestWalletService_Credit(t *testing.T) {
	t.Run("successful credit", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 250, true)

		err := svc.Credit(context.Background(), user.ID, 750)
		assert.NoError(t, err)

		balance, _ := svc.GetBalance(context.Background(), user.ID)
		assert.Equal(t, 1000.0, balance)
	})

	t.Run("credit works on inactive user", func(t *testing.T) {
		// A compensation credit must land even if the account was
		// deactivated mid-flight.
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 0, false)

		err := svc.Credit(context.Background(), user.ID, 500)
		assert.NoError(t, err)

		balance, _ := svc.GetBalance(context.Background(), user.ID)
		assert.Equal(t, 500.0, balance)
	})

	t.Run("invalid amount", func(t *testing.T) {
		db := setupTestDB(t)
		svc := NewService(repositories.NewUserRepository(db, nil), nil)
		user := createTestUser(t, db, 0, true)

		assert.ErrorIs(t, svc.Credit(context.Background(), user.ID, 0), ErrInvalidAmount)
	})
}
