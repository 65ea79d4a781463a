package transaction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"forbill/internal/models"
	"forbill/internal/repositories"
	"forbill/internal/services/vtu"
	"forbill/internal/services/wallet"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeGateway struct {
	result   vtu.Result
	panics   bool
	calls    int
	lastTxn  *models.Transaction
	lastPlan string
}

func (g *fakeGateway) PurchaseAirtime(ctx context.Context, provider *models.Provider, txn *models.Transaction) vtu.Result {
	g.calls++
	g.lastTxn = txn
	if g.panics {
		panic("gateway blew up")
	}
	return g.result
}

func (g *fakeGateway) PurchaseData(ctx context.Context, provider *models.Provider, txn *models.Transaction, planCode string) vtu.Result {
	g.calls++
	g.lastTxn = txn
	g.lastPlan = planCode
	return g.result
}

func (g *fakeGateway) CheckStatus(ctx context.Context, provider *models.Provider, txn *models.Transaction) vtu.Result {
	return g.result
}

type fakeNotifier struct {
	messages []string
	phones   []string
}

func (n *fakeNotifier) SendText(ctx context.Context, phone, message string) error {
	n.phones = append(n.phones, phone)
	n.messages = append(n.messages, message)
	return nil
}

type fixture struct {
	db       *gorm.DB
	svc      Service
	wallet   wallet.Service
	gateway  *fakeGateway
	notifier *fakeNotifier
	user     *models.User
	provider *models.Provider
}

func setup(t *testing.T, balance float64) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, repositories.Migrate(db))

	user := &models.User{
		Name:          "Test User",
		Phone:         "2348012345678",
		WalletBalance: balance,
		IsActive:      true,
	}
	require.NoError(t, db.Create(user).Error)

	provider := &models.Provider{
		Name:           "MTN Nigeria",
		Code:           "mtn",
		APIEndpoint:    "https://vtu.example.com/api/v1",
		ServiceType:    models.ProviderServiceBoth,
		IsActive:       true,
		CommissionRate: 0.02,
		Settings:       models.JSON{"min_amount": 50, "max_amount": 50000},
	}
	require.NoError(t, db.Create(provider).Error)

	userRepo := repositories.NewUserRepository(db, nil)
	walletSvc := wallet.NewService(userRepo, nil)
	gateway := &fakeGateway{result: vtu.Result{Success: true, ProviderReference: "PROV123", RawResponse: `{"status":"success"}`}}
	notifier := &fakeNotifier{}

	svc := NewService(
		repositories.NewTransactionRepository(db),
		repositories.NewProviderRepository(db),
		walletSvc,
		gateway,
		notifier,
	)

	return &fixture{
		db:       db,
		svc:      svc,
		wallet:   walletSvc,
		gateway:  gateway,
		notifier: notifier,
		user:     user,
		provider: provider,
	}
}

func (f *fixture) balance(t *testing.T) float64 {
	t.Helper()
	balance, err := f.wallet.GetBalance(context.Background(), f.user.ID)
	require.NoError(t, err)
	return balance
}

func (f *fixture) reload(t *testing.T, txn *models.Transaction) *models.Transaction {
	t.Helper()
	var fresh models.Transaction
	require.NoError(t, f.db.First(&fresh, txn.ID).Error)
	return &fresh
}

func TestCreateTransaction(t *testing.T) {
	t.Run("creates pending record with frozen commission", func(t *testing.T) {
		f := setup(t, 1000)

		txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(txn.Reference, "TXN_"))
		assert.Len(t, txn.Reference, len("TXN_")+12)
		assert.Equal(t, models.StatusPending, txn.Status)
		assert.Equal(t, 10.0, txn.Commission)
		assert.Equal(t, 490.0, txn.ProviderAmount)
		assert.Equal(t, models.PaymentMethodWallet, txn.PaymentMethod)

		// No funds move at creation time.
		assert.Equal(t, 1000.0, f.balance(t))
	})

	t.Run("rejects unknown service type", func(t *testing.T) {
		f := setup(t, 1000)
		_, err := f.svc.CreateTransaction(context.Background(), f.user, "lottery", "mtn", "08098765432", 500)
		assert.ErrorIs(t, err, ErrInvalidServiceType)
	})

	t.Run("rejects unknown network", func(t *testing.T) {
		f := setup(t, 1000)
		_, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "vodafone", "08098765432", 500)
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("rejects inactive provider", func(t *testing.T) {
		f := setup(t, 1000)
		require.NoError(t, f.db.Model(f.provider).Update("is_active", false).Error)

		_, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
		assert.ErrorIs(t, err, ErrProviderNotFound)
	})

	t.Run("enforces provider amount bounds", func(t *testing.T) {
		f := setup(t, 100000)

		_, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 49)
		assert.ErrorIs(t, err, ErrAmountOutOfRange)

		_, err = f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 50001)
		assert.ErrorIs(t, err, ErrAmountOutOfRange)

		_, err = f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 50)
		assert.NoError(t, err)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		f := setup(t, 1000)
		_, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("references are unique across transactions", func(t *testing.T) {
		f := setup(t, 100000)
		seen := map[string]bool{}
		for i := 0; i < 20; i++ {
			txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 100)
			require.NoError(t, err)
			assert.False(t, seen[txn.Reference])
			seen[txn.Reference] = true
		}
	})
}

func TestProcessTransaction_Success(t *testing.T) {
	f := setup(t, 1000)

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
	require.NoError(t, err)
	txn.User = f.user

	require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

	fresh := f.reload(t, txn)
	assert.Equal(t, models.StatusCompleted, fresh.Status)
	assert.Equal(t, "PROV123", fresh.ProviderReference)
	assert.NotNil(t, fresh.CompletedAt)
	assert.Nil(t, fresh.RefundedAt)
	assert.Equal(t, 500.0, f.balance(t))

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "successful")
	assert.Contains(t, f.notifier.messages[0], txn.Reference)
}

func TestProcessTransaction_GatewayFailureRefunds(t *testing.T) {
	f := setup(t, 1000)
	f.gateway.result = vtu.Result{
		Success:     false,
		RawResponse: `{"status":"failed"}`,
		Error:       &vtu.ResultError{Message: "network unreachable"},
	}

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
	require.NoError(t, err)
	txn.User = f.user

	require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

	fresh := f.reload(t, txn)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Equal(t, "network unreachable", fresh.FailureReason)
	assert.NotNil(t, fresh.RefundedAt)

	// The debit was compensated in full.
	assert.Equal(t, 1000.0, f.balance(t))

	require.Len(t, f.notifier.messages, 1)
	assert.Contains(t, f.notifier.messages[0], "failed")
	assert.Contains(t, f.notifier.messages[0], "refunded")
}

func TestProcessTransaction_InsufficientBalance(t *testing.T) {
	f := setup(t, 100)

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
	require.NoError(t, err)
	txn.User = f.user

	require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

	fresh := f.reload(t, txn)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Equal(t, "Insufficient wallet balance", fresh.FailureReason)

	// Nothing was debited, so nothing was refunded.
	assert.Nil(t, fresh.RefundedAt)
	assert.Equal(t, 100.0, f.balance(t))
	assert.Equal(t, 0, f.gateway.calls)

	require.Len(t, f.notifier.messages, 1)
	assert.NotContains(t, f.notifier.messages[0], "refunded")
}

func TestProcessTransaction_PanicStillRefunds(t *testing.T) {
	f := setup(t, 1000)
	f.gateway.panics = true

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
	require.NoError(t, err)
	txn.User = f.user

	require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

	fresh := f.reload(t, txn)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Contains(t, fresh.FailureReason, "unexpected failure")
	assert.NotNil(t, fresh.RefundedAt)
	assert.Equal(t, 1000.0, f.balance(t))
}

func TestProcessTransaction_DataRequiresPlanCode(t *testing.T) {
	f := setup(t, 5000)

	t.Run("missing plan code fails before the network call", func(t *testing.T) {
		txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceData, "mtn", "08098765432", 1000)
		require.NoError(t, err)
		txn.User = f.user

		require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

		fresh := f.reload(t, txn)
		assert.Equal(t, models.StatusFailed, fresh.Status)
		assert.Equal(t, "Data purchase requires a plan code", fresh.FailureReason)
		assert.NotNil(t, fresh.RefundedAt)
		assert.Equal(t, 0, f.gateway.calls)
	})

	t.Run("plan code from metadata reaches the gateway", func(t *testing.T) {
		txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceData, "mtn", "08098765432", 1000)
		require.NoError(t, err)
		txn.User = f.user
		txn.Metadata = models.JSON{"plan_code": "mtn_1gb_30"}

		require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

		fresh := f.reload(t, txn)
		assert.Equal(t, models.StatusCompleted, fresh.Status)
		assert.Equal(t, "mtn_1gb_30", f.gateway.lastPlan)
	})
}

func TestProcessTransaction_UnsupportedServiceFailsGracefully(t *testing.T) {
	f := setup(t, 5000)

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceElectricity, "mtn", "08098765432", 2000)
	require.NoError(t, err)
	txn.User = f.user

	require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

	fresh := f.reload(t, txn)
	assert.Equal(t, models.StatusFailed, fresh.Status)
	assert.Contains(t, fresh.FailureReason, "not available yet")
	assert.NotNil(t, fresh.RefundedAt)
	assert.Equal(t, 5000.0, f.balance(t))
}

func TestMarkRefunded(t *testing.T) {
	t.Run("failed transaction can be marked refunded", func(t *testing.T) {
		f := setup(t, 100)

		txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
		require.NoError(t, err)
		txn.User = f.user
		require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

		refunded, err := f.svc.MarkRefunded(context.Background(), txn.Reference)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRefunded, refunded.Status)
		assert.NotNil(t, refunded.RefundedAt)
	})

	t.Run("completed transaction cannot be refunded", func(t *testing.T) {
		f := setup(t, 1000)

		txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
		require.NoError(t, err)
		txn.User = f.user
		require.NoError(t, f.svc.ProcessTransaction(context.Background(), txn))

		_, err = f.svc.MarkRefunded(context.Background(), txn.Reference)
		assert.ErrorIs(t, err, ErrNotRefundable)
	})

	t.Run("unknown reference", func(t *testing.T) {
		f := setup(t, 1000)
		_, err := f.svc.MarkRefunded(context.Background(), "TXN_DOESNOTEXIST")
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestStatusMessage(t *testing.T) {
	f := setup(t, 1000)

	txn := &models.Transaction{
		Reference:      "TXN_TESTREF12345",
		NetworkCode:    "mtn",
		ServiceType:    models.ServiceAirtime,
		Amount:         500,
		RecipientPhone: "08098765432",
	}

	tests := []struct {
		status models.TransactionStatus
		want   string
	}{
		{models.StatusPending, "Pending"},
		{models.StatusProcessing, "Processing"},
		{models.StatusCompleted, "Completed"},
		{models.StatusFailed, "Failed"},
		{models.StatusRefunded, "Refunded"},
		{models.TransactionStatus("weird"), "weird"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			txn.Status = tt.status
			msg := f.svc.StatusMessage(txn)
			assert.Contains(t, msg, tt.want)
			assert.Contains(t, msg, txn.Reference)
		})
	}
}

func TestGetByReferenceForUser(t *testing.T) {
	f := setup(t, 1000)

	txn, err := f.svc.CreateTransaction(context.Background(), f.user, models.ServiceAirtime, "mtn", "08098765432", 500)
	require.NoError(t, err)

	got, err := f.svc.GetByReferenceForUser(context.Background(), txn.Reference, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, got.ID)

	// Another user's lookup must not see it.
	_, err = f.svc.GetByReferenceForUser(context.Background(), txn.Reference, f.user.ID+1)
	assert.True(t, errors.Is(err, ErrTransactionNotFound))
}
