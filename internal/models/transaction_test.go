package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from  TransactionStatus
		to    TransactionStatus
		legal bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusFailed, false},
		{StatusProcessing, StatusCompleted, true},
		{StatusProcessing, StatusFailed, true},
		{StatusProcessing, StatusPending, false},
		{StatusCompleted, StatusFailed, false},
		{StatusCompleted, StatusRefunded, false},
		{StatusFailed, StatusRefunded, true},
		{StatusFailed, StatusProcessing, false},
		{StatusRefunded, StatusFailed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.legal, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusProcessing.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.False(t, StatusFailed.IsTerminal())
	assert.True(t, StatusRefunded.IsTerminal())
}

func TestTransactionTransitionTo(t *testing.T) {
	txn := &Transaction{Reference: "TXN_ABC123456789", Status: StatusPending}

	assert.NoError(t, txn.TransitionTo(StatusProcessing))
	assert.Equal(t, StatusProcessing, txn.Status)

	// Illegal moves leave the status untouched.
	err := txn.TransitionTo(StatusPending)
	assert.Error(t, err)
	assert.Equal(t, StatusProcessing, txn.Status)

	assert.NoError(t, txn.TransitionTo(StatusFailed))
	assert.NoError(t, txn.TransitionTo(StatusRefunded))
	assert.Error(t, txn.TransitionTo(StatusProcessing))
}

func TestIsValidServiceType(t *testing.T) {
	assert.True(t, IsValidServiceType(ServiceAirtime))
	assert.True(t, IsValidServiceType(ServiceData))
	assert.True(t, IsValidServiceType(ServiceElectricity))
	assert.True(t, IsValidServiceType(ServiceTV))
	assert.False(t, IsValidServiceType("lottery"))
	assert.False(t, IsValidServiceType(""))
}

func TestProviderCalculateCommission(t *testing.T) {
	p := &Provider{CommissionRate: 0.02}
	assert.Equal(t, 10.0, p.CalculateCommission(500))
	assert.Equal(t, 0.02, p.CalculateCommission(1))

	// Rounded to the currency's minor unit.
	p.CommissionRate = 0.015
	assert.Equal(t, 0.38, p.CalculateCommission(25))
}

func TestProviderAmountBounds(t *testing.T) {
	p := &Provider{Settings: JSON{"min_amount": 50, "max_amount": 50000}}
	assert.Equal(t, 50.0, p.MinAmount(1))
	assert.Equal(t, 50000.0, p.MaxAmount(0))

	empty := &Provider{}
	assert.Equal(t, 1.0, empty.MinAmount(1))
	assert.Equal(t, 99.0, empty.MaxAmount(99))
}

func TestProviderSupportsServiceType(t *testing.T) {
	both := &Provider{ServiceType: ProviderServiceBoth}
	assert.True(t, both.SupportsServiceType(ServiceAirtime))
	assert.True(t, both.SupportsServiceType(ServiceData))
	assert.False(t, both.SupportsServiceType(ServiceElectricity))

	airtimeOnly := &Provider{ServiceType: ProviderServiceAirtime}
	assert.True(t, airtimeOnly.SupportsServiceType(ServiceAirtime))
	assert.False(t, airtimeOnly.SupportsServiceType(ServiceData))
}
