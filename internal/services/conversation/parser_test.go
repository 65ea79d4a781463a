package conversation

import (
	"testing"

	"forbill/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePurchaseCommand(t *testing.T) {
	t.Run("airtime one-shot", func(t *testing.T) {
		cmd, ok := ParsePurchaseCommand("Buy ₦500 MTN airtime for 08012345678")
		require.True(t, ok)
		assert.Equal(t, models.ServiceAirtime, cmd.ServiceType)
		assert.Equal(t, "mtn", cmd.NetworkCode)
		assert.Equal(t, 500.0, cmd.Amount)
		assert.Equal(t, "08012345678", cmd.Phone)
	})

	t.Run("airtime without currency sign", func(t *testing.T) {
		cmd, ok := ParsePurchaseCommand("buy 1,000 glo airtime for 08098765432")
		require.True(t, ok)
		assert.Equal(t, 1000.0, cmd.Amount)
		assert.Equal(t, "glo", cmd.NetworkCode)
	})

	t.Run("airtime to international number", func(t *testing.T) {
		cmd, ok := ParsePurchaseCommand("buy 200 airtel airtime for 2348012345678")
		require.True(t, ok)
		assert.Equal(t, "08012345678", cmd.Phone)
	})

	t.Run("data one-shot resolves a plan", func(t *testing.T) {
		cmd, ok := ParsePurchaseCommand("Buy 1GB MTN data for 08012345678")
		require.True(t, ok)
		assert.Equal(t, models.ServiceData, cmd.ServiceType)
		assert.Equal(t, "mtn_1gb_30", cmd.PlanCode)
		assert.Equal(t, 1000.0, cmd.Amount)
	})

	t.Run("unknown data bundle does not parse", func(t *testing.T) {
		_, ok := ParsePurchaseCommand("buy 3GB mtn data for 08012345678")
		assert.False(t, ok)
	})

	t.Run("bad phone does not parse", func(t *testing.T) {
		_, ok := ParsePurchaseCommand("buy 500 mtn airtime for 12345678")
		assert.False(t, ok)
	})

	t.Run("plain chatter does not parse", func(t *testing.T) {
		_, ok := ParsePurchaseCommand("hello there")
		assert.False(t, ok)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"500", 500, true},
		{"₦500", 500, true},
		{"1,000", 1000, true},
		{"ngn250", 250, true},
		{"250.50", 250.50, true},
		{"0", 0, false},
		{"-50", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestParsePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"08012345678", "08012345678", true},
		{"0801 234 5678", "08012345678", true},
		{"2348012345678", "08012345678", true},
		{"+234 801-234-5678", "08012345678", true},
		{"12345678", "", false},
		{"080123456789", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParsePhone(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestParseServiceSelection(t *testing.T) {
	network, serviceType := ParseServiceSelection("MTN airtime")
	assert.Equal(t, "mtn", network)
	assert.Equal(t, models.ServiceAirtime, serviceType)

	network, serviceType = ParseServiceSelection("glo data please")
	assert.Equal(t, "glo", network)
	assert.Equal(t, models.ServiceData, serviceType)

	network, serviceType = ParseServiceSelection("just data")
	assert.Equal(t, "", network)
	assert.Equal(t, models.ServiceData, serviceType)

	network, serviceType = ParseServiceSelection("9mobile")
	assert.Equal(t, "9mobile", network)
	assert.Equal(t, "", serviceType)
}

func TestParseStatusReference(t *testing.T) {
	ref, ok := ParseStatusReference("status TXN_ABC123456789")
	require.True(t, ok)
	assert.Equal(t, "TXN_ABC123456789", ref)

	ref, ok = ParseStatusReference("what happened to txn_def987654321?")
	require.True(t, ok)
	assert.Equal(t, "TXN_DEF987654321", ref)

	_, ok = ParseStatusReference("my transactions")
	assert.False(t, ok)
}

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"hi", IntentGreeting},
		{"Hello", IntentGreeting},
		{"start", IntentGreeting},
		{"help", IntentHelp},
		{"menu", IntentHelp},
		{"balance", IntentBalance},
		{"my balance", IntentBalance},
		{"cancel", IntentCancel},
		{"status TXN_ABC123456789", IntentStatus},
		{"my transactions", IntentStatus},
		{"airtime", IntentPurchase},
		{"buy 500 mtn airtime for 08012345678", IntentPurchase},
		{"I need data", IntentPurchase},
		{"recharge my line", IntentPurchase},
		{"what is the weather", IntentUnrecognized},
		{"", IntentUnrecognized},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectIntent(tt.in), "input %q", tt.in)
	}
}

func TestConfirmationReplies(t *testing.T) {
	assert.True(t, IsAffirmative("yes"))
	assert.True(t, IsAffirmative(" YES "))
	assert.True(t, IsAffirmative("ok"))
	assert.False(t, IsAffirmative("maybe"))

	assert.True(t, IsNegative("no"))
	assert.True(t, IsNegative("cancel"))
	assert.False(t, IsNegative("yes"))
}
