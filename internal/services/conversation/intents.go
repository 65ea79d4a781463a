package conversation

import "strings"

// Intent is the coarse classification of an inbound message.
type Intent string

const (
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentBalance      Intent = "balance"
	IntentPurchase     Intent = "purchase"
	IntentStatus       Intent = "status"
	IntentCancel       Intent = "cancel"
	IntentUnrecognized Intent = "unrecognized"
)

var (
	greetingWords = []string{"hi", "hello", "hey", "start"}
	helpWords     = []string{"help", "menu", "options"}
	balanceWords  = []string{"balance", "wallet", "my balance"}
	cancelWords   = []string{"cancel", "stop", "quit", "exit"}
)

// DetectIntent maps inbound text to an intent. Exact keyword matches win
// over substring checks so "help" never turns into a purchase.
func DetectIntent(text string) Intent {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return IntentUnrecognized
	}

	if containsWord(greetingWords, msg) {
		return IntentGreeting
	}
	if containsWord(helpWords, msg) {
		return IntentHelp
	}
	if containsWord(balanceWords, msg) {
		return IntentBalance
	}
	if containsWord(cancelWords, msg) {
		return IntentCancel
	}
	if strings.Contains(msg, "status") || strings.Contains(msg, "transaction") {
		return IntentStatus
	}
	if strings.Contains(msg, "airtime") || strings.Contains(msg, "recharge") ||
		strings.Contains(msg, "data") || strings.Contains(msg, "internet") ||
		strings.HasPrefix(msg, "buy") {
		return IntentPurchase
	}
	return IntentUnrecognized
}

func containsWord(words []string, msg string) bool {
	for _, w := range words {
		if msg == w {
			return true
		}
	}
	return false
}
