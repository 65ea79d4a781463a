package conversation

import (
	"regexp"
	"strconv"
	"strings"

	"forbill/internal/models"
	"forbill/internal/services/vtu"
)

// PurchaseCommand is a fully specified one-shot purchase request parsed
// from a single message.
type PurchaseCommand struct {
	ServiceType string
	NetworkCode string
	Amount      float64
	PlanCode    string
	PlanName    string
	Phone       string
}

// "buy ₦500 mtn airtime for 08012345678"
var airtimeCommandRe = regexp.MustCompile(
	`(?i)buy\s+(?:₦|n|ngn)?\s*([\d,]+(?:\.\d+)?)\s+(mtn|airtel|glo|9mobile)\s+airtime\s+for\s+(\+?\d[\d\s-]{7,})`)

// "buy 1gb mtn data for 08012345678"
var dataCommandRe = regexp.MustCompile(
	`(?i)buy\s+(\d+(?:\.\d+)?\s*gb)\s+(mtn|airtel|glo|9mobile)\s+data\s+for\s+(\+?\d[\d\s-]{7,})`)

// ParsePurchaseCommand recognizes the one-shot command forms. A parsed
// command skips the step-by-step flow and goes straight to confirmation.
func ParsePurchaseCommand(text string) (*PurchaseCommand, bool) {
	if m := airtimeCommandRe.FindStringSubmatch(text); m != nil {
		amount, ok := ParseAmount(m[1])
		if !ok {
			return nil, false
		}
		phone, ok := ParsePhone(m[3])
		if !ok {
			return nil, false
		}
		return &PurchaseCommand{
			ServiceType: models.ServiceAirtime,
			NetworkCode: strings.ToLower(m[2]),
			Amount:      amount,
			Phone:       phone,
		}, true
	}

	if m := dataCommandRe.FindStringSubmatch(text); m != nil {
		network := strings.ToLower(m[2])
		planName := strings.ToUpper(strings.ReplaceAll(m[1], " ", ""))
		plan, found := vtu.MatchDataPlan(network, planName)
		if !found {
			return nil, false
		}
		phone, ok := ParsePhone(m[3])
		if !ok {
			return nil, false
		}
		return &PurchaseCommand{
			ServiceType: models.ServiceData,
			NetworkCode: network,
			Amount:      plan.Amount,
			PlanCode:    plan.Code,
			PlanName:    plan.Name,
			Phone:       phone,
		}, true
	}

	return nil, false
}

// ParseAmount reads a naira amount, tolerating the currency sign,
// thousands separators and surrounding text like "ngn".
func ParseAmount(text string) (float64, bool) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "₦")
	cleaned = strings.TrimPrefix(strings.ToLower(cleaned), "ngn")
	cleaned = strings.TrimPrefix(cleaned, "n")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}
	return amount, true
}

// ParsePhone validates and normalizes a Nigerian recipient number. It
// accepts the local 0-prefixed form and the international 234 form.
func ParsePhone(text string) (string, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	p := digits.String()

	switch {
	case len(p) == 11 && strings.HasPrefix(p, "0"):
		return p, true
	case len(p) == 13 && strings.HasPrefix(p, "234"):
		return "0" + p[3:], true
	default:
		return "", false
	}
}

// ParseServiceSelection reads a combined "mtn airtime" / "glo data" style
// reply as network plus service type. Either part may be missing.
func ParseServiceSelection(text string) (network, serviceType string) {
	msg := strings.ToLower(text)
	for _, code := range []string{"mtn", "airtel", "glo", "9mobile"} {
		if strings.Contains(msg, code) {
			network = code
			break
		}
	}
	if strings.Contains(msg, "airtime") || strings.Contains(msg, "recharge") {
		serviceType = models.ServiceAirtime
	} else if strings.Contains(msg, "data") || strings.Contains(msg, "internet") {
		serviceType = models.ServiceData
	}
	return network, serviceType
}

// statusReferenceRe pulls a transaction reference out of a status query.
var statusReferenceRe = regexp.MustCompile(`(?i)(TXN_[A-Z0-9]+)`)

// ParseStatusReference extracts a transaction reference from text such as
// "status TXN_ABC123456789".
func ParseStatusReference(text string) (string, bool) {
	m := statusReferenceRe.FindStringSubmatch(strings.ToUpper(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// IsAffirmative recognizes confirmation replies.
func IsAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "confirm", "ok", "okay", "proceed":
		return true
	}
	return false
}

// IsNegative recognizes rejection replies.
func IsNegative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "no", "n", "cancel", "stop":
		return true
	}
	return false
}
