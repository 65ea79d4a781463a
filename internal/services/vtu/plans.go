package vtu

import "strings"

// DataPlan is one purchasable bundle on a network.
type DataPlan struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

var networkNames = map[string]string{
	"mtn":     "MTN",
	"airtel":  "Airtel",
	"glo":     "GLO",
	"9mobile": "9Mobile",
}

// TODO: fetch plan catalogs from the provider's data-plans endpoint once
// the partners expose one; these mirror the launch pricing.
var dataPlans = map[string][]DataPlan{
	"mtn": {
		{Code: "mtn_1gb_30", Name: "1GB - 30 Days", Amount: 1000},
		{Code: "mtn_2gb_30", Name: "2GB - 30 Days", Amount: 2000},
		{Code: "mtn_5gb_30", Name: "5GB - 30 Days", Amount: 2500},
		{Code: "mtn_10gb_30", Name: "10GB - 30 Days", Amount: 5000},
	},
	"airtel": {
		{Code: "airtel_1gb_30", Name: "1GB - 30 Days", Amount: 1000},
		{Code: "airtel_2gb_30", Name: "2GB - 30 Days", Amount: 2000},
		{Code: "airtel_5gb_30", Name: "5GB - 30 Days", Amount: 2500},
		{Code: "airtel_10gb_30", Name: "10GB - 30 Days", Amount: 5000},
	},
	"glo": {
		{Code: "glo_1gb_30", Name: "1GB - 30 Days", Amount: 1000},
		{Code: "glo_2gb_30", Name: "2GB - 30 Days", Amount: 2000},
		{Code: "glo_5gb_30", Name: "5GB - 30 Days", Amount: 2500},
		{Code: "glo_10gb_30", Name: "10GB - 30 Days", Amount: 5000},
	},
	"9mobile": {
		{Code: "9mobile_1gb_30", Name: "1GB - 30 Days", Amount: 1000},
		{Code: "9mobile_2gb_30", Name: "2GB - 30 Days", Amount: 2000},
		{Code: "9mobile_5gb_30", Name: "5GB - 30 Days", Amount: 2500},
		{Code: "9mobile_10gb_30", Name: "10GB - 30 Days", Amount: 5000},
	},
}

// IsValidNetworkCode reports whether code is a supported network.
func IsValidNetworkCode(code string) bool {
	_, ok := networkNames[strings.ToLower(code)]
	return ok
}

// NetworkName returns the display name for a network code.
func NetworkName(code string) string {
	if name, ok := networkNames[strings.ToLower(code)]; ok {
		return name
	}
	return strings.ToUpper(code)
}

// GetDataPlans returns the plan catalog for a network.
func GetDataPlans(networkCode string) []DataPlan {
	return dataPlans[strings.ToLower(networkCode)]
}

// FindDataPlan resolves a plan code on a network.
func FindDataPlan(networkCode, planCode string) (DataPlan, bool) {
	for _, plan := range GetDataPlans(networkCode) {
		if plan.Code == planCode {
			return plan, true
		}
	}
	return DataPlan{}, false
}

// MatchDataPlan resolves a plan from a user-typed query, by exact code or
// by bundle size ("1GB", "1 gb").
func MatchDataPlan(networkCode, query string) (DataPlan, bool) {
	q := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(query), " ", ""))
	for _, plan := range GetDataPlans(networkCode) {
		if strings.EqualFold(plan.Code, q) {
			return plan, true
		}
		size := strings.ToUpper(strings.SplitN(plan.Name, " ", 2)[0])
		if size == q {
			return plan, true
		}
	}
	return DataPlan{}, false
}
