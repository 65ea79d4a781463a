package models

import (
	"math"
	"time"
)

// Provider service capabilities
const (
	ProviderServiceAirtime = "airtime"
	ProviderServiceData    = "data"
	ProviderServiceBoth    = "both"
)

// Provider is a VTU fulfillment partner configuration.
type Provider struct {
	ID             uint   `gorm:"primarykey"`
	Name           string `gorm:"not null"`
	Code           string `gorm:"uniqueIndex;not null"`
	APIEndpoint    string `gorm:"not null"`
	APIKey         string `json:"-"`
	SecretKey      string `json:"-"`
	ServiceType    string  `gorm:"not null;default:'both'"`
	IsActive       bool    `gorm:"default:true"`
	CommissionRate float64 `gorm:"not null;default:0.02"`
	Settings       JSON    `gorm:"type:jsonb"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SupportsServiceType reports whether the provider can fulfill serviceType.
func (p *Provider) SupportsServiceType(serviceType string) bool {
	if p.ServiceType == ProviderServiceBoth {
		return serviceType == ServiceAirtime || serviceType == ServiceData
	}
	return p.ServiceType == serviceType
}

// CalculateCommission applies the provider's rate to amount, rounded to
// two decimal places (the currency's minor unit).
func (p *Provider) CalculateCommission(amount float64) float64 {
	return math.Round(amount*p.CommissionRate*100) / 100
}

// MinAmount returns the provider's configured minimum purchase amount.
func (p *Provider) MinAmount(def float64) float64 {
	return p.settingsFloat("min_amount", def)
}

// MaxAmount returns the provider's configured maximum purchase amount.
func (p *Provider) MaxAmount(def float64) float64 {
	return p.settingsFloat("max_amount", def)
}

func (p *Provider) settingsFloat(key string, def float64) float64 {
	switch v := p.Settings.GetPath(key, nil).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}
