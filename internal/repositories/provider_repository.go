package repositories

import (
	"fmt"

	"forbill/internal/models"

	"gorm.io/gorm"
)

// ProviderRepository reads and writes VTU provider configuration.
type ProviderRepository interface {
	Create(provider *models.Provider) error
	Update(provider *models.Provider) error
	GetByID(id uint) (*models.Provider, error)
	GetActiveByCode(code string) (*models.Provider, error)
	List() ([]models.Provider, error)
}

type providerRepository struct {
	db *gorm.DB
}

// NewProviderRepository creates a gorm-backed ProviderRepository.
func NewProviderRepository(db *gorm.DB) ProviderRepository {
	return &providerRepository{db: db}
}

func (r *providerRepository) Create(provider *models.Provider) error {
	if err := r.db.Create(provider).Error; err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *providerRepository) Update(provider *models.Provider) error {
	if err := r.db.Save(provider).Error; err != nil {
		return fmt.Errorf("failed to update provider: %w", err)
	}
	return nil
}

func (r *providerRepository) GetByID(id uint) (*models.Provider, error) {
	var provider models.Provider
	if err := r.db.First(&provider, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) GetActiveByCode(code string) (*models.Provider, error) {
	var provider models.Provider
	err := r.db.Where("code = ? AND is_active = ?", code, true).First(&provider).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrProviderNotFound
		}
		return nil, fmt.Errorf("failed to get provider: %w", err)
	}
	return &provider, nil
}

func (r *providerRepository) List() ([]models.Provider, error) {
	var providers []models.Provider
	if err := r.db.Order("code").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}
	return providers, nil
}
