package repositories

import (
	"fmt"

	"forbill/internal/models"

	"gorm.io/gorm"
)

// TemplateRepository serves the outbound message template catalog.
type TemplateRepository interface {
	GetActiveByName(name string) (*models.MessageTemplate, error)
	Upsert(template *models.MessageTemplate) error
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository creates a gorm-backed TemplateRepository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) GetActiveByName(name string) (*models.MessageTemplate, error) {
	var tpl models.MessageTemplate
	err := r.db.Where("name = ? AND is_active = ?", name, true).First(&tpl).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return &tpl, nil
}

func (r *templateRepository) Upsert(template *models.MessageTemplate) error {
	var existing models.MessageTemplate
	err := r.db.Where("name = ?", template.Name).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.db.Create(template).Error
	}
	if err != nil {
		return fmt.Errorf("failed to look up template: %w", err)
	}
	template.ID = existing.ID
	return r.db.Save(template).Error
}
