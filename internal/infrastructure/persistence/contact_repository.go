package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared"
	"github.com/policyops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormContactRepository implements policy.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*policy.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, c *policy.Contact) error {
	model := models.ContactModelFromDomain(c)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormContactRepository implements policy.ContactRepository
var _ policy.ContactRepository = (*GormContactRepository)(nil)
