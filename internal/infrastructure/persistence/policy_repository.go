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

// GormPolicyRepository implements policy.PolicyRepository using GORM
type GormPolicyRepository struct {
	db *gorm.DB
}

// NewGormPolicyRepository creates a new GormPolicyRepository
func NewGormPolicyRepository(db *gorm.DB) *GormPolicyRepository {
	return &GormPolicyRepository{db: db}
}

// FindByID finds a policy by its ID
func (r *GormPolicyRepository) FindByID(ctx context.Context, id uuid.UUID) (*policy.Policy, error) {
	var model models.PolicyModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a policy by its policy number
func (r *GormPolicyRepository) FindByNumber(ctx context.Context, policyNumber string) (*policy.Policy, error) {
	var model models.PolicyModel
	if err := r.db.WithContext(ctx).
		Where("policy_number = ?", policyNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a policy
func (r *GormPolicyRepository) Save(ctx context.Context, p *policy.Policy) error {
	model := models.PolicyModelFromDomain(p)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormPolicyRepository implements policy.PolicyRepository
var _ policy.PolicyRepository = (*GormPolicyRepository)(nil)
