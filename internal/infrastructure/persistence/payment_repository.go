package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPaymentRepository implements policy.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByPolicy finds all payments for a policy
func (r *GormPaymentRepository) FindByPolicy(ctx context.Context, policyID uuid.UUID) ([]policy.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ?", policyID).
		Order("transaction_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// FindByPolicyThrough finds payments with transaction date <= asOf
func (r *GormPaymentRepository) FindByPolicyThrough(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]policy.Payment, error) {
	var paymentModels []models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ? AND transaction_date <= ?", policyID, asOf).
		Order("transaction_date ASC").
		Find(&paymentModels).Error; err != nil {
		return nil, err
	}
	return toDomainPayments(paymentModels), nil
}

// Save inserts a new payment record. Payments are append-only, so this is
// always an insert, never an upsert.
func (r *GormPaymentRepository) Save(ctx context.Context, p *policy.Payment) error {
	model := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Create(model).Error
}

func toDomainPayments(paymentModels []models.PaymentModel) []policy.Payment {
	payments := make([]policy.Payment, len(paymentModels))
	for i, model := range paymentModels {
		payments[i] = *model.ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements policy.PaymentRepository
var _ policy.PaymentRepository = (*GormPaymentRepository)(nil)
