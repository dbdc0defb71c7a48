package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements policy.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindActiveByPolicy finds the current (non-deleted) invoice set for a policy
func (r *GormInvoiceRepository) FindActiveByPolicy(ctx context.Context, policyID uuid.UUID) ([]policy.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ? AND deleted = ?", policyID, false).
		Order("bill_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindActiveBilledThrough finds non-deleted invoices with bill date <= asOf
func (r *GormInvoiceRepository) FindActiveBilledThrough(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]policy.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ? AND deleted = ? AND bill_date <= ?", policyID, false, asOf).
		Order("bill_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindActiveBilledFrom finds non-deleted invoices with bill date >= from
func (r *GormInvoiceRepository) FindActiveBilledFrom(ctx context.Context, policyID uuid.UUID, from time.Time) ([]policy.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ? AND deleted = ? AND bill_date >= ?", policyID, false, from).
		Order("bill_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// FindActiveCancelEligible finds non-deleted invoices with cancel date <= asOf
func (r *GormInvoiceRepository) FindActiveCancelEligible(ctx context.Context, policyID uuid.UUID, asOf time.Time) ([]policy.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("policy_id = ? AND deleted = ? AND cancel_date <= ?", policyID, false, asOf).
		Order("bill_date ASC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return toDomainInvoices(invoiceModels), nil
}

// ReplaceFrom atomically soft-deletes every non-deleted invoice with bill
// date >= from and inserts the replacement set. Superseded rows stay in the
// table with deleted = true so billing history survives regeneration.
func (r *GormInvoiceRepository) ReplaceFrom(ctx context.Context, policyID uuid.UUID, from time.Time, invoices []*policy.Invoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.InvoiceModel{}).
			Where("policy_id = ? AND deleted = ? AND bill_date >= ?", policyID, false, from).
			Updates(map[string]any{"deleted": true, "updated_at": time.Now()}).Error; err != nil {
			return err
		}

		if len(invoices) == 0 {
			return nil
		}

		invoiceModels := make([]*models.InvoiceModel, len(invoices))
		for i, invoice := range invoices {
			invoiceModels[i] = models.InvoiceModelFromDomain(invoice)
		}
		return tx.Create(invoiceModels).Error
	})
}

func toDomainInvoices(invoiceModels []models.InvoiceModel) []policy.Invoice {
	invoices := make([]policy.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements policy.InvoiceRepository
var _ policy.InvoiceRepository = (*GormInvoiceRepository)(nil)
