package charges

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
)

// Repository exposes charge persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a charge repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new charge row.
func (r *Repository) Create(ctx context.Context, charge *models.Charge) (*models.Charge, error) {
	if err := r.db.WithContext(ctx).Create(charge).Error; err != nil {
		return nil, err
	}
	return charge, nil
}

// FindByID returns the charge or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Charge, error) {
	var row models.Charge
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByIdempotencyKey returns the charge holding the key or gorm.ErrRecordNotFound.
func (r *Repository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Charge, error) {
	var row models.Charge
	if err := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAll returns every charge with its owning customer preloaded.
func (r *Repository) FindAll(ctx context.Context) ([]models.Charge, error) {
	var rows []models.Charge
	if err := r.db.WithContext(ctx).Preload("Customer").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByCustomer returns the customer's charges with customer data preloaded.
func (r *Repository) FindByCustomer(ctx context.Context, customerID int64) ([]models.Charge, error) {
	var rows []models.Charge
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Where("customer_id = ?", customerID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CountByCustomer returns how many charges reference the customer. A non-nil
// tx scopes the count to an ongoing transaction.
func (r *Repository) CountByCustomer(ctx context.Context, tx *gorm.DB, customerID int64) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	var count int64
	err := conn.WithContext(ctx).
		Model(&models.Charge{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateStatus overwrites the charge status.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status enums.ChargeStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Delete removes the charge row by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Charge{}, id).Error
}

// ExpireOverdue flips pending boletos past their due date to EXPIRED in a
// single bulk update and reports how many rows changed.
func (r *Repository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Charge{}).
		Where("method = ? AND status = ? AND due_date < ?", enums.PaymentMethodBoleto, enums.ChargeStatusPending, now).
		Update("status", enums.ChargeStatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// FindPage returns one offset page of charges, most recent first, with
// customer data preloaded.
func (r *Repository) FindPage(ctx context.Context, offset, limit int) ([]models.Charge, error) {
	var rows []models.Charge
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the total number of charges.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Charge{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
