package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
)

// Charge records a payment request against a customer. The method-specific
// columns (installments, pix_key, qr_code, due_date) are nullable; the service
// enforces which ones are required for each payment method.
type Charge struct {
	ID             int64               `gorm:"primaryKey;autoIncrement"`
	Amount         decimal.Decimal     `gorm:"type:numeric(12,2);not null"`
	Currency       string              `gorm:"type:char(3);not null"`
	Method         enums.PaymentMethod `gorm:"type:payment_method;not null"`
	CustomerID     int64               `gorm:"column:customer_id;not null;index"`
	Customer       *Customer           `gorm:"foreignKey:CustomerID"`
	IdempotencyKey string              `gorm:"column:idempotency_key;type:text;not null;uniqueIndex:charges_idempotency_key_key"`
	Status         enums.ChargeStatus  `gorm:"type:charge_status;not null;default:'PENDING'"`
	Installments   *int                `gorm:"column:installments"`
	PixKey         *string             `gorm:"column:pix_key"`
	QRCode         *string             `gorm:"column:qr_code"`
	DueDate        *time.Time          `gorm:"column:due_date"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
