package charges

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
)

// CreateChargeInput carries the method-discriminated creation payload. The
// optional fields belong to specific payment methods and are validated against
// the declared method before anything is persisted.
type CreateChargeInput struct {
	Amount         decimal.Decimal
	Currency       string
	Method         enums.PaymentMethod
	CustomerID     int64
	IdempotencyKey string

	// CREDIT_CARD
	Installments *int
	// PIX
	PixKey *string
	QRCode *string
	// BOLETO
	DueDate *time.Time
}

// ExpireResult summarizes a bulk overdue-boleto sweep.
type ExpireResult struct {
	ExpiredCount int64
	Message      string
}

// Page is one page of charges plus the totals needed by clients to paginate.
type Page struct {
	Data  []models.Charge
	Total int64
	Page  int
	Limit int
	Pages int
}
