package charges

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/rafaelqueiroz/charges-backend/pkg/db"
	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
	pkgerrors "github.com/rafaelqueiroz/charges-backend/pkg/errors"
	"github.com/rafaelqueiroz/charges-backend/pkg/pagination"
)

type chargesRepository interface {
	Create(ctx context.Context, charge *models.Charge) (*models.Charge, error)
	FindByID(ctx context.Context, id int64) (*models.Charge, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*models.Charge, error)
	FindAll(ctx context.Context) ([]models.Charge, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]models.Charge, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ChargeStatus) error
	Delete(ctx context.Context, id int64) error
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	FindPage(ctx context.Context, offset, limit int) ([]models.Charge, error)
	Count(ctx context.Context) (int64, error)
}

type customerFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
}

// Service exposes the charge lifecycle: creation, status transitions,
// deletion, listing and the overdue-boleto sweep.
type Service interface {
	Create(ctx context.Context, input CreateChargeInput) (*models.Charge, error)
	FindByID(ctx context.Context, id int64) (*models.Charge, error)
	FindAll(ctx context.Context) ([]models.Charge, error)
	FindByCustomer(ctx context.Context, customerID int64) ([]models.Charge, error)
	FindPaginated(ctx context.Context, params pagination.Params) (*Page, error)
	UpdateStatus(ctx context.Context, id int64, status enums.ChargeStatus) (*models.Charge, error)
	Delete(ctx context.Context, id int64) (*models.Charge, error)
	ExpireOverdue(ctx context.Context) (*ExpireResult, error)
}

type service struct {
	repo      chargesRepository
	customers customerFinder
	now       func() time.Time
}

// NewService builds a charge service backed by the provided repositories.
func NewService(repo chargesRepository, customers customerFinder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "charge repository required")
	}
	if customers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer finder required")
	}
	return &service{repo: repo, customers: customers, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateChargeInput) (*models.Charge, error) {
	// the owning customer must exist before the payload is inspected
	if _, err := s.customers.FindByID(ctx, input.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup charge customer")
	}

	if err := validateMethodFields(input); err != nil {
		return nil, err
	}

	key := strings.TrimSpace(input.IdempotencyKey)
	if _, err := s.repo.FindByIdempotencyKey(ctx, key); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "charge with this key already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check idempotency key")
	}

	charge := &models.Charge{
		Amount:         input.Amount,
		Currency:       strings.ToUpper(strings.TrimSpace(input.Currency)),
		Method:         input.Method,
		CustomerID:     input.CustomerID,
		IdempotencyKey: key,
		Status:         enums.ChargeStatusPending,
	}
	switch input.Method {
	case enums.PaymentMethodPix:
		charge.PixKey = input.PixKey
		charge.QRCode = input.QRCode
	case enums.PaymentMethodCreditCard:
		charge.Installments = input.Installments
	case enums.PaymentMethodBoleto:
		charge.DueDate = input.DueDate
	}

	created, err := s.repo.Create(ctx, charge)
	if err != nil {
		// concurrent creates race past the pre-check; the constraint settles it
		if db.IsUniqueViolation(err, "charges_idempotency_key_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "charge with this key already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create charge")
	}
	return created, nil
}

func (s *service) FindByID(ctx context.Context, id int64) (*models.Charge, error) {
	charge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "charge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup charge")
	}
	return charge, nil
}

func (s *service) FindAll(ctx context.Context) ([]models.Charge, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list charges")
	}
	return rows, nil
}

func (s *service) FindByCustomer(ctx context.Context, customerID int64) ([]models.Charge, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup charge customer")
	}

	rows, err := s.repo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer charges")
	}
	return rows, nil
}

func (s *service) FindPaginated(ctx context.Context, params pagination.Params) (*Page, error) {
	params = params.Normalize()

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count charges")
	}
	rows, err := s.repo.FindPage(ctx, params.Offset(), params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "page charges")
	}

	return &Page{
		Data:  rows,
		Total: total,
		Page:  params.Page,
		Limit: params.Limit,
		Pages: pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int64, status enums.ChargeStatus) (*models.Charge, error) {
	charge, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !charge.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("charge cannot move from %s to %s", charge.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update charge status")
	}
	charge.Status = status
	return charge, nil
}

func (s *service) Delete(ctx context.Context, id int64) (*models.Charge, error) {
	charge, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if charge.Status != enums.ChargeStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only pending charges can be deleted")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete charge")
	}
	return charge, nil
}

func (s *service) ExpireOverdue(ctx context.Context) (*ExpireResult, error) {
	count, err := s.repo.ExpireOverdue(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "expire overdue boletos")
	}
	return &ExpireResult{
		ExpiredCount: count,
		Message:      fmt.Sprintf("%d overdue boletos were expired", count),
	}, nil
}

func validateMethodFields(input CreateChargeInput) error {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero")
	}

	switch input.Method {
	case enums.PaymentMethodPix:
		if input.PixKey == nil || strings.TrimSpace(*input.PixKey) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "pixKey is required for PIX charges")
		}
		if input.QRCode == nil || strings.TrimSpace(*input.QRCode) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "qrCode is required for PIX charges")
		}
	case enums.PaymentMethodCreditCard:
		if input.Installments == nil || *input.Installments < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "installments must be at least 1 for CREDIT_CARD charges")
		}
	case enums.PaymentMethodBoleto:
		if input.DueDate == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "dueDate is required for BOLETO charges")
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}
	return nil
}
