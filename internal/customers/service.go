package customers

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rafaelqueiroz/charges-backend/pkg/db"
	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	pkgerrors "github.com/rafaelqueiroz/charges-backend/pkg/errors"
)

type customersRepository interface {
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	FindAll(ctx context.Context) ([]models.Customer, error)
	FindByEmailOrDocument(ctx context.Context, email, document string, excludeID int64) (*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	Delete(ctx context.Context, tx *gorm.DB, id int64) error
}

type chargeCounter interface {
	CountByCustomer(ctx context.Context, tx *gorm.DB, customerID int64) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes customer CRUD semantics.
type Service interface {
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	FindByID(ctx context.Context, id int64) (*models.Customer, error)
	FindAll(ctx context.Context) ([]models.Customer, error)
	Update(ctx context.Context, id int64, input UpdateCustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id int64) (*models.Customer, error)
}

// CreateCustomerInput holds the fields required to register a customer.
type CreateCustomerInput struct {
	Name     string
	Email    string
	Document string
	Phone    string
}

// UpdateCustomerInput carries a partial update; nil fields are left untouched.
type UpdateCustomerInput struct {
	Name     *string
	Email    *string
	Document *string
	Phone    *string
}

type service struct {
	repo    customersRepository
	charges chargeCounter
	tx      txRunner
}

// NewService builds a customer service backed by the provided repositories.
func NewService(repo customersRepository, charges chargeCounter, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "customer repository required")
	}
	if charges == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "charge counter required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{repo: repo, charges: charges, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error) {
	customer := &models.Customer{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.TrimSpace(input.Email),
		Document: strings.TrimSpace(input.Document),
		Phone:    strings.TrimSpace(input.Phone),
	}

	if err := s.ensureUnique(ctx, customer.Email, customer.Document, 0); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, customer)
	if err != nil {
		// the unique constraint is the source of truth under concurrent creates
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

func (s *service) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup customer")
	}
	return customer, nil
}

func (s *service) FindAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return rows, nil
}

func (s *service) Update(ctx context.Context, id int64, input UpdateCustomerInput) (*models.Customer, error) {
	customer, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		customer.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		customer.Email = strings.TrimSpace(*input.Email)
	}
	if input.Document != nil {
		customer.Document = strings.TrimSpace(*input.Document)
	}
	if input.Phone != nil {
		customer.Phone = strings.TrimSpace(*input.Phone)
	}

	if input.Email != nil || input.Document != nil {
		if err := s.ensureUnique(ctx, customer.Email, customer.Document, customer.ID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "customer already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	return customer, nil
}

func (s *service) Delete(ctx context.Context, id int64) (*models.Customer, error) {
	customer, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// the count and the delete share one transaction so a charge created
	// in between cannot end up referencing a removed customer
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		count, err := s.charges.CountByCustomer(ctx, tx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count customer charges")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "customer has charges and cannot be deleted")
		}
		return s.repo.Delete(ctx, tx, id)
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
	}
	return customer, nil
}

func (s *service) ensureUnique(ctx context.Context, email, document string, excludeID int64) error {
	existing, err := s.repo.FindByEmailOrDocument(ctx, email, document, excludeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer uniqueness")
	}
	if existing != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "customer already registered")
	}
	return nil
}
