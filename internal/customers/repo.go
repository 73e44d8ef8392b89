package customers

import (
	"context"

	"gorm.io/gorm"

	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
)

// Repository exposes customer persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a customer repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new customer row.
func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// FindByID returns the customer or gorm.ErrRecordNotFound.
func (r *Repository) FindByID(ctx context.Context, id int64) (*models.Customer, error) {
	var row models.Customer
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindAll returns every customer ordered by id.
func (r *Repository) FindAll(ctx context.Context) ([]models.Customer, error) {
	var rows []models.Customer
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByEmailOrDocument returns a customer matching either value, skipping
// excludeID when it is non-zero. Returns gorm.ErrRecordNotFound on no match.
func (r *Repository) FindByEmailOrDocument(ctx context.Context, email, document string, excludeID int64) (*models.Customer, error) {
	query := r.db.WithContext(ctx).Where("email = ? OR document = ?", email, document)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var row models.Customer
	if err := query.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Update persists the full customer row.
func (r *Repository) Update(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Save(customer).Error
}

// Delete removes the customer row by id. A non-nil tx scopes the delete to
// an ongoing transaction.
func (r *Repository) Delete(ctx context.Context, tx *gorm.DB, id int64) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Delete(&models.Customer{}, id).Error
}
