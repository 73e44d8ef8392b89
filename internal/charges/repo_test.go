package charges

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/rafaelqueiroz/charges-backend/pkg/db"
	"github.com/rafaelqueiroz/charges-backend/pkg/db/models"
	"github.com/rafaelqueiroz/charges-backend/pkg/enums"
)

func setupChargesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  document TEXT NOT NULL UNIQUE,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	charges := `
CREATE TABLE IF NOT EXISTS charges (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  amount NUMERIC NOT NULL,
  currency TEXT NOT NULL,
  method TEXT NOT NULL,
  customer_id INTEGER NOT NULL,
  idempotency_key TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'PENDING',
  installments INTEGER,
  pix_key TEXT,
  qr_code TEXT,
  due_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, conn.Exec(customers).Error)
	require.NoError(t, conn.Exec(charges).Error)
	return conn
}

func newChargeCustomer(t *testing.T, conn *gorm.DB, email string) *models.Customer {
	t.Helper()

	customer := &models.Customer{
		Name:     "Ana Souza",
		Email:    email,
		Document: "doc-" + email,
		Phone:    "+5511999990000",
	}
	require.NoError(t, conn.Create(customer).Error)
	return customer
}

func createCharge(t *testing.T, conn *gorm.DB, customer *models.Customer, key string, method enums.PaymentMethod, status enums.ChargeStatus, dueDate *time.Time, created time.Time) *models.Charge {
	t.Helper()

	charge := &models.Charge{
		Amount:         decimal.NewFromFloat(150.50),
		Currency:       "BRL",
		Method:         method,
		CustomerID:     customer.ID,
		IdempotencyKey: key,
		Status:         status,
		DueDate:        dueDate,
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	require.NoError(t, conn.Create(charge).Error)
	return charge
}

func TestRepositoryExpireOverdue(t *testing.T) {
	conn := setupChargesTestDB(t)
	repo := NewRepository(conn)

	customer := newChargeCustomer(t, conn, "ana@example.com")
	now := time.Now().UTC()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	overdue := createCharge(t, conn, customer, "key-overdue", enums.PaymentMethodBoleto, enums.ChargeStatusPending, &past, now)
	notDue := createCharge(t, conn, customer, "key-future", enums.PaymentMethodBoleto, enums.ChargeStatusPending, &future, now)
	paid := createCharge(t, conn, customer, "key-paid", enums.PaymentMethodBoleto, enums.ChargeStatusPaid, &past, now)
	pix := createCharge(t, conn, customer, "key-pix", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)

	count, err := repo.ExpireOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	expectStatus := func(id int64, want enums.ChargeStatus) {
		t.Helper()
		row, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, row.Status)
	}
	expectStatus(overdue.ID, enums.ChargeStatusExpired)
	expectStatus(notDue.ID, enums.ChargeStatusPending)
	expectStatus(paid.ID, enums.ChargeStatusPaid)
	expectStatus(pix.ID, enums.ChargeStatusPending)

	// a second sweep finds nothing left to expire
	count, err = repo.ExpireOverdue(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepositoryFindPage(t *testing.T) {
	conn := setupChargesTestDB(t)
	repo := NewRepository(conn)

	customer := newChargeCustomer(t, conn, "page@example.com")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 1; i <= 12; i++ {
		createCharge(t, conn, customer, fmt.Sprintf("key-%02d", i), enums.PaymentMethodPix, enums.ChargeStatusPending, nil, base.Add(time.Duration(i)*time.Minute))
	}

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)

	// newest first, so page 2 with limit 5 holds charges 7 down to 3
	rows, err := repo.FindPage(context.Background(), 5, 5)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "key-07", rows[0].IdempotencyKey)
	assert.Equal(t, "key-03", rows[4].IdempotencyKey)
	assert.Equal(t, "page@example.com", rows[0].Customer.Email)

	rows, err = repo.FindPage(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRepositoryIdempotencyKeyUnique(t *testing.T) {
	conn := setupChargesTestDB(t)
	repo := NewRepository(conn)

	customer := newChargeCustomer(t, conn, "dup@example.com")
	now := time.Now().UTC()
	createCharge(t, conn, customer, "key-dup", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)

	found, err := repo.FindByIdempotencyKey(context.Background(), "key-dup")
	require.NoError(t, err)
	assert.Equal(t, "key-dup", found.IdempotencyKey)

	_, err = repo.FindByIdempotencyKey(context.Background(), "key-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.Create(context.Background(), &models.Charge{
		Amount:         decimal.NewFromInt(10),
		Currency:       "BRL",
		Method:         enums.PaymentMethodPix,
		CustomerID:     customer.ID,
		IdempotencyKey: "key-dup",
		Status:         enums.ChargeStatusPending,
	})
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, "charges_idempotency_key_key"))
}

func TestRepositoryUpdateStatusAndDelete(t *testing.T) {
	conn := setupChargesTestDB(t)
	repo := NewRepository(conn)

	customer := newChargeCustomer(t, conn, "status@example.com")
	now := time.Now().UTC()
	charge := createCharge(t, conn, customer, "key-status", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)

	require.NoError(t, repo.UpdateStatus(context.Background(), charge.ID, enums.ChargeStatusPaid))
	row, err := repo.FindByID(context.Background(), charge.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ChargeStatusPaid, row.Status)

	require.NoError(t, repo.Delete(context.Background(), charge.ID))
	_, err = repo.FindByID(context.Background(), charge.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindByCustomer(t *testing.T) {
	conn := setupChargesTestDB(t)
	repo := NewRepository(conn)

	ana := newChargeCustomer(t, conn, "ana2@example.com")
	bob := newChargeCustomer(t, conn, "bob@example.com")
	now := time.Now().UTC()
	createCharge(t, conn, ana, "key-a1", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)
	createCharge(t, conn, ana, "key-a2", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)
	createCharge(t, conn, bob, "key-b1", enums.PaymentMethodPix, enums.ChargeStatusPending, nil, now)

	rows, err := repo.FindByCustomer(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	count, err := repo.CountByCustomer(context.Background(), nil, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
