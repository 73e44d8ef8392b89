package models

import "time"

// Customer is a payer that charges are issued against. Email and document are
// globally unique; the constraints back the service-level conflict checks.
type Customer struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"type:text;not null"`
	Email     string    `gorm:"type:text;not null;uniqueIndex:customers_email_key"`
	Document  string    `gorm:"type:text;not null;uniqueIndex:customers_document_key"`
	Phone     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
