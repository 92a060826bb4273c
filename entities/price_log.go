package entities

import (
	"time"

	"github.com/google/uuid"
)

// PriceLog is an append-only price observation derived from a ProductEntry
// at persistence time. Rows are never updated or deleted.
type PriceLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID         uuid.UUID `gorm:"index;not null" json:"store_id"`
	GeneralizedName string    `gorm:"index;not null" json:"generalized_name"`
	UnitPrice       float64   `gorm:"not null" json:"unit_price"`
	ObservedAt      time.Time `gorm:"type:timestamp;index" json:"observed_at"`
	ReceiptBaseID   string    `gorm:"index" json:"receipt_base_id"`
	CreatedAt       time.Time `gorm:"type:timestamp" json:"created_at"`

	Store *Store `gorm:"foreignKey:StoreID"`
}
