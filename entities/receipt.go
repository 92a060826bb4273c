package entities

import (
	"time"

	"github.com/google/uuid"
)

// Receipt is one purchase event. The natural key is (BaseID, Extension):
// a rescan with the same pair replaces the row, a different extension
// coexists as a separate row.
type Receipt struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      uuid.UUID `json:"store_id"`
	BaseID       string    `gorm:"uniqueIndex:idx_receipts_base_ext;not null" json:"base_id"`
	Extension    string    `gorm:"uniqueIndex:idx_receipts_base_ext;not null" json:"extension"`
	PurchaseTime time.Time `gorm:"type:timestamp;index" json:"purchase_time"`
	Category     string    `json:"category"`
	ArchiveKey   string    `json:"archive_key"`
	ArchiveURL   string    `json:"archive_url,omitempty"`
	TotalAmount  *float64  `json:"total_amount,omitempty"`

	Store *Store          `gorm:"foreignKey:StoreID"`
	Items []*ProductEntry `gorm:"foreignKey:ReceiptID"`
	Timestamp
}
