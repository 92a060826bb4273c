package entities

import (
	"github.com/google/uuid"
)

// ProductEntry is one line item of a Receipt. Entries are exclusively owned
// by their Receipt and are replaced wholesale whenever the Receipt is
// replaced. Position preserves the order in which items appeared on the
// receipt.
type ProductEntry struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID       uuid.UUID `gorm:"index;not null" json:"receipt_id"`
	Position        int       `gorm:"not null" json:"position"`
	OriginalName    string    `gorm:"not null" json:"original_name"`
	GeneralizedName string    `gorm:"index;not null" json:"generalized_name"`
	Quantity        float64   `gorm:"not null;default:1" json:"quantity"`
	UnitPrice       float64   `gorm:"not null" json:"unit_price"`
	Tags            []string  `gorm:"serializer:json" json:"tags"`

	WeightVolumeText  string   `json:"weight_volume_text,omitempty"`
	ParsedWeightGrams *float64 `json:"parsed_weight_grams,omitempty"`
	ParsedVolumeML    *float64 `json:"parsed_volume_ml,omitempty"`

	Receipt *Receipt `gorm:"foreignKey:ReceiptID"`
	Timestamp
}
