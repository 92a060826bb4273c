package entities

import (
	"github.com/google/uuid"
)

// Store identity is the normalized merchant name. Rows are created on first
// sighting and never deleted.
type Store struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"uniqueIndex;not null" json:"name"`

	Receipts []*Receipt `gorm:"foreignKey:StoreID"`
	Timestamp
}
