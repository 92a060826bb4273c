package domain

import (
	"time"
)

// ExtractionResult is the validated shape of a recognition service response.
// The raw payload is coerced into this struct at the extraction adapter;
// anything failing validation there surfaces as an extraction-kind error,
// never as a malformed result.
type ExtractionResult struct {
	StoreName    string
	PurchaseTime *time.Time
	Category     string
	TotalAmount  *float64
	Items        []ExtractedItem
}

// ExtractedItem is one recognized line item. Tags is an ordered, possibly
// empty sequence of free-text English keywords; an absent tags field is
// treated as empty, never nil-propagated.
type ExtractedItem struct {
	OriginalName      string
	GeneralizedName   string
	Quantity          float64
	UnitPrice         float64
	Tags              []string
	WeightVolumeText  string
	ParsedWeightGrams *float64
	ParsedVolumeML    *float64
}

// ArchiveReference points at the durably stored original document.
type ArchiveReference struct {
	Key string
	URL string
}
