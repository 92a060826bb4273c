package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessProcessReceipt  = "receipt processed successfully"
	MessageSuccessGetReceipts     = "receipts retrieved successfully"
	MessageSuccessGetReceipt      = "receipt retrieved successfully"
	MessageSuccessGetPriceHistory = "price history retrieved successfully"
	MessageSuccessGetStores       = "stores retrieved successfully"

	MessageFailedProcessReceipt  = "failed to process receipt"
	MessageFailedGetReceipts     = "failed to retrieve receipts"
	MessageFailedGetReceipt      = "failed to retrieve receipt"
	MessageFailedGetPriceHistory = "failed to retrieve price history"
	MessageFailedGetStores       = "failed to retrieve stores"

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyFile           = errors.New("file content is empty")
	ErrReceiptNotFound     = errors.New("receipt not found")
)

type (
	ProcessReceiptRequest struct {
		Receipt  *multipart.FileHeader `json:"receipt" form:"receipt" validate:"required"`
		Category string                `json:"category" form:"category" validate:"omitempty,max=64"`
	}

	// ProcessingNote reports a fallback applied while deriving the archive
	// identifier. Notes accompany a success; they do not alter the outcome.
	ProcessingNote struct {
		Severity string `json:"severity"`
		Message  string `json:"message"`
	}

	ProcessReceiptResponse struct {
		BaseID       string           `json:"base_id"`
		Extension    string           `json:"extension"`
		ArchiveKey   string           `json:"archive_key"`
		ArchiveURL   string           `json:"archive_url,omitempty"`
		StoreName    string           `json:"store_name"`
		PurchaseTime time.Time        `json:"purchase_time"`
		Category     string           `json:"category"`
		ItemCount    int              `json:"item_count"`
		TotalAmount  *float64         `json:"total_amount,omitempty"`
		Notes        []ProcessingNote `json:"notes,omitempty"`
	}

	ProductEntryResponse struct {
		OriginalName      string   `json:"original_name"`
		GeneralizedName   string   `json:"generalized_name"`
		Quantity          float64  `json:"quantity"`
		UnitPrice         float64  `json:"unit_price"`
		Tags              []string `json:"tags"`
		WeightVolumeText  string   `json:"weight_volume_text,omitempty"`
		ParsedWeightGrams *float64 `json:"parsed_weight_grams,omitempty"`
		ParsedVolumeML    *float64 `json:"parsed_volume_ml,omitempty"`
	}

	ReceiptResponse struct {
		BaseID       string                 `json:"base_id"`
		Extension    string                 `json:"extension"`
		StoreName    string                 `json:"store_name"`
		PurchaseTime time.Time              `json:"purchase_time"`
		Category     string                 `json:"category"`
		ArchiveKey   string                 `json:"archive_key"`
		ArchiveURL   string                 `json:"archive_url,omitempty"`
		TotalAmount  *float64               `json:"total_amount,omitempty"`
		Items        []ProductEntryResponse `json:"items"`
		CreatedAt    time.Time              `json:"created_at"`
		UpdatedAt    time.Time              `json:"updated_at"`
	}

	PriceLogResponse struct {
		StoreName       string    `json:"store_name"`
		GeneralizedName string    `json:"generalized_name"`
		UnitPrice       float64   `json:"unit_price"`
		ObservedAt      time.Time `json:"observed_at"`
		ReceiptBaseID   string    `json:"receipt_base_id,omitempty"`
	}

	StoreResponse struct {
		Name         string `json:"name"`
		ReceiptCount int64  `json:"receipt_count"`
	}

	IssueTokenRequest struct {
		APIKey string `json:"api_key" validate:"required"`
	}

	IssueTokenResponse struct {
		Token string `json:"token"`
	}
)
