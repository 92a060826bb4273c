package receipt

import (
	"Matosinhos-Grocery-Backend/domain"
	"Matosinhos-Grocery-Backend/entities"
	"Matosinhos-Grocery-Backend/internal/utils"
	"Matosinhos-Grocery-Backend/internal/utils/naming"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Supported input media. Anything else is rejected before a remote call is
// made. The original extension is preserved verbatim (lowercased) in the
// archive key; no format conversion ever happens.
var supportedExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
	"pdf":  "application/pdf",
}

type (
	// ReceiptExtractor is the extraction port: bytes in, structured purchase
	// data out.
	ReceiptExtractor interface {
		Extract(ctx context.Context, content []byte, mimeType string) (domain.ExtractionResult, error)
	}

	// ReceiptArchive is the archive port. Put with an identical key must
	// overwrite the stored object; a different extension under the same base
	// identifier coexists as a separate object.
	ReceiptArchive interface {
		Put(ctx context.Context, key string, content []byte, contentType string) (domain.ArchiveReference, error)
	}

	ReceiptService interface {
		// Process runs one receipt submission end to end: validate,
		// extract, derive the archive key, archive, persist. It never
		// retries internally; every failure carries the failing step's
		// error kind and retrying the whole submission is always safe.
		Process(ctx context.Context, content []byte, originalFilename string, categoryHint string) (domain.ProcessReceiptResponse, error)

		GetReceipts(ctx context.Context, page, limit int) ([]domain.ReceiptResponse, int64, error)
		GetReceiptByKey(ctx context.Context, baseID, extension string) (domain.ReceiptResponse, error)
		GetPriceHistory(ctx context.Context, storeName, generalizedName string, limit int) ([]domain.PriceLogResponse, error)
		GetStores(ctx context.Context) ([]domain.StoreResponse, error)
	}

	receiptService struct {
		receiptRepository ReceiptRepository
		extractor         ReceiptExtractor
		archive           ReceiptArchive
		defaultCategory   string
		extractTimeout    time.Duration
		archiveTimeout    time.Duration
		persistTimeout    time.Duration
		now               func() time.Time
	}
)

func NewReceiptService(receiptRepository ReceiptRepository, extractor ReceiptExtractor, archive ReceiptArchive) ReceiptService {
	defaultCategory := utils.GetConfig("DEFAULT_CATEGORY")
	if defaultCategory == "" {
		defaultCategory = naming.DefaultCategory
	}

	return &receiptService{
		receiptRepository: receiptRepository,
		extractor:         extractor,
		archive:           archive,
		defaultCategory:   defaultCategory,
		extractTimeout:    timeoutFromConfig("EXTRACT_TIMEOUT_SECONDS", 60*time.Second),
		archiveTimeout:    timeoutFromConfig("ARCHIVE_TIMEOUT_SECONDS", 30*time.Second),
		persistTimeout:    timeoutFromConfig("PERSIST_TIMEOUT_SECONDS", 10*time.Second),
		now:               time.Now,
	}
}

func (s *receiptService) Process(ctx context.Context, content []byte, originalFilename string, categoryHint string) (domain.ProcessReceiptResponse, error) {
	extension := naming.NormalizeExtension(filepath.Ext(originalFilename))
	mimeType, ok := supportedExtensions[extension]
	if !ok {
		return domain.ProcessReceiptResponse{}, domain.NewProcessingError(
			domain.ErrorKindValidation,
			fmt.Sprintf("unsupported file type %q", filepath.Ext(originalFilename)),
			domain.ErrUnsupportedFileType,
		)
	}
	if len(content) == 0 {
		return domain.ProcessReceiptResponse{}, domain.NewProcessingError(
			domain.ErrorKindValidation,
			fmt.Sprintf("empty file %q", originalFilename),
			domain.ErrEmptyFile,
		)
	}

	ingestedAt := s.now()

	extractCtx, cancelExtract := context.WithTimeout(ctx, s.extractTimeout)
	defer cancelExtract()
	extracted, err := s.extractor.Extract(extractCtx, content, mimeType)
	if err != nil {
		return domain.ProcessReceiptResponse{}, domain.NewProcessingError(
			domain.ErrorKindExtraction,
			fmt.Sprintf("recognition failed for %q", originalFilename),
			err,
		)
	}

	category := extracted.Category
	if category == "" {
		category = categoryHint
	}

	key, notes := naming.Derive(naming.Input{
		PurchaseTime:    extracted.PurchaseTime,
		Category:        category,
		StoreName:       extracted.StoreName,
		DefaultCategory: s.defaultCategory,
		IngestionTime:   ingestedAt,
	})
	for _, note := range notes {
		event := log.Info()
		if note.Severity == naming.SeverityWarning {
			event = log.Warn()
		}
		event.Str("base_id", key.BaseID).Str("file", originalFilename).Msg(note.Message)
	}

	archiveKey := naming.ArchiveKey(key.BaseID, extension)
	archiveCtx, cancelArchive := context.WithTimeout(ctx, s.archiveTimeout)
	defer cancelArchive()
	archiveRef, err := s.archive.Put(archiveCtx, archiveKey, content, mimeType)
	if err != nil {
		// Extracted data is discarded: a receipt without an archive
		// reference is an incomplete record, and the deterministic key
		// makes a full resubmission safe.
		return domain.ProcessReceiptResponse{}, domain.NewProcessingError(
			domain.ErrorKindArchival,
			fmt.Sprintf("archival failed for %q", archiveKey),
			err,
		)
	}

	record := &entities.Receipt{
		BaseID:       key.BaseID,
		Extension:    extension,
		PurchaseTime: key.Timestamp,
		Category:     key.Category,
		ArchiveKey:   archiveRef.Key,
		ArchiveURL:   archiveRef.URL,
		TotalAmount:  extracted.TotalAmount,
	}
	entries := make([]*entities.ProductEntry, 0, len(extracted.Items))
	for _, item := range extracted.Items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		entries = append(entries, &entities.ProductEntry{
			OriginalName:      item.OriginalName,
			GeneralizedName:   item.GeneralizedName,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			Tags:              tags,
			WeightVolumeText:  item.WeightVolumeText,
			ParsedWeightGrams: item.ParsedWeightGrams,
			ParsedVolumeML:    item.ParsedVolumeML,
		})
	}

	persistCtx, cancelPersist := context.WithTimeout(ctx, s.persistTimeout)
	defer cancelPersist()
	if err := s.receiptRepository.UpsertReceipt(persistCtx, key.Store, record, entries); err != nil {
		// The archived object stays behind as a harmless orphan; the next
		// successful retry reuses the same key and reconciles it.
		return domain.ProcessReceiptResponse{}, domain.NewProcessingError(
			domain.ErrorKindPersistence,
			fmt.Sprintf("persistence failed for %q", key.BaseID),
			err,
		)
	}

	return domain.ProcessReceiptResponse{
		BaseID:       key.BaseID,
		Extension:    extension,
		ArchiveKey:   archiveRef.Key,
		ArchiveURL:   archiveRef.URL,
		StoreName:    key.Store,
		PurchaseTime: key.Timestamp,
		Category:     key.Category,
		ItemCount:    len(entries),
		TotalAmount:  extracted.TotalAmount,
		Notes:        toProcessingNotes(notes),
	}, nil
}

func (s *receiptService) GetReceipts(ctx context.Context, page, limit int) ([]domain.ReceiptResponse, int64, error) {
	receipts, count, err := s.receiptRepository.GetReceipts(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	response := make([]domain.ReceiptResponse, 0, len(receipts))
	for _, r := range receipts {
		response = append(response, toReceiptResponse(r))
	}

	return response, count, nil
}

func (s *receiptService) GetReceiptByKey(ctx context.Context, baseID, extension string) (domain.ReceiptResponse, error) {
	record, err := s.receiptRepository.GetReceiptByKey(ctx, baseID, naming.NormalizeExtension(extension))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReceiptResponse{}, domain.ErrReceiptNotFound
		}
		return domain.ReceiptResponse{}, err
	}

	return toReceiptResponse(record), nil
}

func (s *receiptService) GetPriceHistory(ctx context.Context, storeName, generalizedName string, limit int) ([]domain.PriceLogResponse, error) {
	if storeName != "" {
		storeName = naming.NormalizeStore(storeName)
	}
	logs, err := s.receiptRepository.GetPriceHistory(ctx, storeName, generalizedName, limit)
	if err != nil {
		return nil, err
	}

	response := make([]domain.PriceLogResponse, 0, len(logs))
	for _, priceLog := range logs {
		item := domain.PriceLogResponse{
			GeneralizedName: priceLog.GeneralizedName,
			UnitPrice:       priceLog.UnitPrice,
			ObservedAt:      priceLog.ObservedAt,
			ReceiptBaseID:   priceLog.ReceiptBaseID,
		}
		if priceLog.Store != nil {
			item.StoreName = priceLog.Store.Name
		}
		response = append(response, item)
	}

	return response, nil
}

func (s *receiptService) GetStores(ctx context.Context) ([]domain.StoreResponse, error) {
	counts, err := s.receiptRepository.CountReceiptsByStore(ctx)
	if err != nil {
		return nil, err
	}

	response := make([]domain.StoreResponse, 0, len(counts))
	for _, c := range counts {
		response = append(response, domain.StoreResponse{
			Name:         c.Name,
			ReceiptCount: c.ReceiptCount,
		})
	}

	return response, nil
}

func toReceiptResponse(r *entities.Receipt) domain.ReceiptResponse {
	response := domain.ReceiptResponse{
		BaseID:       r.BaseID,
		Extension:    r.Extension,
		PurchaseTime: r.PurchaseTime,
		Category:     r.Category,
		ArchiveKey:   r.ArchiveKey,
		ArchiveURL:   r.ArchiveURL,
		TotalAmount:  r.TotalAmount,
		Items:        make([]domain.ProductEntryResponse, 0, len(r.Items)),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Store != nil {
		response.StoreName = r.Store.Name
	}
	for _, item := range r.Items {
		tags := item.Tags
		if tags == nil {
			tags = []string{}
		}
		response.Items = append(response.Items, domain.ProductEntryResponse{
			OriginalName:      item.OriginalName,
			GeneralizedName:   item.GeneralizedName,
			Quantity:          item.Quantity,
			UnitPrice:         item.UnitPrice,
			Tags:              tags,
			WeightVolumeText:  item.WeightVolumeText,
			ParsedWeightGrams: item.ParsedWeightGrams,
			ParsedVolumeML:    item.ParsedVolumeML,
		})
	}
	return response
}

func toProcessingNotes(notes []naming.Note) []domain.ProcessingNote {
	if len(notes) == 0 {
		return nil
	}
	response := make([]domain.ProcessingNote, 0, len(notes))
	for _, note := range notes {
		response = append(response, domain.ProcessingNote{
			Severity: string(note.Severity),
			Message:  note.Message,
		})
	}
	return response
}

func timeoutFromConfig(key string, fallback time.Duration) time.Duration {
	raw := utils.GetConfig(key)
	if raw == "" {
		return fallback
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
