package receipt

import (
	"Matosinhos-Grocery-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ReceiptRepository interface {
		// UpsertReceipt persists the receipt, its product entries and the
		// derived price logs in one transaction, keyed by the natural
		// (base_id, extension) pair. An existing row is replaced in place
		// and its entries discarded wholesale; price logs only ever grow.
		UpsertReceipt(ctx context.Context, storeName string, receipt *entities.Receipt, entries []*entities.ProductEntry) error

		GetReceiptByKey(ctx context.Context, baseID, extension string) (*entities.Receipt, error)
		GetReceipts(ctx context.Context, page, limit int) ([]*entities.Receipt, int64, error)
		GetPriceHistory(ctx context.Context, storeName, generalizedName string, limit int) ([]*entities.PriceLog, error)
		CountReceiptsByStore(ctx context.Context) ([]StoreReceiptCount, error)
	}

	StoreReceiptCount struct {
		Name         string
		ReceiptCount int64
	}

	receiptRepository struct {
		db *gorm.DB
	}
)

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) UpsertReceipt(ctx context.Context, storeName string, receipt *entities.Receipt, entries []*entities.ProductEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		store := &entities.Store{}
		if err := tx.Where(&entities.Store{Name: storeName}).
			Attrs(&entities.Store{ID: uuid.New()}).
			FirstOrCreate(store).Error; err != nil {
			return err
		}
		receipt.StoreID = store.ID

		var existing entities.Receipt
		err := tx.Where("base_id = ? AND extension = ?", receipt.BaseID, receipt.Extension).
			First(&existing).Error
		switch {
		case err == nil:
			// Rescan: same row, replaced fields, entries discarded wholesale.
			receipt.ID = existing.ID
			receipt.CreatedAt = existing.CreatedAt
			if err := tx.Where("receipt_id = ?", existing.ID).
				Delete(&entities.ProductEntry{}).Error; err != nil {
				return err
			}
			if err := tx.Save(receipt).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if receipt.ID == uuid.Nil {
				receipt.ID = uuid.New()
			}
			if err := tx.Create(receipt).Error; err != nil {
				return err
			}
		default:
			return err
		}

		priceLogs := make([]*entities.PriceLog, 0, len(entries))
		for i, entry := range entries {
			entry.ID = uuid.New()
			entry.ReceiptID = receipt.ID
			entry.Position = i
			priceLogs = append(priceLogs, &entities.PriceLog{
				ID:              uuid.New(),
				StoreID:         store.ID,
				GeneralizedName: entry.GeneralizedName,
				UnitPrice:       entry.UnitPrice,
				ObservedAt:      receipt.PurchaseTime,
				ReceiptBaseID:   receipt.BaseID,
			})
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return err
			}
			if err := tx.Create(&priceLogs).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *receiptRepository) GetReceiptByKey(ctx context.Context, baseID, extension string) (*entities.Receipt, error) {
	var receipt entities.Receipt
	err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("base_id = ? AND extension = ?", baseID, extension).
		First(&receipt).Error
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetReceipts(ctx context.Context, page, limit int) ([]*entities.Receipt, int64, error) {
	var receipts []*entities.Receipt
	var count int64

	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).Model(&entities.Receipt{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("Store").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Order("purchase_time desc").
		Offset(offset).Limit(limit).
		Find(&receipts).Error; err != nil {
		return nil, 0, err
	}

	return receipts, count, nil
}

func (r *receiptRepository) GetPriceHistory(ctx context.Context, storeName, generalizedName string, limit int) ([]*entities.PriceLog, error) {
	var logs []*entities.PriceLog

	query := r.db.WithContext(ctx).Model(&entities.PriceLog{}).Preload("Store")
	if storeName != "" {
		query = query.Joins("JOIN stores ON stores.id = price_logs.store_id").
			Where("stores.name = ?", storeName)
	}
	if generalizedName != "" {
		query = query.Where("price_logs.generalized_name = ?", generalizedName)
	}

	if err := query.Order("price_logs.observed_at desc").Limit(limit).Find(&logs).Error; err != nil {
		return nil, err
	}

	return logs, nil
}

func (r *receiptRepository) CountReceiptsByStore(ctx context.Context) ([]StoreReceiptCount, error) {
	var counts []StoreReceiptCount

	err := r.db.WithContext(ctx).Model(&entities.Store{}).
		Select("stores.name as name, count(receipts.id) as receipt_count").
		Joins("LEFT JOIN receipts ON receipts.store_id = stores.id").
		Group("stores.name").
		Order("stores.name asc").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	return counts, nil
}
