package receipt

import (
	"Matosinhos-Grocery-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.Store{},
		&entities.Receipt{},
		&entities.ProductEntry{},
		&entities.PriceLog{},
	))

	return db
}

func testReceipt(baseID, extension string) *entities.Receipt {
	return &entities.Receipt{
		BaseID:       baseID,
		Extension:    extension,
		PurchaseTime: time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC),
		Category:     "grocery",
		ArchiveKey:   baseID + "." + extension,
	}
}

func testEntries(names ...string) []*entities.ProductEntry {
	entries := make([]*entities.ProductEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, &entities.ProductEntry{
			OriginalName:    name,
			GeneralizedName: name,
			Quantity:        1,
			UnitPrice:       1.99,
			Tags:            []string{},
		})
	}
	return entries
}

func TestUpsertReceiptCreatesStoreReceiptAndEntries(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	receipt := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	err := repo.UpsertReceipt(ctx, "pingo-doce", receipt, testEntries("milk", "eggs"))
	require.NoError(t, err)

	var stores []entities.Store
	require.NoError(t, db.Find(&stores).Error)
	require.Len(t, stores, 1)
	assert.Equal(t, "pingo-doce", stores[0].Name)

	loaded, err := repo.GetReceiptByKey(ctx, "20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, err)
	assert.Equal(t, stores[0].ID, loaded.StoreID)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "milk", loaded.Items[0].OriginalName)
	assert.Equal(t, "eggs", loaded.Items[1].OriginalName)
	assert.Equal(t, 0, loaded.Items[0].Position)
	assert.Equal(t, 1, loaded.Items[1].Position)
}

func TestUpsertReceiptRescanReplacesRowAndEntries(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	first := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", first, testEntries("milk", "eggs", "bread")))

	total := 9.99
	second := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	second.TotalAmount = &total
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", second, testEntries("butter")))

	var receiptCount int64
	require.NoError(t, db.Model(&entities.Receipt{}).Count(&receiptCount).Error)
	assert.Equal(t, int64(1), receiptCount, "rescan must not create a second row")

	loaded, err := repo.GetReceiptByKey(ctx, "20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, err)
	assert.Equal(t, first.ID, loaded.ID, "rescan reuses the existing row")
	require.NotNil(t, loaded.TotalAmount)
	assert.Equal(t, 9.99, *loaded.TotalAmount)

	// entries replaced wholesale, none of the first scan's survive
	var entryCount int64
	require.NoError(t, db.Model(&entities.ProductEntry{}).Count(&entryCount).Error)
	assert.Equal(t, int64(1), entryCount)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "butter", loaded.Items[0].OriginalName)
}

func TestUpsertReceiptDifferentExtensionsCoexist(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	jpg := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", jpg, testEntries("milk")))

	pdf := testReceipt("20231026T1530_grocery_pingo-doce", "pdf")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", pdf, testEntries("milk")))

	var count int64
	require.NoError(t, db.Model(&entities.Receipt{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
	assert.NotEqual(t, jpg.ID, pdf.ID)
}

func TestUpsertReceiptPriceLogsOnlyGrow(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	receipt := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", receipt, testEntries("milk", "eggs")))

	rescan := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", rescan, testEntries("milk")))

	var logCount int64
	require.NoError(t, db.Model(&entities.PriceLog{}).Count(&logCount).Error)
	assert.Equal(t, int64(3), logCount, "price logs are append-only across rescans")
}

func TestUpsertReceiptReusesExistingStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce",
		testReceipt("20231026T1530_grocery_pingo-doce", "jpg"), nil))
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce",
		testReceipt("20231103T0912_grocery_pingo-doce", "jpg"), nil))

	var storeCount int64
	require.NoError(t, db.Model(&entities.Store{}).Count(&storeCount).Error)
	assert.Equal(t, int64(1), storeCount)
}

func TestGetReceiptByKeyNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)

	_, err := repo.GetReceiptByKey(context.Background(), "20231026T1530_grocery_pingo-doce", "jpg")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetReceiptsPaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	older := testReceipt("20230101T1000_grocery_continente", "jpg")
	older.PurchaseTime = time.Date(2023, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReceipt(ctx, "continente", older, nil))

	newer := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", newer, nil))

	receipts, count, err := repo.GetReceipts(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, receipts, 2)
	assert.Equal(t, "20231026T1530_grocery_pingo-doce", receipts[0].BaseID)
	assert.Equal(t, "20230101T1000_grocery_continente", receipts[1].BaseID)

	page2, count, err := repo.GetReceipts(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, page2, 1)
	assert.Equal(t, "20230101T1000_grocery_continente", page2[0].BaseID)
}

func TestGetPriceHistoryFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	pingo := testReceipt("20231026T1530_grocery_pingo-doce", "jpg")
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce", pingo, testEntries("milk", "eggs")))

	continente := testReceipt("20231027T1100_grocery_continente", "jpg")
	continente.PurchaseTime = time.Date(2023, 10, 27, 11, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpsertReceipt(ctx, "continente", continente, testEntries("milk")))

	all, err := repo.GetPriceHistory(ctx, "", "", 50)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	milkOnly, err := repo.GetPriceHistory(ctx, "", "milk", 50)
	require.NoError(t, err)
	require.Len(t, milkOnly, 2)
	for _, priceLog := range milkOnly {
		assert.Equal(t, "milk", priceLog.GeneralizedName)
	}

	pingoMilk, err := repo.GetPriceHistory(ctx, "pingo-doce", "milk", 50)
	require.NoError(t, err)
	require.Len(t, pingoMilk, 1)
	require.NotNil(t, pingoMilk[0].Store)
	assert.Equal(t, "pingo-doce", pingoMilk[0].Store.Name)
	assert.Equal(t, "20231026T1530_grocery_pingo-doce", pingoMilk[0].ReceiptBaseID)
}

func TestCountReceiptsByStore(t *testing.T) {
	db := newTestDB(t)
	repo := NewReceiptRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce",
		testReceipt("20231026T1530_grocery_pingo-doce", "jpg"), nil))
	require.NoError(t, repo.UpsertReceipt(ctx, "pingo-doce",
		testReceipt("20231103T0912_grocery_pingo-doce", "jpg"), nil))
	require.NoError(t, repo.UpsertReceipt(ctx, "continente",
		testReceipt("20231027T1100_grocery_continente", "jpg"), nil))

	counts, err := repo.CountReceiptsByStore(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "continente", counts[0].Name)
	assert.Equal(t, int64(1), counts[0].ReceiptCount)
	assert.Equal(t, "pingo-doce", counts[1].Name)
	assert.Equal(t, int64(2), counts[1].ReceiptCount)
}
