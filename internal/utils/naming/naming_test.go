package naming

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestDeriveFullExtraction(t *testing.T) {
	purchase := time.Date(2023, 10, 26, 15, 30, 42, 0, time.UTC)

	key, notes := Derive(Input{
		PurchaseTime:  timePtr(purchase),
		Category:      "grocery",
		StoreName:     "Pingo Doce Supermercado",
		IngestionTime: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	})

	assert.Equal(t, "20231026T1530_grocery_pingo-doce", key.BaseID)
	assert.Equal(t, "pingo-doce", key.Store)
	assert.Equal(t, "grocery", key.Category)
	assert.Equal(t, time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC), key.Timestamp)
	assert.Empty(t, notes)
}

func TestDeriveIsDeterministic(t *testing.T) {
	in := Input{
		PurchaseTime:  timePtr(time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC)),
		Category:      "grocery",
		StoreName:     "Pingo Doce",
		IngestionTime: time.Now(),
	}

	first, _ := Derive(in)
	for i := 0; i < 10; i++ {
		key, _ := Derive(in)
		assert.Equal(t, first.BaseID, key.BaseID)
	}
}

func TestDeriveTimestampTruncatesNotRounds(t *testing.T) {
	purchase := time.Date(2023, 10, 26, 15, 30, 59, 999000000, time.UTC)

	key, _ := Derive(Input{
		PurchaseTime:  timePtr(purchase),
		Category:      "grocery",
		StoreName:     "continente",
		IngestionTime: time.Now(),
	})

	assert.Equal(t, "20231026T1530_grocery_continente", key.BaseID)
}

func TestDeriveAllFallbacks(t *testing.T) {
	ingestion := time.Date(2024, 2, 20, 18, 45, 12, 0, time.UTC)

	key, notes := Derive(Input{
		PurchaseTime:  nil,
		Category:      "",
		StoreName:     "",
		IngestionTime: ingestion,
	})

	assert.Equal(t, "20240220T1845_grocery_loja", key.BaseID)

	require.Len(t, notes, 2)
	assert.Equal(t, SeverityWarning, notes[0].Severity)
	assert.Equal(t, "timestamp fallback used", notes[0].Message)
	assert.Equal(t, SeverityInfo, notes[1].Severity)
	assert.Equal(t, "store fallback used", notes[1].Message)
}

func TestDeriveArchiveKeyScenario(t *testing.T) {
	purchase := time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC)

	key, _ := Derive(Input{
		PurchaseTime:  timePtr(purchase),
		Category:      "grocery",
		StoreName:     "Pingo Doce Supermercado",
		IngestionTime: time.Now(),
	})

	assert.Equal(t, "20231026T1530_grocery_pingo-doce.jpg", ArchiveKey(key.BaseID, ".JPG"))
	assert.Equal(t, "20231026T1530_grocery_pingo-doce.pdf", ArchiveKey(key.BaseID, "pdf"))
}

func TestNormalizeStore(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Continente", "continente"},
		{"suffix supermercado", "Pingo Doce Supermercado", "pingo-doce"},
		{"suffix mercado", "Mercearia Central Mercado", "mercearia-central"},
		{"suffix hipermercado", "Continente Hipermercado", "continente"},
		{"suffix lda", "Frutaria Silva Lda.", "frutaria-silva"},
		{"suffix sa", "Auchan S.A.", "auchan"},
		{"multiple spaces", "El  Corte   Ingles", "el-corte-ingles"},
		{"accents and symbols stripped", "Mercadona & Co!", "mercadona-co"},
		{"empty", "", FallbackStore},
		{"whitespace only", "   ", FallbackStore},
		{"only suffix", "Supermercado", "supermercado"},
		{"symbols only", "!!!", FallbackStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeStore(tt.input))
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"kept", "Grocery", "grocery"},
		{"sanitized", "Farmácia", "farmcia"},
		{"placeholder receipt", "receipt", "grocery"},
		{"placeholder scan", "Scan", "grocery"},
		{"placeholder fatura", "fatura", "grocery"},
		{"empty", "", "grocery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeCategory(tt.input, "grocery"))
		})
	}
}

func TestNormalizeExtension(t *testing.T) {
	assert.Equal(t, "jpg", NormalizeExtension(".JPG"))
	assert.Equal(t, "pdf", NormalizeExtension("pdf"))
	assert.Equal(t, "", NormalizeExtension(""))
}
