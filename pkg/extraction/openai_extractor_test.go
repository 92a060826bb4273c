package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestCleanCompletionText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "bare json",
			input:    `{"store_name": "Pingo Doce"}`,
			expected: `{"store_name": "Pingo Doce"}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"store_name\": \"Pingo Doce\"}\n```",
			expected: `{"store_name": "Pingo Doce"}`,
		},
		{
			name:     "plain fence",
			input:    "```\n{\"store_name\": \"Pingo Doce\"}\n```",
			expected: `{"store_name": "Pingo Doce"}`,
		},
		{
			name:     "surrounding commentary",
			input:    "Here is the extracted data: {\"store_name\": \"Pingo Doce\"} Let me know if you need more.",
			expected: `{"store_name": "Pingo Doce"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cleanCompletionText(tt.input))
		})
	}
}

func TestParsePurchaseTime(t *testing.T) {
	t.Run("date and time", func(t *testing.T) {
		got := parsePurchaseTime(strPtr("2023-10-26"), strPtr("15:30"))
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC), *got)
	})

	t.Run("time with seconds keeps only hour and minute", func(t *testing.T) {
		got := parsePurchaseTime(strPtr("2023-10-26"), strPtr("15:30:47"))
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2023, 10, 26, 15, 30, 0, 0, time.UTC), *got)
	})

	t.Run("date only defaults to midnight", func(t *testing.T) {
		got := parsePurchaseTime(strPtr("2023-10-26"), nil)
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("unparseable time defaults to midnight", func(t *testing.T) {
		got := parsePurchaseTime(strPtr("2023-10-26"), strPtr("afternoon"))
		require.NotNil(t, got)
		assert.Equal(t, time.Date(2023, 10, 26, 0, 0, 0, 0, time.UTC), *got)
	})

	t.Run("missing date yields nil", func(t *testing.T) {
		assert.Nil(t, parsePurchaseTime(nil, strPtr("15:30")))
		assert.Nil(t, parsePurchaseTime(strPtr(""), strPtr("15:30")))
	})

	t.Run("unparseable date yields nil", func(t *testing.T) {
		assert.Nil(t, parsePurchaseTime(strPtr("26/10/2023"), nil))
	})
}

func TestCoerceExtraction(t *testing.T) {
	wire := openAIReceipt{
		StoreName:   strPtr("  Pingo Doce Supermercado  "),
		Category:    strPtr("grocery"),
		TotalAmount: floatPtr(12.5),
		Items: []openAIItem{
			{
				OriginalName:    "Leite Mimosa Meio-Gordo 1L",
				GeneralizedName: "milk",
				Quantity:        floatPtr(2),
				PricePerUnit:    floatPtr(1.09),
				Tags:            []string{"mimosa", "meio-gordo", "1l"},
			},
			{
				// blank original name, dropped entirely
				OriginalName: "   ",
				PricePerUnit: floatPtr(0.99),
			},
			{
				OriginalName: "OVOS SOLO CLASSE M",
				PricePerUnit: floatPtr(2.49),
			},
		},
	}

	result := coerceExtraction(wire)

	assert.Equal(t, "Pingo Doce Supermercado", result.StoreName)
	assert.Equal(t, "grocery", result.Category)
	require.NotNil(t, result.TotalAmount)
	assert.Equal(t, 12.5, *result.TotalAmount)

	require.Len(t, result.Items, 2)

	milk := result.Items[0]
	assert.Equal(t, 2.0, milk.Quantity)
	assert.Equal(t, 1.09, milk.UnitPrice)
	assert.Equal(t, []string{"mimosa", "meio-gordo", "1l"}, milk.Tags)

	eggs := result.Items[1]
	assert.Equal(t, "ovos solo classe m", eggs.GeneralizedName, "missing generalized name falls back to lowercased original")
	assert.Equal(t, 1.0, eggs.Quantity, "missing quantity defaults to 1")
	assert.NotNil(t, eggs.Tags)
	assert.Empty(t, eggs.Tags)
}

func TestCoerceExtractionEmptyItems(t *testing.T) {
	result := coerceExtraction(openAIReceipt{})

	assert.Empty(t, result.StoreName)
	assert.Nil(t, result.PurchaseTime)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)
}
