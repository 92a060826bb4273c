package extraction

import (
	"Matosinhos-Grocery-Backend/domain"
	"Matosinhos-Grocery-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	ErrExtractorNotConfigured = errors.New("openai api key not configured")
	ErrEmptyCompletion        = errors.New("openai returned no completion choices")
)

const receiptParsingPrompt = "You are an expert receipt processing AI. Analyze the attached image or document " +
	"of a purchase receipt and respond ONLY with a valid JSON object, no markdown fences and no extra text. " +
	"The object must strictly follow this structure: " +
	`{"store_name": "STRING | null", "purchase_date": "YYYY-MM-DD STRING | null", ` +
	`"purchase_time": "HH:MM STRING | null", "category": "STRING | null", "total_amount": FLOAT | null, ` +
	`"items": [{"original_name": "STRING", "generalized_name": "STRING", "quantity": FLOAT, ` +
	`"price_per_unit": FLOAT, "tags": ["STRING"], "weight_volume_text": "STRING | null", ` +
	`"parsed_weight_grams": FLOAT | null, "parsed_volume_ml": FLOAT | null}]}. ` +
	"Rules: dates in YYYY-MM-DD, time in 24-hour HH:MM or null when not printed on the receipt. " +
	"category is a single lowercase word describing the purchase (grocery, pharmacy, restaurant, hardware, other). " +
	"generalized_name is the English, lowercase, simplified common term for the item " +
	"(e.g. 'OVOS SOLO CLASSE M' becomes 'eggs', 'Leite Mimosa Meio-Gordo' becomes 'milk'). " +
	"quantity is the number of units price_per_unit applies to, defaulting to 1.0. " +
	"tags is an ordered array of lowercase English keywords capturing brand, variant, size and broader " +
	"categories not already in generalized_name (e.g. ['mimosa','meio-gordo','1l']); use [] when none apply. " +
	"weight_volume_text is the textual weight or volume as printed, parsed_weight_grams and parsed_volume_ml " +
	"their numeric conversions to grams and milliliters, null when not applicable. " +
	"items must be [] when no line items can be identified, never null. " +
	"Any unreadable top-level field must be null."

type (
	// OpenAIExtractor turns receipt bytes into structured purchase data via
	// the OpenAI vision API. The loosely typed response is validated and
	// coerced here; callers only ever see a well-formed ExtractionResult or
	// an error.
	OpenAIExtractor interface {
		Extract(ctx context.Context, content []byte, mimeType string) (domain.ExtractionResult, error)
	}

	openAIExtractor struct {
		apiKey     string
		model      string
		baseURL    string
		httpClient *http.Client
	}
)

func NewOpenAIExtractor() OpenAIExtractor {
	model := utils.GetConfig("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o"
	}
	baseURL := utils.GetConfig("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &openAIExtractor{
		apiKey:     utils.GetConfig("OPENAI_API_KEY"),
		model:      model,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Wire shape of the model's JSON answer. Everything is optional here; the
// coercion step applies defaults and fallbacks.
type (
	openAIReceipt struct {
		StoreName    *string      `json:"store_name"`
		PurchaseDate *string      `json:"purchase_date"`
		PurchaseTime *string      `json:"purchase_time"`
		Category     *string      `json:"category"`
		TotalAmount  *float64     `json:"total_amount"`
		Items        []openAIItem `json:"items"`
	}

	openAIItem struct {
		OriginalName      string   `json:"original_name"`
		GeneralizedName   string   `json:"generalized_name"`
		Quantity          *float64 `json:"quantity"`
		PricePerUnit      *float64 `json:"price_per_unit"`
		Tags              []string `json:"tags"`
		WeightVolumeText  *string  `json:"weight_volume_text"`
		ParsedWeightGrams *float64 `json:"parsed_weight_grams"`
		ParsedVolumeML    *float64 `json:"parsed_volume_ml"`
	}
)

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

func (e *openAIExtractor) Extract(ctx context.Context, content []byte, mimeType string) (domain.ExtractionResult, error) {
	if e.apiKey == "" {
		return domain.ExtractionResult{}, ErrExtractorNotConfigured
	}

	base64Content := base64.StdEncoding.EncodeToString(content)
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64Content)

	requestBody := map[string]interface{}{
		"model": e.model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": receiptParsingPrompt,
			},
			{
				"role": "user",
				"content": []map[string]interface{}{
					{
						"type": "text",
						"text": "Please analyze this receipt and extract the information according to the rules and JSON format provided.",
					},
					{
						"type": "image_url",
						"image_url": map[string]interface{}{
							"url":    dataURL,
							"detail": "high",
						},
					},
				},
			},
		},
		"response_format": map[string]interface{}{"type": "json_object"},
		"temperature":     0.1,
	}

	requestJSON, err := json.Marshal(requestBody)
	if err != nil {
		return domain.ExtractionResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/chat/completions", bytes.NewBuffer(requestJSON))
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return domain.ExtractionResult{}, fmt.Errorf("openai API error: %s - %s", resp.Status, string(bodyBytes))
	}

	var completion struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.ExtractionResult{}, err
	}
	if len(completion.Choices) == 0 {
		return domain.ExtractionResult{}, ErrEmptyCompletion
	}

	payload := cleanCompletionText(completion.Choices[0].Message.Content)

	var wire openAIReceipt
	if err := json.Unmarshal([]byte(payload), &wire); err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return coerceExtraction(wire), nil
}

// Models occasionally wrap the JSON in markdown fences or commentary despite
// the prompt; extract the outermost object before unmarshalling.
func cleanCompletionText(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	if match := jsonObjectPattern.FindString(text); match != "" {
		text = match
	}
	return strings.TrimSpace(text)
}

func coerceExtraction(wire openAIReceipt) domain.ExtractionResult {
	result := domain.ExtractionResult{
		PurchaseTime: parsePurchaseTime(wire.PurchaseDate, wire.PurchaseTime),
		TotalAmount:  wire.TotalAmount,
		Items:        make([]domain.ExtractedItem, 0, len(wire.Items)),
	}
	if wire.StoreName != nil {
		result.StoreName = strings.TrimSpace(*wire.StoreName)
	}
	if wire.Category != nil {
		result.Category = strings.TrimSpace(*wire.Category)
	}

	for _, item := range wire.Items {
		coerced := domain.ExtractedItem{
			OriginalName:      strings.TrimSpace(item.OriginalName),
			GeneralizedName:   strings.TrimSpace(item.GeneralizedName),
			Quantity:          1.0,
			Tags:              []string{},
			ParsedWeightGrams: item.ParsedWeightGrams,
			ParsedVolumeML:    item.ParsedVolumeML,
		}
		if coerced.OriginalName == "" {
			continue
		}
		if coerced.GeneralizedName == "" {
			coerced.GeneralizedName = strings.ToLower(coerced.OriginalName)
		}
		if item.Quantity != nil && *item.Quantity > 0 {
			coerced.Quantity = *item.Quantity
		}
		if item.PricePerUnit != nil {
			coerced.UnitPrice = *item.PricePerUnit
		}
		if item.Tags != nil {
			coerced.Tags = item.Tags
		}
		if item.WeightVolumeText != nil {
			coerced.WeightVolumeText = strings.TrimSpace(*item.WeightVolumeText)
		}
		result.Items = append(result.Items, coerced)
	}

	return result
}

// parsePurchaseTime combines the extracted date and time. A date without a
// time defaults the time-of-day to 00:00; an unparseable or absent date
// yields nil, which triggers the ingestion-time fallback downstream.
func parsePurchaseTime(dateStr, timeStr *string) *time.Time {
	if dateStr == nil || strings.TrimSpace(*dateStr) == "" {
		return nil
	}

	datePart, err := time.Parse("2006-01-02", strings.TrimSpace(*dateStr))
	if err != nil {
		return nil
	}

	hour, minute := 0, 0
	if timeStr != nil && strings.TrimSpace(*timeStr) != "" {
		raw := strings.SplitN(strings.TrimSpace(*timeStr), ".", 2)[0]
		for _, layout := range []string{"15:04:05", "15:04"} {
			if parsed, perr := time.Parse(layout, raw); perr == nil {
				hour, minute = parsed.Hour(), parsed.Minute()
				break
			}
		}
	}

	combined := time.Date(datePart.Year(), datePart.Month(), datePart.Day(), hour, minute, 0, 0, time.UTC)
	return &combined
}
