// Package naming derives the deterministic archive identifier for a receipt
// from its extracted purchase data. The derivation never fails; missing
// fields are substituted with documented fallbacks and reported as notes.
package naming

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// FallbackStore is used when no merchant name could be extracted or
	// normalization left it empty.
	FallbackStore = "loja"

	// DefaultCategory is used when no usable category is available.
	DefaultCategory = "grocery"

	timestampLayout = "20060102T1504"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Note reports a fallback applied during derivation. Notes accompany a
// successful result; they are never errors.
type Note struct {
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Input carries the extracted fields the derivation works from. A nil
// PurchaseTime means no date could be extracted; date-only extractions must
// arrive with the time-of-day already defaulted to 00:00 by the extraction
// boundary, so a single minute-default policy applies everywhere.
type Input struct {
	PurchaseTime    *time.Time
	Category        string
	StoreName       string
	DefaultCategory string
	IngestionTime   time.Time
}

// Key is the derived identity of a receipt, excluding the file extension.
type Key struct {
	BaseID    string
	Timestamp time.Time
	Category  string
	Store     string
}

// Generic merchant suffixes stripped from store names before sanitization.
var storeSuffixPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\s+supermercado$`),
	regexp.MustCompile(`\s+hipermercado$`),
	regexp.MustCompile(`\s+mini-mercado$`),
	regexp.MustCompile(`\s+mercado$`),
	regexp.MustCompile(`\s+lda[.\s]*$`),
	regexp.MustCompile(`\s+s\.a\.\s*$`),
	regexp.MustCompile(`\s+s\.a$`),
	regexp.MustCompile(`\s+unipessoal[\s,]+lda\.?$`),
}

// Placeholder words that carry no category information.
var placeholderCategories = map[string]bool{
	"receipt": true,
	"scan":    true,
	"recibo":  true,
	"fatura":  true,
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	disallowedChars = regexp.MustCompile(`[^a-z0-9-]`)
	multipleHyphens = regexp.MustCompile(`--+`)
)

// Derive builds the base identifier "{YYYYMMDDTHHMM}_{category}_{store}".
// It always returns a value; fallbacks are reported through notes.
func Derive(in Input) (Key, []Note) {
	var notes []Note

	ts := in.IngestionTime
	if in.PurchaseTime != nil {
		ts = *in.PurchaseTime
	} else {
		notes = append(notes, Note{Severity: SeverityWarning, Message: "timestamp fallback used"})
	}
	ts = ts.Truncate(time.Minute)

	defaultCategory := in.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = DefaultCategory
	}
	category := NormalizeCategory(in.Category, defaultCategory)

	store := NormalizeStore(in.StoreName)
	if store == FallbackStore {
		notes = append(notes, Note{Severity: SeverityInfo, Message: "store fallback used"})
	}

	return Key{
		BaseID:    fmt.Sprintf("%s_%s_%s", ts.Format(timestampLayout), category, store),
		Timestamp: ts,
		Category:  category,
		Store:     store,
	}, notes
}

// NormalizeStore lowercases the raw merchant name, strips generic suffixes
// and sanitizes it to [a-z0-9-]. An empty result yields FallbackStore.
func NormalizeStore(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return FallbackStore
	}

	for _, pattern := range storeSuffixPatterns {
		s = pattern.ReplaceAllString(s, "")
	}
	s = strings.TrimSpace(s)

	s = sanitize(s)
	if s == "" {
		return FallbackStore
	}
	return s
}

// NormalizeCategory lowercases and sanitizes the category. Placeholder words
// and empty results are substituted with the default.
func NormalizeCategory(raw, fallback string) string {
	s := sanitize(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" || placeholderCategories[s] {
		return sanitize(strings.ToLower(fallback))
	}
	return s
}

// NormalizeExtension lowercases the extension and strips the leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}

// ArchiveKey is the bit-exact external object name
// "{base_id}.{extension}", extension lowercased without a leading dot.
func ArchiveKey(baseID, extension string) string {
	return fmt.Sprintf("%s.%s", baseID, NormalizeExtension(extension))
}

func sanitize(s string) string {
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowedChars.ReplaceAllString(s, "")
	s = multipleHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
