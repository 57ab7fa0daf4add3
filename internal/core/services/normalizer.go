package services

import (
	"strings"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
)

// ListMode selects how a raw list-like column is split into elements.
type ListMode int

const (
	// SplitCommas splits on plain commas. This is the default for the
	// ingredients column.
	SplitCommas ListMode = iota

	// SplitStepBreaks splits on the "period-comma" pattern left behind
	// by the source's own list-to-string serialisation, producing
	// step-level granularity for the recipe column.
	SplitStepBreaks
)

// missingToken is a known artifact of the corpus's earlier CSV
// round-trip: absent fields arrive as the literal string "nan".
const missingToken = "nan"

// listNoise holds the bracket and quote characters stripped from
// string-encoded list literals before splitting.
const listNoise = "[]'\""

// Normalizer turns raw scraped recipe rows into canonical records.
// Normalisation is a total function: malformed field text degrades to
// an empty value and is never surfaced as an error.
type Normalizer struct {
	ingredientMode ListMode
	stepMode       ListMode
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithIngredientMode sets the split mode for the ingredients column.
func WithIngredientMode(m ListMode) NormalizerOption {
	return func(n *Normalizer) { n.ingredientMode = m }
}

// WithStepMode sets the split mode for the recipe column.
func WithStepMode(m ListMode) NormalizerOption {
	return func(n *Normalizer) { n.stepMode = m }
}

// NewNormalizer creates a normalizer. By default both list columns are
// comma-split.
func NewNormalizer(opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		ingredientMode: SplitCommas,
		stepMode:       SplitCommas,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts a raw record into canonical form. It never fails:
// a fully malformed record normalises to an empty CanonicalRecord.
func (n *Normalizer) Normalize(raw domain.RawRecord) domain.CanonicalRecord {
	return domain.CanonicalRecord{
		RecipeID:    raw.RecipeID,
		Title:       normalizeText(raw.Title),
		Description: normalizeText(raw.Description),
		Ingredients: ParseListLiteral(raw.Ingredients, n.ingredientMode),
		Steps:       ParseListLiteral(raw.Steps, n.stepMode),
	}
}

// normalizeText trims a free-text field and maps missing markers to the
// empty string.
func normalizeText(s string) string {
	s = strings.TrimSpace(s)
	if s == missingToken {
		return ""
	}
	return s
}

// ParseListLiteral parses a string-encoded list literal into its
// elements: bracket and quote noise is stripped, the text is split per
// the given mode, and each piece is trimmed and lower-cased with empty
// pieces dropped. Any input it cannot make sense of yields an empty
// slice, never an error.
func ParseListLiteral(s string, mode ListMode) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == missingToken {
		return nil
	}

	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(listNoise, r) {
			return -1
		}
		return r
	}, s)

	var pieces []string
	switch mode {
	case SplitStepBreaks:
		pieces = strings.Split(clean, ".,")
	default:
		pieces = strings.Split(clean, ",")
	}

	items := make([]string, 0, len(pieces))
	for _, p := range pieces {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || p == missingToken {
			continue
		}
		items = append(items, p)
	}
	if len(items) == 0 {
		return nil
	}
	return items
}

// EncodeListLiteral is the storage counterpart of ParseListLiteral:
// it renders elements back into the corpus's list-literal text form.
func EncodeListLiteral(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + strings.ReplaceAll(item, "'", "") + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// CleanText removes every occurrence of each stop character from s in
// a single pass.
func CleanText(s string, stopChars string) string {
	if stopChars == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(stopChars, r) {
			return -1
		}
		return r
	}, s)
}

// Clean applies stop-char cleaning to every string field and every
// sequence element of a canonical record.
func (n *Normalizer) Clean(rec domain.CanonicalRecord, stopChars string) domain.CanonicalRecord {
	rec.Title = CleanText(rec.Title, stopChars)
	rec.Description = CleanText(rec.Description, stopChars)
	rec.Ingredients = cleanList(rec.Ingredients, stopChars)
	rec.Steps = cleanList(rec.Steps, stopChars)
	return rec
}

func cleanList(items []string, stopChars string) []string {
	if len(items) == 0 {
		return items
	}
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = CleanText(item, stopChars)
	}
	return out
}
