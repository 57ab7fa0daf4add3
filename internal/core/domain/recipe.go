package domain

// RawRecord is one scraped recipe row as it comes out of the scraper
// or an imported CSV round-trip. Every field may be empty, the literal
// string "nan", or (for Ingredients/Steps) a string-encoded list
// literal such as "['мука', 'соль']".
//
// RawRecords are immutable once produced by the scraper.
type RawRecord struct {
	// RecipeID is the dense index of the source record.
	RecipeID int64

	// URL is the page the record was scraped from.
	URL string

	// Title is the recipe title, possibly empty.
	Title string

	// Description is the free-text description, possibly empty.
	Description string

	// Ingredients is the raw ingredient column text.
	Ingredients string

	// Steps is the raw step column text.
	Steps string
}

// CanonicalRecord is the normalised form of a RawRecord.
//
// Invariant: a present field is non-empty and well-formed. Title and
// Description are trimmed strings (empty means absent); Ingredients and
// Steps hold trimmed, lower-cased elements with empties dropped.
type CanonicalRecord struct {
	RecipeID    int64
	Title       string
	Description string
	Ingredients []string
	Steps       []string
}

// HasTitle reports whether the title section is present.
func (r CanonicalRecord) HasTitle() bool { return r.Title != "" }

// HasDescription reports whether the description section is present.
func (r CanonicalRecord) HasDescription() bool { return r.Description != "" }

// Empty reports whether the record has no usable field at all.
func (r CanonicalRecord) Empty() bool {
	return r.Title == "" && r.Description == "" &&
		len(r.Ingredients) == 0 && len(r.Steps) == 0
}
