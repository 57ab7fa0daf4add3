package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStrategy(t *testing.T) {
	for _, valid := range []string{"full", "all_kinds", "recipe_and_ingredients"} {
		st, ok := ParseStrategy(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Strategy(valid), st)
	}

	_, ok := ParseStrategy("FULL")
	assert.False(t, ok)
	_, ok = ParseStrategy("")
	assert.False(t, ok)
}

func TestCanonicalRecordHelpers(t *testing.T) {
	assert.True(t, CanonicalRecord{}.Empty())
	assert.False(t, CanonicalRecord{Title: "борщ"}.Empty())
	assert.False(t, CanonicalRecord{Steps: []string{"сварить"}}.Empty())

	rec := CanonicalRecord{Title: "борщ", Description: "суп"}
	assert.True(t, rec.HasTitle())
	assert.True(t, rec.HasDescription())
	assert.False(t, CanonicalRecord{}.HasTitle())
}
