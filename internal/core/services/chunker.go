package services

import (
	"fmt"
	"strings"

	"github.com/chefrag-labs/chefrag-cli/internal/core/domain"
)

// Section labels of the rendered recipe text. The corpus is Russian;
// the retrieval payload keeps the source language.
const (
	labelTitle       = "название рецепта: "
	labelDescription = "описание рецепта: "
	labelIngredients = "ингредиенты:"
	labelSteps       = "пошаговый рецепт:"
)

// ChunkBuilder decomposes canonical records into chunks under a fixed
// strategy. The chunk id counter is carried by the builder instance,
// never by package state, so separate builds over different record
// subsets stay composable: ids run dense and 0-based across every
// record fed to one builder, in emission order.
type ChunkBuilder struct {
	strategy domain.Strategy
	next     int64
}

// NewChunkBuilder creates a builder for the given strategy.
func NewChunkBuilder(strategy domain.Strategy) *ChunkBuilder {
	return &ChunkBuilder{strategy: strategy}
}

// NextID returns the id the next emitted chunk will receive.
func (b *ChunkBuilder) NextID() int64 { return b.next }

// Build emits the chunks for one record. It never fails; a record with
// zero usable fields yields zero chunks.
func (b *ChunkBuilder) Build(rec domain.CanonicalRecord) []domain.Chunk {
	switch b.strategy {
	case domain.StrategyAllKinds:
		return b.buildAllKinds(rec)
	case domain.StrategyRecipeAndIngredients:
		return b.buildRecipeAndIngredients(rec)
	default:
		return b.buildFull(rec)
	}
}

// buildFull emits exactly one whole-recipe chunk. Records without a
// title are skipped entirely.
func (b *ChunkBuilder) buildFull(rec domain.CanonicalRecord) []domain.Chunk {
	if !rec.HasTitle() {
		return nil
	}
	full := RenderFullRecipe(rec)
	return []domain.Chunk{b.emit(rec.RecipeID, domain.ChunkTypeFull, full, full)}
}

// buildAllKinds emits one chunk per present field plus one chunk per
// individual step, all sharing the record's full rendering as payload.
func (b *ChunkBuilder) buildAllKinds(rec domain.CanonicalRecord) []domain.Chunk {
	full := RenderFullRecipe(rec)
	if full == "" {
		return nil
	}

	var chunks []domain.Chunk
	if rec.HasTitle() {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeTitle, rec.Title, full))
	}
	if rec.HasDescription() {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeDescription, rec.Description, full))
	}
	if len(rec.Ingredients) > 0 {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeIngredients, renderIngredientBlock(rec.Ingredients), full))
	}
	for _, step := range rec.Steps {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeRecipePart, step, full))
	}
	return chunks
}

// buildRecipeAndIngredients emits up to two chunks: title combined with
// all steps, and the ingredient block on its own.
func (b *ChunkBuilder) buildRecipeAndIngredients(rec domain.CanonicalRecord) []domain.Chunk {
	full := RenderFullRecipe(rec)
	if full == "" {
		return nil
	}

	var chunks []domain.Chunk
	if rec.HasTitle() || len(rec.Steps) > 0 {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeRecipe, renderRecipeBlock(rec), full))
	}
	if len(rec.Ingredients) > 0 {
		chunks = append(chunks, b.emit(rec.RecipeID, domain.ChunkTypeIngredients, renderIngredientBlock(rec.Ingredients), full))
	}
	return chunks
}

func (b *ChunkBuilder) emit(recipeID int64, typ domain.ChunkType, text, full string) domain.Chunk {
	c := domain.Chunk{
		ID:         b.next,
		RecipeID:   recipeID,
		Type:       typ,
		Text:       text,
		FullRecipe: full,
	}
	b.next++
	return c
}

// RenderFullRecipe renders the complete recipe text used as retrieval
// payload. Present sections appear in fixed order, each separated by a
// newline; missing sections are omitted entirely rather than rendered
// empty.
func RenderFullRecipe(rec domain.CanonicalRecord) string {
	var sections []string
	if rec.HasTitle() {
		sections = append(sections, labelTitle+rec.Title)
	}
	if rec.HasDescription() {
		sections = append(sections, "\n"+labelDescription+rec.Description)
	}
	if len(rec.Ingredients) > 0 {
		sections = append(sections, "\n"+labelIngredients+"\n"+renderIngredientBlock(rec.Ingredients))
	}
	if len(rec.Steps) > 0 {
		sections = append(sections, "\n"+labelSteps+"\n"+renderStepBlock(rec.Steps))
	}
	return strings.Join(sections, "\n")
}

func renderIngredientBlock(ingredients []string) string {
	lines := make([]string, len(ingredients))
	for i, ing := range ingredients {
		lines[i] = "* " + ing
	}
	return strings.Join(lines, "\n")
}

func renderStepBlock(steps []string) string {
	lines := make([]string, len(steps))
	for i, step := range steps {
		lines[i] = fmt.Sprintf("шаг %d: %s", i+1, step)
	}
	return strings.Join(lines, "\n")
}

func renderRecipeBlock(rec domain.CanonicalRecord) string {
	var lines []string
	if rec.HasTitle() {
		lines = append(lines, labelTitle+rec.Title)
	}
	if len(rec.Steps) > 0 {
		lines = append(lines, renderStepBlock(rec.Steps))
	}
	return strings.Join(lines, "\n")
}
