package domain

// ChunkType tags the semantic kind of text a chunk carries.
type ChunkType string

// Chunk type values. RecipePart is a single step; Full is the whole
// rendered recipe.
const (
	ChunkTypeTitle       ChunkType = "title"
	ChunkTypeDescription ChunkType = "description"
	ChunkTypeIngredients ChunkType = "ingredients"
	ChunkTypeRecipe      ChunkType = "recipe"
	ChunkTypeRecipePart  ChunkType = "recipe_part"
	ChunkTypeFull        ChunkType = "full"
)

// Chunk is one retrievable unit of text derived from a recipe record.
//
// Invariant: IDs are dense and 0-based within a chunk set, assigned in
// emission order with no gaps. The ID doubles as the row index into the
// paired embedding store file; positional correspondence is the sole
// join key between the two artifacts.
type Chunk struct {
	// ID is the dense chunk id, unique within a chunk set.
	ID int64

	// RecipeID is the index of the source record.
	RecipeID int64

	// Type is the semantic kind of the chunk text.
	Type ChunkType

	// Text is the non-empty chunk text sent to the embedder.
	Text string

	// FullRecipe is the complete rendered recipe, stored as the
	// retrieval payload for every chunk of the record.
	FullRecipe string
}

// Strategy selects how a record is decomposed into chunks.
type Strategy string

const (
	// StrategyFull emits a single whole-recipe chunk per record.
	StrategyFull Strategy = "full"

	// StrategyAllKinds emits one chunk per present field plus one
	// chunk per individual step.
	StrategyAllKinds Strategy = "all_kinds"

	// StrategyRecipeAndIngredients emits a title+steps chunk and an
	// ingredients chunk.
	StrategyRecipeAndIngredients Strategy = "recipe_and_ingredients"
)

// ParseStrategy maps a config/CLI string onto a Strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyFull, StrategyAllKinds, StrategyRecipeAndIngredients:
		return Strategy(s), true
	}
	return "", false
}
