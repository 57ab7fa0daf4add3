package driven

import "context"

// Point is one (id, vector, payload) triple upserted into a collection.
// The payload carries the full rendered recipe text.
type Point struct {
	ID     int64
	Vector []float32
	Text   string
}

// Hit is one ranked result of a similarity query.
type Hit struct {
	ID    int64
	Score float64
	Text  string
}

// VectorIndex is the external similarity index (Qdrant).
//
// A collection has a single fixed dimensionality and distance metric
// set at creation and never changed afterwards.
type VectorIndex interface {
	// CollectionExists reports whether the named collection exists.
	CollectionExists(ctx context.Context, name string) (bool, error)

	// CollectionDimensions returns the vector size of an existing
	// collection.
	CollectionDimensions(ctx context.Context, name string) (int, error)

	// CreateCollection creates a collection with the given vector
	// size and cosine distance.
	CreateCollection(ctx context.Context, name string, dim int) error

	// UpsertPoints inserts or overwrites points by id. Re-running
	// with the same ids overwrites, never duplicates.
	UpsertPoints(ctx context.Context, name string, points []Point) error

	// Query returns the top-k nearest neighbours with payloads,
	// ranked by the collection's metric.
	Query(ctx context.Context, name string, vector []float32, k int) ([]Hit, error)
}
