// Package domain defines the core business entities for chefrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawRecord: A scraped recipe row before normalisation
//   - CanonicalRecord: A normalised recipe record
//   - Chunk: A retrievable unit of recipe text
//   - SearchResult: A deduplicated retrieval hit
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
