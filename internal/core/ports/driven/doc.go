// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RecipeStore: Raw recipe row persistence
//   - ChunkStore: Chunk table persistence
//   - EmbeddingStore: Fixed-layout on-disk vector buffer
//   - EmbeddingService: Generates vector embeddings (Ollama-style API)
//   - VectorIndex: External similarity index (Qdrant)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
