// Package services implements the pipeline stages: record
// normalisation, chunk building, batched vectorization, index
// synchronisation and query retrieval. Services contain the core
// business logic and orchestrate calls to driven ports (adapters).
//
// Services are pure Go with no external dependencies.
package services
