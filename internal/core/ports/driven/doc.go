// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for discovery to function:
//
//   - PostSource: Searches posts and samples community listings
//   - CommunityLookup: Suggests related communities for a seed term
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Without it, keywords are not expanded and scoring is lexical-only.
//   - EmbeddingCache: Without it, every embedding is recomputed.
//   - Vocabulary: Without it, embedding-neighbourhood expansion returns the seed terms.
//   - RunStore: Without it, discovery results are not persisted.
//   - DiscoveryObserver: Without it, no progress is reported.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
