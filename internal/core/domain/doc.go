// Package domain defines the core business entities for threadscout.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - KeywordSet: An ordered, duplicate-free set of search keywords
//   - BrandContext: Customer segments and topics used to seed keywords
//   - Post: A content item fetched from a community
//   - CandidateCommunity: A community with its relevance counters
//   - RelevanceThresholds: The pass condition for a candidate
//   - DiscoveryRequest / DiscoveryResult: One discovery run
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
