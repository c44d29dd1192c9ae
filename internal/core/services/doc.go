// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO. Beyond the ports they only use
// small libraries: uuid for run IDs, errgroup for bounded worker pools
// and ahocorasick for lexical matching.
package services
