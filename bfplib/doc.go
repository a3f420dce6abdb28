// Package bfplib contains the core of the visitor analytics service:
// the location resolver with its field-priority merge, the caching
// layer, the visitor aggregator and the HTTP surface.
//
// The resolver has a set of pluggable provider clients. Every query
// fans out to all of them concurrently; a provider that fails or times
// out only loses its own contribution, the merged answer is built from
// whoever responded. Full per-provider provenance is kept next to the
// merged record.
//
// The visitor aggregator folds submissions into a document store using
// a single atomic upsert-with-increment, so concurrent visits for one
// visitor id never lose a count.
package bfplib
