// Package reembed regenerates embedding vectors for movies already in the
// catalog, either for every movie (after switching embedding models) or only
// for movies the ingestion pipeline left without a vector.
//
// Batches are embedded with retry and exponential backoff, and progress is
// reported to a configurable writer.
package reembed
