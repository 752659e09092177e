// Package ingestion loads movie catalogs into storage and computes their
// embedding vectors. It understands the MovieLens CSV layout (movies plus
// optional ratings) and embeds movie documents concurrently on a bounded
// worker pool.
package ingestion
