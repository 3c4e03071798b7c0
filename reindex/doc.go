// Package reindex provides functionality for rebuilding the derived fields of
// already-indexed chunks after the enrichment vocabulary or keyword rules
// change.
//
// This package supports batch processing of indexed chunks, progress tracking,
// and retry logic with exponential backoff for snapshot persistence, so an
// existing index can be brought up to date without re-extracting the source
// documents.
package reindex
