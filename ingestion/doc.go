// Package ingestion provides pipeline orchestration for processing documents.
//
// The Pipeline type manages the ingestion workflow for documents, including:
//   - Extracting text and structure from source files
//   - Chunking and enriching the extracted text
//   - Adding chunks to the lexical index and persisting its snapshot
//   - Tracking each document's status in the registry
//
// Ingestion is synchronous from the caller's point of view: when IngestFile
// returns, the document is either searchable or marked failed. Snapshot
// persistence is best-effort; a snapshot failure is logged and leaves the
// in-memory index intact.
package ingestion
