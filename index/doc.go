// Package index implements the lexical chunk index: an append-only in-memory
// store of enriched chunks with keyword-overlap scoring, metadata-filtered
// search, and a JSON snapshot persisted at a fixed path.
//
// The store is guarded by a single reader/writer lock; appends are atomic
// with respect to the snapshot a search takes.
package index
