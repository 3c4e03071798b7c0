package index

import "errors"

var (
	// ErrNoChunks is returned when an empty batch is added to the store.
	ErrNoChunks = errors.New("no chunks to add")
)
