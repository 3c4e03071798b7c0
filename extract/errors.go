package extract

import "errors"

var (
	// ErrUnsupportedFormat indicates no extractor is registered for the
	// file's extension.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrInvalidDocument indicates the file could not be parsed as its
	// claimed format.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrDownloadFailed indicates a remote document could not be fetched.
	ErrDownloadFailed = errors.New("document download failed")
)
