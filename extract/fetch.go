package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// downloadTimeout bounds a single document fetch.
const downloadTimeout = 30 * time.Second

// Fetch downloads a remote document to a temporary file and returns the local
// path, the inferred document name, and a cleanup function that removes the
// file. The name comes from the URL path; when the URL carries no usable
// extension, the response Content-Type decides it, defaulting to .txt.
func Fetch(ctx context.Context, documentURL string) (localPath, name string, cleanup func(), err error) {
	parsed, err := url.Parse(documentURL)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, documentURL, nil)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", nil, fmt.Errorf("%w: unexpected status %d", ErrDownloadFailed, resp.StatusCode)
	}

	name = path.Base(parsed.Path)
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = extensionForContentType(resp.Header.Get("Content-Type"))
		name = "document" + ext
	}

	tmp, err := os.CreateTemp("", "askit-*"+ext)
	if err != nil {
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", "", nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	localPath = tmp.Name()
	cleanup = func() { os.Remove(localPath) }
	return localPath, name, cleanup, nil
}

// extensionForContentType guesses a file extension from a Content-Type
// header. Unknown types fall back to plain text.
func extensionForContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "word"), strings.Contains(contentType, "docx"):
		return ".docx"
	case strings.Contains(contentType, "markdown"):
		return ".md"
	default:
		return ".txt"
	}
}
