package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Run("downloads to temp file", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("policy text"))
		}))
		defer server.Close()

		path, name, cleanup, err := Fetch(context.Background(), server.URL+"/docs/policy.txt")
		require.NoError(t, err)
		defer cleanup()

		assert.Equal(t, "policy.txt", name)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "policy text", string(data))

		cleanup()
		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("infers extension from content type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
			w.Write([]byte("fake"))
		}))
		defer server.Close()

		path, name, cleanup, err := Fetch(context.Background(), server.URL+"/download")
		require.NoError(t, err)
		defer cleanup()

		_ = path
		assert.Equal(t, "document.docx", name)
	})

	t.Run("query string does not pollute the name", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("x"))
		}))
		defer server.Close()

		_, name, cleanup, err := Fetch(context.Background(), server.URL+"/docs/policy.txt?token=abc")
		require.NoError(t, err)
		defer cleanup()

		assert.Equal(t, "policy.txt", name)
	})

	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		_, _, _, err := Fetch(context.Background(), server.URL+"/missing.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDownloadFailed)
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, _, _, err := Fetch(context.Background(), "http://127.0.0.1:1/doc.txt")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDownloadFailed)
	})
}
