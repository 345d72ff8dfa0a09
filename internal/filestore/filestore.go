package filestore

import (
	"context"
	"errors"
	"io"
)

// ErrUnavailable marks read faults where the metadata record exists but the
// underlying bytes cannot be opened. Callers treat it as a recoverable
// anomaly, not data corruption.
var ErrUnavailable = errors.New("stored file unavailable")

// WriteResult reports where a payload landed and the size confirmed by the
// backend after the write, not merely the input length.
type WriteResult struct {
	Path string
	Size int64
}

// FileStore persists document payloads under a per-company namespace.
type FileStore interface {
	// Write durably stores content under the company's namespace, provisioning
	// it if absent. Provisioning an existing namespace is not an error.
	Write(ctx context.Context, companyID, key string, content []byte, contentType string) (WriteResult, error)

	// OpenStream opens the stored payload for reading. It either succeeds
	// fully or fails with an error wrapping ErrUnavailable.
	OpenStream(ctx context.Context, path string) (io.ReadCloser, error)

	// Remove deletes the payload. It returns false with a nil error when the
	// target is already absent, so deletion is idempotent and retry-safe.
	Remove(ctx context.Context, path string) (bool, error)
}
