package middleware

import (
	"bytes"
	"io"
	"net/http"
)

// cacheRequestBody reads r.Body fully into memory, sets r.Body to a fresh
// io.NopCloser reader over the cached bytes for immediate consumption (e.g.
// by a price calculator), and returns the cached bytes so the caller can
// call resetRequestBody afterward to rewind r.Body for the protected
// handler.
func cacheRequestBody(r *http.Request) ([]byte, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()

	r.Body = io.NopCloser(bytes.NewReader(data))
	return data, nil
}

// resetRequestBody replaces r.Body with a fresh reader over data, so a
// downstream handler sees the full body even after a price calculator
// already consumed a prior reader over the same bytes.
func resetRequestBody(r *http.Request, data []byte) {
	if data == nil {
		return
	}
	r.Body = io.NopCloser(bytes.NewReader(data))
}
