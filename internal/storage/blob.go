package storage

import (
	"encoding/json"
	"errors"
	"io"
)

// ErrNotFound reports a blob that has not been written yet. Cache misses
// are a normal outcome for lazily generated content, so callers usually
// branch on it rather than fail.
var ErrNotFound = errors.New("blob not found")

type BlobStore interface {
	Put(key string, r io.Reader) (string, error) // returns canonical key
	Get(key string) (io.ReadCloser, error)       // ErrNotFound when absent
}

// SaveJSON marshals v and writes it under key.
func SaveJSON(s BlobStore, key string, v any) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = s.Put(key, bytesReader(buf))
	return err
}

// LoadJSON reads the blob at key into out. The second return is false on a
// miss (absent blob), with a nil error.
func LoadJSON(s BlobStore, key string, out any) (bool, error) {
	rc, err := s.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	defer rc.Close()
	if err := json.NewDecoder(rc).Decode(out); err != nil {
		return false, err
	}
	return true, nil
}
