// Package media is the content-addressed file store rendered page images
// are persisted into.
//
// Files are written to a temporary path and moved into place on finalize,
// so readers never observe partially written pages. Finalized files are
// addressed by a stable Ref whose URL is the configured public base URL
// plus the storage key.
package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrStorage marks page persistence failures.
var ErrStorage = errors.New("storage failure")

// Ref is a stable reference to a finalized file.
type Ref struct {
	Key string
	url string
}

// URL returns the public URL the file is served under.
func (r Ref) URL() string { return r.url }

// Store persists files under string keys.
type Store interface {
	Create(key string) (Upload, error)
}

// Upload is an in-progress file write. Data written is not visible until
// Finalize succeeds.
type Upload interface {
	io.Writer
	// Finalize makes the written data durable and returns its reference.
	Finalize() (Ref, error)
	// Abort discards the written data. Safe to call after Finalize.
	Abort()
}

// FSStore is a filesystem-backed Store serving files from a root directory
// behind a public base URL.
type FSStore struct {
	root    string
	baseURL string
}

// NewFSStore creates a store rooted at root whose finalized files are
// reachable under baseURL/<key>.
func NewFSStore(root, baseURL string) *FSStore {
	return &FSStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

// Create opens a new upload for the given key.
func (s *FSStore) Create(key string) (Upload, error) {
	cleaned := filepath.Clean("/" + key)[1:]
	if cleaned == "" || cleaned == "." {
		return nil, fmt.Errorf("%w: empty media key", ErrStorage)
	}
	finalPath := filepath.Join(s.root, filepath.FromSlash(cleaned))
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: create media directory: %w", ErrStorage, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(finalPath), "."+filepath.Base(finalPath)+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file for %s: %w", ErrStorage, key, err)
	}
	return &fsUpload{
		file:      tmp,
		finalPath: finalPath,
		ref:       Ref{Key: cleaned, url: s.baseURL + "/" + cleaned},
	}, nil
}

type fsUpload struct {
	file      *os.File
	finalPath string
	ref       Ref
	done      bool
}

func (u *fsUpload) Write(p []byte) (int, error) {
	n, err := u.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: write %s: %w", ErrStorage, u.ref.Key, err)
	}
	return n, nil
}

func (u *fsUpload) Finalize() (Ref, error) {
	if u.done {
		return Ref{}, fmt.Errorf("%w: upload for %s already finished", ErrStorage, u.ref.Key)
	}
	u.done = true
	if err := u.file.Close(); err != nil {
		_ = os.Remove(u.file.Name())
		return Ref{}, fmt.Errorf("%w: close %s: %w", ErrStorage, u.ref.Key, err)
	}
	if err := os.Rename(u.file.Name(), u.finalPath); err != nil {
		_ = os.Remove(u.file.Name())
		return Ref{}, fmt.Errorf("%w: finalize %s: %w", ErrStorage, u.ref.Key, err)
	}
	return u.ref, nil
}

func (u *fsUpload) Abort() {
	if u.done {
		return
	}
	u.done = true
	_ = u.file.Close()
	_ = os.Remove(u.file.Name())
}
