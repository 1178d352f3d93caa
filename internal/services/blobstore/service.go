// Package blobstore provides named byte-blob storage behind a small
// interface so the persistence core never touches the filesystem directly.
package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"scriptdeck/internal/validate"
)

// Store is the blob storage boundary. Implementations must be safe for a
// single writer; the core does not serialize concurrent writers.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}

// FS stores blobs as files in one directory of an afero filesystem.
type FS struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
}

// NewFS creates a filesystem-backed store rooted at dir.
func NewFS(logger zerolog.Logger, fs afero.Fs, dir string) *FS {
	return &FS{fs: fs, dir: dir, logger: logger}
}

// Read returns the blob's bytes. A missing blob satisfies
// errors.Is(err, os.ErrNotExist) through the wrapped cause.
func (s *FS) Read(_ context.Context, name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if err != nil {
		return nil, validate.WrapError(validate.KindReadFailed, err, "reading blob %q", name)
	}
	return data, nil
}

// Write replaces the blob wholesale.
func (s *FS) Write(_ context.Context, name string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return validate.WrapError(validate.KindStorageUnavailable, err, "creating storage directory %q", s.dir)
	}
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, name), data, 0o644); err != nil {
		return validate.WrapError(validate.KindStorageUnavailable, err, "writing blob %q", name)
	}
	return nil
}

// List returns the names of every stored blob, sorted.
func (s *FS) List(_ context.Context) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, validate.WrapError(validate.KindReadFailed, err, "listing storage directory %q", s.dir)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		if !info.IsDir() {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes one blob. Deleting a missing blob is not an error.
func (s *FS) Delete(_ context.Context, name string) error {
	err := s.fs.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return validate.WrapError(validate.KindStorageUnavailable, err, "deleting blob %q", name)
	}
	return nil
}
