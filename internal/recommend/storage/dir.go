// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/logging"
	"github.com/tomtom215/marquee/internal/recommend"
)

// DirStore keeps the cache in a local directory.
type DirStore struct {
	dir    string
	logger zerolog.Logger
}

// NewDirStore returns a store rooted at dir. The directory is created on Save.
func NewDirStore(dir string) *DirStore {
	return &DirStore{
		dir:    dir,
		logger: logging.WithComponent("cache").With().Str("dir", dir).Logger(),
	}
}

// Dir returns the cache directory.
func (s *DirStore) Dir() string {
	return s.dir
}

// Exists reports whether both artifacts are present. It does not parse them.
func (s *DirStore) Exists() bool {
	for _, name := range []string{MatrixFile, CatalogFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Load reads both artifacts.
func (s *DirStore) Load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	catalogPath := filepath.Join(s.dir, CatalogFile)
	matrixPath := filepath.Join(s.dir, MatrixFile)

	movies, err := readFile(catalogPath, readCatalog)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matrix, err := readFile(matrixPath, readMatrix)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Ctx(ctx).
		Int("movies", len(movies)).
		Int("matrix_movies", matrix.Len()).
		Dur("duration", time.Since(start)).
		Msg("Loaded similarity cache")

	return &Snapshot{Catalog: movies, Matrix: matrix}, nil
}

// readFile opens path and decodes it, mapping absence to ErrCacheMiss and
// everything else to a CacheError.
func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T

	f, err := os.Open(path) //nolint:gosec // path is built from the configured cache directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zero, ErrCacheMiss
		}
		return zero, &recommend.CacheError{Op: "load", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	v, err := decode(f)
	if err != nil {
		return zero, &recommend.CacheError{Op: "load", Path: path, Err: err}
	}
	return v, nil
}

// Save writes both artifacts. The matrix is renamed into place last.
func (s *DirStore) Save(ctx context.Context, snap *Snapshot) error {
	if snap == nil || snap.Matrix == nil {
		return &recommend.CacheError{Op: "save", Path: s.dir, Err: errors.New("nil snapshot")}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return &recommend.CacheError{Op: "save", Path: s.dir, Err: err}
	}

	catalogTmp, err := s.writeTemp(CatalogFile, func(w io.Writer) error {
		return writeCatalog(w, snap.Catalog)
	})
	if err != nil {
		return err
	}

	matrixTmp, err := s.writeTemp(MatrixFile, func(w io.Writer) error {
		return writeMatrix(w, snap.Matrix)
	})
	if err != nil {
		removeQuietly(catalogTmp)
		return err
	}

	catalogPath := filepath.Join(s.dir, CatalogFile)
	if err := os.Rename(catalogTmp, catalogPath); err != nil {
		removeQuietly(catalogTmp)
		removeQuietly(matrixTmp)
		return &recommend.CacheError{Op: "save", Path: catalogPath, Err: err}
	}

	matrixPath := filepath.Join(s.dir, MatrixFile)
	if err := os.Rename(matrixTmp, matrixPath); err != nil {
		removeQuietly(matrixTmp)
		return &recommend.CacheError{Op: "save", Path: matrixPath, Err: err}
	}

	syncDir(s.dir)

	s.logger.Info().Ctx(ctx).
		Int("movies", len(snap.Catalog)).
		Int("matrix_movies", snap.Matrix.Len()).
		Dur("duration", time.Since(start)).
		Msg("Saved similarity cache")

	return nil
}

// writeTemp encodes into a temp file next to the final artifact and fsyncs it.
func (s *DirStore) writeTemp(name string, encode func(io.Writer) error) (string, error) {
	f, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return "", &recommend.CacheError{Op: "save", Path: filepath.Join(s.dir, name), Err: err}
	}
	tmp := f.Name()

	fail := func(err error) (string, error) {
		_ = f.Close() //nolint:errcheck // already failing
		removeQuietly(tmp)
		return "", &recommend.CacheError{Op: "save", Path: filepath.Join(s.dir, name), Err: err}
	}

	if err := encode(f); err != nil {
		return fail(err)
	}
	if err := f.Sync(); err != nil {
		return fail(fmt.Errorf("fsync: %w", err))
	}
	if err := f.Close(); err != nil {
		removeQuietly(tmp)
		return "", &recommend.CacheError{Op: "save", Path: filepath.Join(s.dir, name), Err: err}
	}
	return tmp, nil
}

func removeQuietly(path string) {
	_ = os.Remove(path) //nolint:errcheck // cleanup of a temp file
}

// syncDir flushes the directory entry so renames survive a crash.
// Not all platforms support fsync on directories; errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // configured cache directory
	if err != nil {
		return
	}
	_ = d.Sync()  //nolint:errcheck // best effort
	_ = d.Close() //nolint:errcheck // best effort
}
