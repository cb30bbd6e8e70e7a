// Marquee - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package storage

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/marquee/internal/breaker"
	"github.com/tomtom215/marquee/internal/logging"
)

// ArchiveConfig configures the remote cache source.
type ArchiveConfig struct {
	// URL of a zip archive containing the two cache artifacts.
	URL string

	// MaxBytes caps the downloaded archive size.
	MaxBytes int64

	// MaxExtractBytes caps the uncompressed size of each artifact.
	MaxExtractBytes int64

	// Timeout bounds the whole download.
	Timeout time.Duration

	// Client is used for the download. Defaults to a client with Timeout.
	Client *http.Client
}

// ArchiveStore serves the cache from a local directory, seeding it from a
// remote zip archive when the directory has no cache yet.
type ArchiveStore struct {
	local   *DirStore
	cfg     ArchiveConfig
	client  *http.Client
	breaker *breaker.Breaker[string]
	logger  zerolog.Logger
}

// NewArchiveStore wraps local with a remote archive source.
//
//nolint:gocritic // hugeParam: config passed by value for immutability
func NewArchiveStore(local *DirStore, cfg ArchiveConfig) *ArchiveStore {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 512 << 20
	}
	if cfg.MaxExtractBytes <= 0 {
		cfg.MaxExtractBytes = 2 << 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &ArchiveStore{
		local:   local,
		cfg:     cfg,
		client:  client,
		breaker: breaker.New[string]("cache-archive", breaker.DefaultSettings()),
		logger:  logging.WithComponent("cache-archive"),
	}
}

// Load returns the local cache, fetching the archive first on a local miss.
// Fetch failures are logged and reported as ErrCacheMiss.
func (s *ArchiveStore) Load(ctx context.Context) (*Snapshot, error) {
	snap, err := s.local.Load(ctx)
	if !errors.Is(err, ErrCacheMiss) || s.cfg.URL == "" {
		return snap, err
	}

	start := time.Now()
	if err := s.fetch(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn().Ctx(ctx).Err(err).Str("url", s.cfg.URL).Msg("Cache archive unavailable, falling back to local build")
		return nil, ErrCacheMiss
	}
	s.logger.Info().Ctx(ctx).Str("url", s.cfg.URL).Dur("duration", time.Since(start)).Msg("Fetched cache archive")

	return s.local.Load(ctx)
}

// Save writes to the local directory.
func (s *ArchiveStore) Save(ctx context.Context, snap *Snapshot) error {
	return s.local.Save(ctx, snap)
}

// fetch downloads the archive and extracts both artifacts into the local dir.
func (s *ArchiveStore) fetch(ctx context.Context) error {
	archivePath, err := s.breaker.Execute(func() (string, error) {
		return s.download(ctx)
	})
	if err != nil {
		return err
	}
	defer removeQuietly(archivePath)

	return s.extract(archivePath)
}

// download streams the archive to a temp file, enforcing MaxBytes.
func (s *ArchiveStore) download(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download archive: %w", err)
	}
	defer func() { _ = resp.Body.Close() }() //nolint:errcheck // body fully consumed or abandoned

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download archive: unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > s.cfg.MaxBytes {
		return "", fmt.Errorf("archive is %d bytes, limit %d", resp.ContentLength, s.cfg.MaxBytes)
	}

	f, err := os.CreateTemp("", "marquee-cache-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp archive: %w", err)
	}
	tmp := f.Name()

	n, err := io.Copy(f, io.LimitReader(resp.Body, s.cfg.MaxBytes+1))
	closeErr := f.Close()
	switch {
	case err != nil:
		removeQuietly(tmp)
		return "", fmt.Errorf("read archive: %w", err)
	case closeErr != nil:
		removeQuietly(tmp)
		return "", fmt.Errorf("write temp archive: %w", closeErr)
	case n > s.cfg.MaxBytes:
		removeQuietly(tmp)
		return "", fmt.Errorf("archive exceeds %d bytes", s.cfg.MaxBytes)
	}
	return tmp, nil
}

// extract copies the two artifacts out of the archive into the local dir.
// Entries are matched by base name; any entry whose path escapes the archive
// root is rejected.
func (s *ArchiveStore) extract(archivePath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = zr.Close() }() //nolint:errcheck // read-only

	entries := make(map[string]*zip.File, 2)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		name, err := safeEntryName(f.Name)
		if err != nil {
			return err
		}
		base := path.Base(name)
		if base != MatrixFile && base != CatalogFile {
			continue
		}
		if _, dup := entries[base]; dup {
			return fmt.Errorf("archive contains %s more than once", base)
		}
		entries[base] = f
	}
	for _, want := range []string{CatalogFile, MatrixFile} {
		if entries[want] == nil {
			return fmt.Errorf("archive is missing %s", want)
		}
	}

	if err := os.MkdirAll(s.local.Dir(), 0o750); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	// Catalog first; the matrix is the commit marker.
	var temps []string
	for _, name := range []string{CatalogFile, MatrixFile} {
		tmp, err := s.local.writeTemp(name, func(w io.Writer) error {
			return s.copyEntry(w, entries[name])
		})
		if err != nil {
			for _, t := range temps {
				removeQuietly(t)
			}
			return err
		}
		temps = append(temps, tmp)
	}

	for i, name := range []string{CatalogFile, MatrixFile} {
		if err := os.Rename(temps[i], filepath.Join(s.local.Dir(), name)); err != nil {
			for _, t := range temps[i:] {
				removeQuietly(t)
			}
			return fmt.Errorf("install %s: %w", name, err)
		}
	}
	syncDir(s.local.Dir())
	return nil
}

func (s *ArchiveStore) copyEntry(w io.Writer, f *zip.File) error {
	if f.UncompressedSize64 > uint64(s.cfg.MaxExtractBytes) { //nolint:gosec // limit is positive
		return fmt.Errorf("%s is %d bytes uncompressed, limit %d", f.Name, f.UncompressedSize64, s.cfg.MaxExtractBytes)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }() //nolint:errcheck // read-only

	n, err := io.Copy(w, io.LimitReader(rc, s.cfg.MaxExtractBytes+1))
	if err != nil {
		return fmt.Errorf("extract %s: %w", f.Name, err)
	}
	if n > s.cfg.MaxExtractBytes {
		return fmt.Errorf("%s exceeds %d bytes uncompressed", f.Name, s.cfg.MaxExtractBytes)
	}
	return nil
}

// safeEntryName cleans a zip entry name and rejects absolute or parent-relative paths.
func safeEntryName(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("archive entry %q is absolute", name)
	}
	cleaned := path.Clean(name)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("archive entry %q escapes the archive root", name)
	}
	return cleaned, nil
}
