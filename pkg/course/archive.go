// SPDX-License-Identifier: MPL-2.0

package course

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	// ErrMemberNotFound is returned when a course archive lacks a requested file.
	ErrMemberNotFound = errors.New("archive member not found")
	// ErrInvalidArchivePath is returned when an archive entry would be
	// extracted outside the destination directory.
	ErrInvalidArchivePath = errors.New("invalid path in archive")

	gzipMagic  = []byte{0x1f, 0x8b}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}
	bzip2Magic = []byte("BZh")
)

// Accessor reads files from a course source without the caller knowing whether
// the source is a directory or an archive. Names passed to Open are slash
// separated and relative to the course root.
type Accessor struct {
	source      string
	packageName string
	packaged    bool
}

// NewAccessor inspects source and returns an Accessor for it.
func NewAccessor(source string) (*Accessor, error) {
	packaged, err := IsPackaged(source)
	if err != nil {
		return nil, err
	}
	return &Accessor{
		source:      source,
		packageName: PackageName(source),
		packaged:    packaged,
	}, nil
}

// Packaged reports whether the source is an archive.
func (a *Accessor) Packaged() bool { return a.packaged }

// PackageName returns the archive's top-level directory name.
func (a *Accessor) PackageName() string { return a.packageName }

// Open opens the named file of the course. For archives the file is read from
// the package directory; the returned reader must be closed by the caller.
func (a *Accessor) Open(name string) (io.ReadCloser, error) {
	if !a.packaged {
		f, err := os.Open(filepath.Join(a.source, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", name, err)
		}
		return f, nil
	}

	member := path.Join(a.packageName, name)
	ar, err := openArchive(a.source)
	if err != nil {
		return nil, err
	}
	for {
		hdr, nextErr := ar.Next()
		if errors.Is(nextErr, io.EOF) {
			_ = ar.Close() // Read-only; close error carries no information
			return nil, fmt.Errorf("%s in %s: %w", member, a.source, ErrMemberNotFound)
		}
		if nextErr != nil {
			_ = ar.Close()
			return nil, fmt.Errorf("failed to read archive %s: %w", a.source, nextErr)
		}
		if hdr.Typeflag == tar.TypeReg && memberName(hdr.Name) == member {
			return ar, nil
		}
	}
}

// Extract unpacks every directory and regular file of the archive at
// archivePath into destDir. Other entry types are skipped.
func Extract(archivePath, destDir string) (err error) {
	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return fmt.Errorf("failed to resolve destination directory: %w", err)
	}

	ar, err := openArchive(archivePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ar.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	for {
		hdr, nextErr := ar.Next()
		if errors.Is(nextErr, io.EOF) {
			return nil
		}
		if nextErr != nil {
			return fmt.Errorf("failed to read archive %s: %w", archivePath, nextErr)
		}

		destPath := filepath.Join(absDest, filepath.FromSlash(hdr.Name))
		relPath, relErr := filepath.Rel(absDest, destPath)
		if relErr != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
			return fmt.Errorf("%s: %w", hdr.Name, ErrInvalidArchivePath)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if mkdirErr := os.MkdirAll(destPath, 0o755); mkdirErr != nil {
				return fmt.Errorf("failed to create directory: %w", mkdirErr)
			}
		case tar.TypeReg:
			if mkdirErr := os.MkdirAll(filepath.Dir(destPath), 0o755); mkdirErr != nil {
				return fmt.Errorf("failed to create parent directory: %w", mkdirErr)
			}
			if extractErr := extractFile(ar, destPath, hdr.FileInfo().Mode().Perm()); extractErr != nil {
				return fmt.Errorf("failed to extract %s: %w", hdr.Name, extractErr)
			}
		}
	}
}

// extractFile copies the current archive entry to destPath.
func extractFile(r io.Reader, destPath string, perm os.FileMode) (err error) {
	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o600)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := destFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	//nolint:gosec // G110: course archives come from the user running them
	_, err = io.Copy(destFile, r)
	return err
}

// archiveReader is a tar stream over a possibly compressed file. Reads go to
// the current entry.
type archiveReader struct {
	*tar.Reader
	closers []func() error
}

// Close releases the decompressor and the underlying file.
func (a *archiveReader) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openArchive opens a tar archive, detecting gzip, zstd and bzip2 compression
// from the leading magic bytes.
func openArchive(archivePath string) (*archiveReader, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	ar := &archiveReader{closers: []func() error{f.Close}}

	br := bufio.NewReader(f)
	magic, peekErr := br.Peek(len(zstdMagic))
	if peekErr != nil && !errors.Is(peekErr, io.EOF) {
		_ = ar.Close()
		return nil, fmt.Errorf("failed to read archive %s: %w", archivePath, peekErr)
	}

	var stream io.Reader = br
	switch {
	case bytes.HasPrefix(magic, gzipMagic):
		gz, gzErr := gzip.NewReader(br)
		if gzErr != nil {
			_ = ar.Close()
			return nil, fmt.Errorf("failed to open gzip stream %s: %w", archivePath, gzErr)
		}
		ar.closers = append(ar.closers, gz.Close)
		stream = gz
	case bytes.HasPrefix(magic, zstdMagic):
		zr, zErr := zstd.NewReader(br)
		if zErr != nil {
			_ = ar.Close()
			return nil, fmt.Errorf("failed to open zstd stream %s: %w", archivePath, zErr)
		}
		ar.closers = append(ar.closers, func() error {
			zr.Close()
			return nil
		})
		stream = zr
	case bytes.HasPrefix(magic, bzip2Magic):
		stream = bzip2.NewReader(br)
	}

	ar.Reader = tar.NewReader(stream)
	return ar, nil
}

// memberName normalizes an entry name so "./demo/course.yaml" and
// "demo/course.yaml" compare equal.
func memberName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+name), "/")
}
