// Package fsutil provides the failure-tolerant file tree operations used to
// assemble packages: safe copies that merge into existing trees, pruning by
// basename and the placeholder render pass.
//
// "Source absent" is always an explicit no-op branch decided by Kind, never
// a swallowed error. Unexpected I/O failures propagate.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/logging"
)

// EntryKind classifies what exists at a path.
type EntryKind int

const (
	// KindMissing means nothing exists at the path, or it cannot be stat'ed.
	KindMissing EntryKind = iota
	// KindFile is a regular file.
	KindFile
	// KindDirectory is a directory.
	KindDirectory
	// KindOther is any other entry (device, socket, pipe).
	KindOther
)

// String returns the string representation of the kind.
func (k EntryKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// FS wraps an afero filesystem with the tree operations.
type FS struct {
	fs  afero.Fs
	log zerolog.Logger
}

// New creates an FS over the given afero filesystem.
func New(fs afero.Fs) *FS {
	return &FS{
		fs:  fs,
		log: logging.Get("fsutil"),
	}
}

// NewOS creates an FS over the real operating system filesystem.
func NewOS() *FS {
	return New(afero.NewOsFs())
}

// Afero returns the underlying filesystem.
func (f *FS) Afero() afero.Fs {
	return f.fs
}

// Kind reports what exists at path. Stat errors (including permission
// errors) are reported as KindMissing.
func (f *FS) Kind(path string) EntryKind {
	info, err := f.fs.Stat(path)
	if err != nil {
		return KindMissing
	}
	switch {
	case info.IsDir():
		return KindDirectory
	case info.Mode().IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// IsDirectory reports whether path is an existing directory.
func (f *FS) IsDirectory(path string) bool {
	return f.Kind(path) == KindDirectory
}

// EnsureDirectory creates path and any missing parents.
func (f *FS) EnsureDirectory(path string) error {
	if err := f.fs.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CopyFileSafe copies a regular file, creating parent directories of dest.
// It does nothing when src is missing or is not a regular file.
func (f *FS) CopyFileSafe(src, dest string) error {
	info, err := f.fs.Stat(src)
	if err != nil || !info.Mode().IsRegular() {
		f.log.Trace().Str("src", src).Msg("Copy source is not a regular file, skipping")
		return nil
	}
	return f.copyFile(src, dest, info.Mode().Perm())
}

func (f *FS) copyFile(src, dest string, mode os.FileMode) error {
	if err := f.EnsureDirectory(filepath.Dir(dest)); err != nil {
		return err
	}

	in, err := f.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := f.fs.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dest, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dest, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", dest, err)
	}
	return nil
}

// CopyDirectorySafe copies the tree under src into dest, merging with
// whatever dest already holds. Files at the same relative path are
// overwritten. It does nothing, and does not create dest, when src is
// missing or is not a directory.
func (f *FS) CopyDirectorySafe(src, dest string) error {
	if !f.IsDirectory(src) {
		f.log.Debug().Str("src", src).Msg("Copy source is not a directory, skipping")
		return nil
	}

	copied := 0
	err := afero.Walk(f.fs, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}
		target := filepath.Join(dest, rel)

		if info.IsDir() {
			return f.EnsureDirectory(target)
		}
		if info.Mode()&os.ModeSymlink != 0 {
			// Follow links to files; links to directories are not descended.
			resolved, statErr := f.fs.Stat(path)
			if statErr == nil && resolved.Mode().IsRegular() {
				info = resolved
			}
		}
		if !info.Mode().IsRegular() {
			f.log.Debug().Str("path", path).Msg("Skipping non-regular file")
			return nil
		}

		copied++
		return f.copyFile(path, target, info.Mode().Perm())
	})
	if err != nil {
		return err
	}

	f.log.Debug().
		Str("src", src).
		Str("dest", dest).
		Int("files", copied).
		Msg("Copied directory")
	return nil
}

// RemoveMatchingRecursively walks root depth-first and removes every file
// or directory whose basename satisfies match. A removed directory is not
// descended into. It does nothing when root is missing.
func (f *FS) RemoveMatchingRecursively(root string, match func(name string) bool) error {
	if f.Kind(root) != KindDirectory {
		return nil
	}

	entries, err := afero.ReadDir(f.fs, root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if match(entry.Name()) {
			if err := f.fs.RemoveAll(path); err != nil {
				return fmt.Errorf("failed to remove %s: %w", path, err)
			}
			f.log.Debug().Str("path", path).Msg("Removed matching entry")
			continue
		}
		if entry.IsDir() {
			if err := f.RemoveMatchingRecursively(path, match); err != nil {
				return err
			}
		}
	}
	return nil
}

// RemoveByBasenameList removes every entry under root whose basename is one
// of names.
func (f *FS) RemoveByBasenameList(root string, names []string) error {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return f.RemoveMatchingRecursively(root, func(name string) bool {
		_, ok := set[name]
		return ok
	})
}

// ListFiles returns the slash-separated paths of all regular files under
// root, relative to root and sorted. A missing root yields an empty list.
func (f *FS) ListFiles(root string) ([]string, error) {
	if !f.IsDirectory(root) {
		return []string{}, nil
	}

	files := []string{}
	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list files under %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}
