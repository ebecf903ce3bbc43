package source

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

// extractTarball extracts a gzip-compressed repository tarball into dest.
// Hosting archives wrap the tree in a single "<repo>-<sha>/" directory that
// is stripped. Only entries under keepPrefix (after stripping) are written
// when keepPrefix is not empty. It returns the number of files written.
//
// Symlinks are recreated when fs supports them. No entry may be written
// through a symlink from the archive, and no link target may traverse one,
// so every path stays inside dest.
func extractTarball(fs afero.Fs, r io.Reader, dest, keepPrefix string) (int, error) {
	gzr, err := gzip.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzr.Close()

	if err := fs.MkdirAll(dest, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dest, err)
	}

	tr := tar.NewReader(gzr)
	links := make(map[string]bool)
	count := 0
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return count, fmt.Errorf("failed to read tar entry: %w", err)
		}

		// Strip the archive root directory.
		parts := strings.SplitN(header.Name, "/", 2)
		if len(parts) < 2 || parts[1] == "" {
			continue
		}
		relPath := path.Clean(parts[1])
		if relPath == ".." || strings.HasPrefix(relPath, "../") || path.IsAbs(relPath) {
			return count, fmt.Errorf("illegal path in archive: %s", header.Name)
		}
		if keepPrefix != "" && relPath != keepPrefix && !strings.HasPrefix(relPath, keepPrefix+"/") {
			continue
		}

		if links[relPath] || traversesLink(links, ".", relPath) {
			return count, fmt.Errorf("illegal path through symlink in archive: %s", header.Name)
		}

		target := filepath.Join(dest, filepath.FromSlash(relPath))

		switch header.Typeflag {
		case tar.TypeDir:
			if err := fs.MkdirAll(target, dirMode(header.Mode)); err != nil {
				return count, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err := writeEntry(fs, tr, target, os.FileMode(header.Mode).Perm()); err != nil {
				return count, err
			}
			count++
		case tar.TypeSymlink:
			linker, ok := fs.(afero.Linker)
			if !ok {
				continue
			}
			if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return count, fmt.Errorf("failed to create parent directory: %w", err)
			}
			resolved := path.Clean(path.Join(path.Dir(relPath), header.Linkname))
			if path.IsAbs(header.Linkname) || resolved == ".." || strings.HasPrefix(resolved, "../") ||
				traversesLink(links, path.Dir(relPath), header.Linkname) {
				return count, fmt.Errorf("illegal symlink in archive: %s -> %s", header.Name, header.Linkname)
			}
			if err := linker.SymlinkIfPossible(header.Linkname, target); err != nil {
				return count, fmt.Errorf("failed to create symlink %s: %w", target, err)
			}
			links[relPath] = true
		}
	}
	return count, nil
}

// traversesLink walks rel from start and reports whether any step leaves
// from a path in links. The final element may itself be a link.
func traversesLink(links map[string]bool, start, rel string) bool {
	cur := start
	for _, seg := range strings.Split(rel, "/") {
		if seg == "" || seg == "." {
			continue
		}
		if links[cur] {
			return true
		}
		if seg == ".." {
			cur = path.Dir(cur)
		} else {
			cur = path.Join(cur, seg)
		}
	}
	return false
}

func writeEntry(fs afero.Fs, r io.Reader, target string, mode os.FileMode) error {
	if err := fs.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if mode == 0 {
		mode = 0644
	}

	out, err := fs.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("failed to write file %s: %w", target, err)
	}
	return out.Close()
}

func dirMode(mode int64) os.FileMode {
	if m := os.FileMode(mode).Perm(); m != 0 {
		return m | 0700
	}
	return 0755
}
