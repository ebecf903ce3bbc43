package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/logging"
)

// LocalSource reads templates from a directory on disk.
type LocalSource struct {
	// Root is the templates root as configured.
	Root string
	// BaseDir is the base directory for resolving a relative Root.
	// If empty, uses current working directory.
	BaseDir string

	fs  *fsutil.FS
	log zerolog.Logger
}

// NewLocalSource creates a local source rooted at root.
func NewLocalSource(fs *fsutil.FS, root, baseDir string) *LocalSource {
	return &LocalSource{
		Root:    root,
		BaseDir: baseDir,
		fs:      fs,
		log:     logging.Get("source.local"),
	}
}

// Name returns the source name.
func (s *LocalSource) Name() string {
	return "local"
}

// Close is a no-op for local sources.
func (s *LocalSource) Close() error {
	return nil
}

// Resolve returns the local directory for language and resource.
func (s *LocalSource) Resolve(ctx context.Context, language, resource string) (string, error) {
	root, err := s.rootDir()
	if err != nil {
		return "", err
	}

	rel := TemplatePath(language, resource)
	candidate := filepath.Join(root, filepath.FromSlash(rel))
	s.log.Debug().
		Str("language", language).
		Str("resource", resource).
		Str("candidate", candidate).
		Msg("Resolving local templates")

	if s.fs.IsDirectory(candidate) {
		return candidate, nil
	}

	reported := root
	if !s.fs.IsDirectory(root) {
		reported = NoLocalRoot
	}
	return "", NewLocalNotFoundError(reported, language, resource, candidate)
}

// ListTemplates lists the template directories under language/resource.
// A missing directory yields an empty list.
func (s *LocalSource) ListTemplates(ctx context.Context, language, resource string) ([]string, error) {
	root, err := s.rootDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(root, filepath.FromSlash(TemplatePath(language, resource)))
	if !s.fs.IsDirectory(dir) {
		s.log.Debug().Str("dir", dir).Msg("Template directory absent, nothing to list")
		return []string{}, nil
	}

	entries, err := afero.ReadDir(s.fs.Afero(), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() || !isSelectable(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	return sortedNames(names), nil
}

// rootDir resolves Root against BaseDir or the working directory.
func (s *LocalSource) rootDir() (string, error) {
	if filepath.IsAbs(s.Root) {
		return filepath.Clean(s.Root), nil
	}
	base := s.BaseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		base = wd
	}
	return filepath.Join(base, s.Root), nil
}
