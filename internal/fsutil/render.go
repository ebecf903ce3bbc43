package fsutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/template/render"
)

// RenderPlaceholders renders every marker file under root (see
// render.StripMarker) with vars, writes the output next to it under the
// stripped name and removes the original. Files without the marker are
// untouched. It does nothing when root is missing.
// Returns the relative paths of the files written.
func (f *FS) RenderPlaceholders(ctx context.Context, root string, r render.Renderer, vars render.Variables) ([]string, error) {
	if f.Kind(root) != KindDirectory {
		return []string{}, nil
	}

	// Collect first; the tree is mutated while rendering.
	var pending []string
	err := afero.Walk(f.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if render.HasMarker(info.Name()) {
			pending = append(pending, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s for templates: %w", root, err)
	}

	written := make([]string, 0, len(pending))
	for _, path := range pending {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		target, err := f.renderFile(ctx, path, r, vars)
		if err != nil {
			return written, err
		}

		rel, err := filepath.Rel(root, target)
		if err != nil {
			return written, err
		}
		written = append(written, filepath.ToSlash(rel))
	}

	f.log.Debug().
		Str("root", root).
		Int("rendered", len(written)).
		Msg("Rendered placeholders")
	return written, nil
}

// renderFile renders one marker file and returns the path written.
func (f *FS) renderFile(ctx context.Context, path string, r render.Renderer, vars render.Variables) (string, error) {
	stripped, _ := render.StripMarker(filepath.Base(path))
	target := filepath.Join(filepath.Dir(path), stripped)

	info, err := f.fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat template %s: %w", path, err)
	}

	content, err := afero.ReadFile(f.fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", path, err)
	}

	out, err := r.Render(ctx, content, vars)
	if err != nil {
		var perr *render.ParseError
		if errors.As(err, &perr) {
			return "", perr.WithFile(path)
		}
		return "", fmt.Errorf("failed to render %s: %w", path, err)
	}

	if err := afero.WriteFile(f.fs, target, out, info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("failed to write rendered file %s: %w", target, err)
	}
	if err := f.fs.Remove(path); err != nil {
		return "", fmt.Errorf("failed to remove template %s: %w", path, err)
	}

	f.log.Trace().Str("template", path).Str("output", target).Msg("Rendered file")
	return target, nil
}
