// Package compose merges the template layers of a package into an output
// directory, renders placeholders and prunes files that only belong to
// public packages.
package compose

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/logging"
	"github.com/tacogips/pkgsmith/internal/template/render"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// Compositor composes packages from layered templates.
type Compositor interface {
	// Compose resolves every layer, copies them into the output directory in
	// precedence order, renders placeholders and prunes non-public files.
	// A partially written output directory is left in place on failure.
	Compose(ctx context.Context, req Request) (*Result, error)
}

// Request configures a composition.
type Request struct {
	// Language is the target language.
	Language string
	// Resource is the resource category; PackageResource when empty.
	Resource string
	// Template is the chosen template name.
	Template string
	// OutputDir is the directory receiving the merged tree. It is created
	// when missing.
	OutputDir string
	// Variables is the render context.
	Variables render.Variables
	// Public keeps community files when true.
	Public bool
	// NonPublicFiles are the basenames removed when Public is false.
	NonPublicFiles []string
}

// ResolvedLayer is a layer with the directory it resolved to.
type ResolvedLayer struct {
	Layer
	// Dir is the directory the layer was copied from, empty when an
	// optional layer is absent.
	Dir string
}

// Present reports whether the layer resolved to a directory.
func (l ResolvedLayer) Present() bool {
	return l.Dir != ""
}

// Result describes a completed composition.
type Result struct {
	// Layers are the resolved layers in copy order.
	Layers []ResolvedLayer
	// Rendered are the output paths produced by the render pass.
	Rendered []string
	// Pruned reports whether non-public files were removed.
	Pruned bool
	// Files are all files in the output directory, slash-separated and
	// relative to it.
	Files []string
}

// DefaultCompositor implements Compositor.
type DefaultCompositor struct {
	source   source.Source
	fs       *fsutil.FS
	renderer render.Renderer
	log      zerolog.Logger
}

// New creates a DefaultCompositor.
// If renderer is nil, creates a default renderer.
func New(src source.Source, fs *fsutil.FS, renderer render.Renderer) *DefaultCompositor {
	if renderer == nil {
		renderer = render.NewRenderer()
	}
	return &DefaultCompositor{
		source:   src,
		fs:       fs,
		renderer: renderer,
		log:      logging.Get("compose"),
	}
}

// Compose implements Compositor.
func (c *DefaultCompositor) Compose(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	resource := req.Resource
	if resource == "" {
		resource = PackageResource
	}
	vars := req.Variables
	if vars == nil {
		vars = render.NewMapVariables(nil)
	}

	done := logging.OperationStart(c.log, "compose")
	defer done()

	layers := LayersFor(req.Language, resource, req.Template)
	result := &Result{Layers: make([]ResolvedLayer, 0, len(layers))}

	// Resolve all layers before writing anything.
	for _, layer := range layers {
		dir, err := c.source.Resolve(ctx, layer.Language, layer.Resource)
		if err != nil {
			if !layer.Optional || !isAbsent(err) {
				return nil, fmt.Errorf("failed to resolve %s layer: %w", layer.Kind, err)
			}
			c.log.Debug().
				Stringer("layer", layer.Kind).
				Str("path", layer.Path()).
				Msg("Optional layer absent")
			dir = ""
		}
		result.Layers = append(result.Layers, ResolvedLayer{Layer: layer, Dir: dir})
	}

	if err := c.fs.EnsureDirectory(req.OutputDir); err != nil {
		return nil, err
	}

	// Sequential: later layers overwrite earlier ones.
	for _, layer := range result.Layers {
		if !layer.Present() {
			continue
		}
		c.log.Debug().
			Stringer("layer", layer.Kind).
			Str("dir", layer.Dir).
			Msg("Copying layer")
		if err := c.fs.CopyDirectorySafe(layer.Dir, req.OutputDir); err != nil {
			return result, fmt.Errorf("failed to copy %s layer: %w", layer.Kind, err)
		}
	}

	rendered, err := c.fs.RenderPlaceholders(ctx, req.OutputDir, c.renderer, vars)
	if err != nil {
		return result, fmt.Errorf("failed to render placeholders: %w", err)
	}
	result.Rendered = rendered

	if !req.Public {
		if err := c.fs.RemoveByBasenameList(req.OutputDir, req.NonPublicFiles); err != nil {
			return result, fmt.Errorf("failed to remove non-public files: %w", err)
		}
		result.Pruned = true
	}

	files, err := c.fs.ListFiles(req.OutputDir)
	if err != nil {
		return result, err
	}
	result.Files = files

	c.log.Info().
		Str("language", req.Language).
		Str("template", req.Template).
		Int("files", len(files)).
		Msg("Composed package")
	return result, nil
}

// isAbsent reports whether err says a subtree does not exist, as opposed
// to a transport or I/O failure.
func isAbsent(err error) bool {
	var srcErr *source.SourceError
	if !errors.As(err, &srcErr) {
		return false
	}
	switch srcErr.Type {
	case source.LocalTemplatesNotFound, source.RemoteTemplatesNotFound, source.RemoteTemplatesMissingAfterDownload:
		return true
	default:
		return false
	}
}

func validateRequest(req Request) error {
	if req.Language == "" {
		return fmt.Errorf("language is required")
	}
	if req.Template == "" {
		return fmt.Errorf("template is required")
	}
	if req.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}
