// Package source locates template subtrees on local disk or in a remote
// repository archive and enumerates the templates available under a
// resource category.
package source

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/tacogips/pkgsmith/internal/config"
	"github.com/tacogips/pkgsmith/internal/fsutil"
)

// SharedDir is the reserved directory name for layers shared by every
// template below it. It is never offered as a template.
const SharedDir = "shared"

// TemplatesDir is the templates root inside the remote repository.
const TemplatesDir = "templates"

// Source abstracts where template trees are read from.
type Source interface {
	// Resolve returns an existing directory holding the template subtree
	// for language and resource. An empty language selects the global
	// scope; an empty resource selects the language directory itself.
	Resolve(ctx context.Context, language, resource string) (string, error)

	// ListTemplates returns the sorted names of the templates under
	// language/resource, excluding the shared directory.
	ListTemplates(ctx context.Context, language, resource string) ([]string, error)

	// Name returns the source name ("local" or "remote").
	Name() string

	// Close releases resources such as the download cache.
	Close() error
}

// Options configures New.
type Options struct {
	// BaseDir resolves a relative local root; the working directory when
	// empty.
	BaseDir string
	// Remote overrides the remote client settings, mainly for tests.
	Remote *RemoteOptions
}

// New creates the source selected by cfg.Templates.Local.
func New(cfg *config.Config, fs *fsutil.FS, opts Options) Source {
	if cfg.Templates.Local {
		return NewLocalSource(fs, cfg.Templates.LocalRoot, opts.BaseDir)
	}

	remote := RemoteOptions{
		APIURL:  cfg.Remote.APIURL,
		Owner:   cfg.Remote.Owner,
		Repo:    cfg.Remote.Repo,
		Ref:     cfg.Remote.Ref,
		Token:   cfg.Remote.Token,
		Timeout: cfg.Remote.Timeout,
	}
	if opts.Remote != nil {
		remote = *opts.Remote
	}
	return NewRemoteSource(fs, remote)
}

// TemplatePath joins the non-empty segments of language and resource with
// slashes.
func TemplatePath(language, resource string) string {
	var parts []string
	for _, p := range []string{language, resource} {
		p = strings.Trim(p, "/")
		if p != "" {
			parts = append(parts, p)
		}
	}
	return path.Join(parts...)
}

// isSelectable reports whether a directory name may be offered as a
// template.
func isSelectable(name string) bool {
	return !strings.EqualFold(name, SharedDir)
}

func sortedNames(names []string) []string {
	if names == nil {
		return []string{}
	}
	sort.Strings(names)
	return names
}
