package compose

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/template/render"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// newWorkspace writes files (relative to /work/templates) into a memory
// filesystem and returns a compositor reading them in local mode.
func newWorkspace(t *testing.T, files map[string]string) (*DefaultCompositor, afero.Fs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	for name, content := range files {
		path := filepath.Join("/work/templates", filepath.FromSlash(name))
		require.NoError(t, afero.WriteFile(mem, path, []byte(content), 0644))
	}
	fs := fsutil.New(mem)
	src := source.NewLocalSource(fs, "./templates", "/work")
	return New(src, fs, nil), mem
}

func read(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.FromSlash(path))
	require.NoError(t, err)
	return string(data)
}

func TestLayers(t *testing.T) {
	layers := Layers("typescript", "basic")
	require.Len(t, layers, 4)

	want := []struct {
		kind LayerKind
		path string
	}{
		{GlobalShared, "shared"},
		{LanguageShared, "typescript/shared"},
		{ResourceShared, "typescript/package/shared"},
		{ChosenTemplate, "typescript/package/basic"},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, layers[i].Kind)
		assert.Equal(t, w.path, layers[i].Path())
	}
	assert.False(t, layers[3].Optional)
	assert.Equal(t, "", layers[0].Language)
}

func TestCompose_LayerPrecedence(t *testing.T) {
	c, mem := newWorkspace(t, map[string]string{
		"shared/config.txt":                     "global",
		"typescript/shared/config.txt":          "language",
		"typescript/package/shared/config.txt":  "resource",
		"typescript/package/basic/config.txt":   "template",
		"typescript/package/shared/only-res.md": "resource only",
	})

	result, err := c.Compose(context.Background(), Request{
		Language:  "typescript",
		Template:  "basic",
		OutputDir: "/out",
		Public:    true,
	})
	require.NoError(t, err)

	assert.Equal(t, "template", read(t, mem, "/out/config.txt"))
	assert.Equal(t, "resource only", read(t, mem, "/out/only-res.md"))
	assert.Equal(t, []string{"config.txt", "only-res.md"}, result.Files)
	for _, layer := range result.Layers {
		assert.True(t, layer.Present(), layer.Kind.String())
	}
}

func TestCompose_LayerPrecedence_EachPair(t *testing.T) {
	paths := []string{
		"shared/f.txt",
		"typescript/shared/f.txt",
		"typescript/package/shared/f.txt",
		"typescript/package/basic/f.txt",
	}

	// The highest layer present always wins.
	for top := range paths {
		t.Run(paths[top], func(t *testing.T) {
			files := map[string]string{"typescript/package/basic/keep": ""}
			for i := 0; i <= top; i++ {
				files[paths[i]] = paths[i]
			}
			c, mem := newWorkspace(t, files)

			_, err := c.Compose(context.Background(), Request{
				Language: "typescript", Template: "basic", OutputDir: "/out", Public: true,
			})
			require.NoError(t, err)
			assert.Equal(t, paths[top], read(t, mem, "/out/f.txt"))
		})
	}
}

func TestCompose_EndToEnd(t *testing.T) {
	c, mem := newWorkspace(t, map[string]string{
		"typescript/shared/tsconfig.json":                "lang tsconfig",
		"typescript/shared/README.md":                    "lang readme",
		"typescript/package/shared/.gitignore":           "node_modules",
		"typescript/package/shared/README.md":            "resource readme",
		"typescript/package/basic/src/index.ts":          "export {}",
		"typescript/package/basic/README.md":             "basic readme",
		"typescript/package/advanced/README.md":          "advanced readme",
		"typescript/package/basic/CODE_OF_CONDUCT.md":    "be nice",
		"typescript/package/basic/package.mustache.json": `{"name": "{{packageName}}"}`,
	})

	result, err := c.Compose(context.Background(), Request{
		Language:       "typescript",
		Resource:       "package",
		Template:       "basic",
		OutputDir:      "/out/my-lib",
		Variables:      render.NewMapVariables(map[string]interface{}{"packageName": "my-lib"}),
		Public:         false,
		NonPublicFiles: []string{"CODE_OF_CONDUCT.md"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		".gitignore",
		"README.md",
		"package.json",
		"src/index.ts",
		"tsconfig.json",
	}, result.Files)
	assert.Equal(t, "basic readme", read(t, mem, "/out/my-lib/README.md"))
	assert.Equal(t, `{"name": "my-lib"}`, read(t, mem, "/out/my-lib/package.json"))
	assert.Equal(t, []string{"package.json"}, result.Rendered)
	assert.True(t, result.Pruned)
	assert.False(t, result.Layers[0].Present(), "global shared layer is absent")
}

func TestCompose_PublicKeepsCommunityFiles(t *testing.T) {
	c, mem := newWorkspace(t, map[string]string{
		"go/package/cli/CONTRIBUTING.md":                        "contribute",
		"go/package/cli/.github/ISSUE_TEMPLATE/bug.md":          "bug",
		"go/package/cli/.github/workflows/release.mustache.yml": "name: {{packageName}}",
	})

	req := Request{
		Language:       "go",
		Template:       "cli",
		OutputDir:      "/out",
		Variables:      render.NewMapVariables(map[string]interface{}{"packageName": "tool"}),
		Public:         true,
		NonPublicFiles: []string{"CONTRIBUTING.md", "ISSUE_TEMPLATE"},
	}
	result, err := c.Compose(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, result.Pruned)
	assert.Contains(t, result.Files, "CONTRIBUTING.md")
	assert.Contains(t, result.Files, ".github/ISSUE_TEMPLATE/bug.md")
	assert.Equal(t, "name: tool", read(t, mem, "/out/.github/workflows/release.yml"))
}

func TestCompose_PrivatePrunesNestedDirectories(t *testing.T) {
	c, _ := newWorkspace(t, map[string]string{
		"go/package/cli/CONTRIBUTING.md":               "contribute",
		"go/package/cli/.github/ISSUE_TEMPLATE/bug.md": "bug",
		"go/package/cli/main.go":                       "package main",
	})

	result, err := c.Compose(context.Background(), Request{
		Language:       "go",
		Template:       "cli",
		OutputDir:      "/out",
		NonPublicFiles: []string{"CONTRIBUTING.md", "ISSUE_TEMPLATE"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go"}, result.Files)
}

func TestCompose_MissingTemplateFails(t *testing.T) {
	c, mem := newWorkspace(t, map[string]string{
		"typescript/shared/README.md": "lang readme",
	})

	_, err := c.Compose(context.Background(), Request{
		Language: "typescript", Template: "missing", OutputDir: "/out",
	})
	require.Error(t, err)

	var srcErr *source.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, source.LocalTemplatesNotFound, srcErr.Type)
	assert.Contains(t, err.Error(), "package/missing")

	exists, err := afero.DirExists(mem, "/out")
	require.NoError(t, err)
	assert.False(t, exists, "nothing is written when a layer cannot be resolved")
}

// failingSource fails every resolution with a transport-style error.
type failingSource struct{ source.Source }

func (failingSource) Resolve(ctx context.Context, language, resource string) (string, error) {
	return "", source.NewDownloadError(language, resource, "templates/"+resource, errors.New("connection refused"))
}

func TestCompose_DownloadFailureOnOptionalLayerFails(t *testing.T) {
	mem := afero.NewMemMapFs()
	fs := fsutil.New(mem)
	c := New(failingSource{}, fs, nil)

	_, err := c.Compose(context.Background(), Request{
		Language: "go", Template: "cli", OutputDir: "/out",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "global-shared")
	assert.Contains(t, err.Error(), "failed to download templates: connection refused")
}

func TestCompose_RenderErrorSurfaces(t *testing.T) {
	c, _ := newWorkspace(t, map[string]string{
		"go/package/cli/README.mustache.md": "{{#items}}unclosed",
	})

	_, err := c.Compose(context.Background(), Request{
		Language: "go", Template: "cli", OutputDir: "/out",
	})
	require.Error(t, err)

	var perr *render.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.File, "README.mustache.md")
}

func TestCompose_ValidatesRequest(t *testing.T) {
	c, _ := newWorkspace(t, nil)

	tests := []struct {
		name string
		req  Request
	}{
		{"missing language", Request{Template: "x", OutputDir: "/out"}},
		{"missing template", Request{Language: "go", OutputDir: "/out"}},
		{"missing output", Request{Language: "go", Template: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Compose(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}
