package source

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	header  *tar.Header
	content string
}

func gzipTar(t *testing.T, entries []tarEntry) *bytes.Reader {
	t.Helper()

	var buf bytes.Buffer
	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)
	for _, e := range entries {
		if e.header.Typeflag == tar.TypeReg {
			e.header.Size = int64(len(e.content))
		}
		require.NoError(t, tw.WriteHeader(e.header))
		if e.content != "" {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestExtractTarball_PreservesSymlinks(t *testing.T) {
	dest := t.TempDir()
	archive := gzipTar(t, []tarEntry{
		{header: &tar.Header{Name: "repo-abc/", Typeflag: tar.TypeDir, Mode: 0755}},
		{header: &tar.Header{Name: "repo-abc/templates/", Typeflag: tar.TypeDir, Mode: 0755}},
		{header: &tar.Header{Name: "repo-abc/templates/AGENTS.md", Typeflag: tar.TypeReg, Mode: 0644}, content: "agent instructions\n"},
		{header: &tar.Header{Name: "repo-abc/templates/CLAUDE.md", Typeflag: tar.TypeSymlink, Linkname: "AGENTS.md"}},
		{header: &tar.Header{Name: "repo-abc/templates/run.sh", Typeflag: tar.TypeReg, Mode: 0755}, content: "#!/bin/sh\n"},
	})

	count, err := extractTarball(afero.NewOsFs(), archive, dest, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	link := filepath.Join(dest, "templates", "CLAUDE.md")
	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&os.ModeSymlink)

	data, err := os.ReadFile(link)
	require.NoError(t, err)
	assert.Equal(t, "agent instructions\n", string(data))

	info, err = os.Stat(filepath.Join(dest, "templates", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestExtractTarball_KeepPrefix(t *testing.T) {
	mem := afero.NewMemMapFs()
	archive := gzipTar(t, []tarEntry{
		{header: &tar.Header{Name: "repo-abc/README.md", Typeflag: tar.TypeReg, Mode: 0644}, content: "readme"},
		{header: &tar.Header{Name: "repo-abc/templatesX/a", Typeflag: tar.TypeReg, Mode: 0644}, content: "a"},
		{header: &tar.Header{Name: "repo-abc/templates/go/go.mod", Typeflag: tar.TypeReg, Mode: 0644}, content: "module x"},
	})

	count, err := extractTarball(mem, archive, "/cache", "templates")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	for path, want := range map[string]bool{
		"/cache/README.md":           false,
		"/cache/templatesX/a":        false,
		"/cache/templates/go/go.mod": true,
	} {
		exists, err := afero.Exists(mem, filepath.FromSlash(path))
		require.NoError(t, err)
		assert.Equal(t, want, exists, path)
	}
}

func TestExtractTarball_RejectsEscapingPaths(t *testing.T) {
	dir := func(name string) tarEntry {
		return tarEntry{header: &tar.Header{Name: name, Typeflag: tar.TypeDir, Mode: 0755}}
	}
	link := func(name, target string) tarEntry {
		return tarEntry{header: &tar.Header{Name: name, Typeflag: tar.TypeSymlink, Linkname: target}}
	}
	file := func(name string) tarEntry {
		return tarEntry{header: &tar.Header{Name: name, Typeflag: tar.TypeReg, Mode: 0644}, content: "x"}
	}

	tests := []struct {
		name    string
		entries []tarEntry
	}{
		{
			name:    "parent traversal",
			entries: []tarEntry{file("repo-abc/../../etc/passwd")},
		},
		{
			name:    "escaping symlink",
			entries: []tarEntry{link("repo-abc/templates/link", "../../../etc/passwd")},
		},
		{
			name: "symlink chain",
			entries: []tarEntry{
				dir("repo-abc/templates/"),
				link("repo-abc/templates/a", ".."),
				link("repo-abc/templates/a/b", "../.."),
				file("repo-abc/templates/a/b/evil.txt"),
			},
		},
		{
			name: "link target through a link",
			entries: []tarEntry{
				dir("repo-abc/templates/"),
				link("repo-abc/templates/a", "."),
				link("repo-abc/templates/c", "a/../.."),
				file("repo-abc/templates/c/evil.txt"),
			},
		},
		{
			name: "file through an inside link",
			entries: []tarEntry{
				dir("repo-abc/templates/sub/"),
				link("repo-abc/templates/a", "sub"),
				file("repo-abc/templates/a/evil.txt"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			dest := filepath.Join(root, "a", "cache")

			_, err := extractTarball(afero.NewOsFs(), gzipTar(t, tt.entries), dest, "")
			assert.Error(t, err)

			for _, p := range []string{
				filepath.Join(root, "evil.txt"),
				filepath.Join(root, "a", "evil.txt"),
			} {
				assert.NoFileExists(t, p)
			}
		})
	}
}

func TestTraversesLink(t *testing.T) {
	links := map[string]bool{"templates/a": true}

	assert.False(t, traversesLink(links, ".", "templates/a"))
	assert.False(t, traversesLink(links, "templates", "b/../c"))
	assert.True(t, traversesLink(links, ".", "templates/a/b"))
	assert.True(t, traversesLink(links, "templates", "a/.."))
	assert.False(t, traversesLink(nil, ".", "templates/x/y"))
}
