package app

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLicense(t *testing.T) {
	t.Run("public with author", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		require.NoError(t, mem.MkdirAll("/pkg", 0755))

		written, err := WriteLicense(mem, "/pkg", validConfig(), 2030)
		require.NoError(t, err)
		assert.True(t, written)

		data, err := afero.ReadFile(mem, "/pkg/LICENSE")
		require.NoError(t, err)
		assert.Contains(t, string(data), "MIT License")
		assert.Contains(t, string(data), "Copyright (c) 2030 Ada Lovelace")
		assert.NotContains(t, string(data), "{year}")
	})

	t.Run("private", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		cfg := validConfig()
		cfg.Public = false

		written, err := WriteLicense(mem, "/pkg", cfg, 2030)
		require.NoError(t, err)
		assert.False(t, written)
		exists, _ := afero.Exists(mem, "/pkg/LICENSE")
		assert.False(t, exists)
	})

	t.Run("no author", func(t *testing.T) {
		mem := afero.NewMemMapFs()
		cfg := validConfig()
		cfg.AuthorName = "  "

		written, err := WriteLicense(mem, "/pkg", cfg, 2030)
		require.NoError(t, err)
		assert.False(t, written)
	})

	t.Run("write failure", func(t *testing.T) {
		ro := afero.NewReadOnlyFs(afero.NewMemMapFs())

		_, err := WriteLicense(ro, "/pkg", validConfig(), 2030)
		require.Error(t, err)
		var appErr *AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, LicenseFailed, appErr.Type)
	})
}
