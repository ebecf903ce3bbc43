package app

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverSecrets(t *testing.T) {
	mem := afero.NewMemMapFs()
	files := map[string]string{
		"/pkg/.github/workflows/release.yml": `name: Release
on:
  push:
    branches: [main]
jobs:
  release:
    if: ${{ !cancelled() }}
    runs-on: ubuntu-latest
    steps:
      - uses: actions/checkout@v4
        with:
          token: ${{ secrets.GITHUB_TOKEN }}
      - run: npm publish
        env:
          NODE_AUTH_TOKEN: ${{ secrets.NPM_TOKEN }}
          FALLBACK: ${{ secrets.PRIMARY || secrets['BACKUP_TOKEN'] }}
`,
		"/pkg/.github/workflows/ci.yaml": `jobs:
  test:
    steps:
      - run: |
          echo "${{ secrets.NPM_TOKEN }}"
          echo "${{
            secrets.CODECOV_TOKEN
          }}"
      - run: echo secrets.NOT_AN_EXPRESSION
`,
		"/pkg/.github/workflows/README.md": "${{ secrets.IGNORED }}",
		"/pkg/.github/other.yml":           "x: ${{ secrets.OUTSIDE }}",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0644))
	}

	secrets, err := DiscoverSecrets(mem, "/pkg")
	require.NoError(t, err)
	assert.Equal(t, []string{"BACKUP_TOKEN", "CODECOV_TOKEN", "NPM_TOKEN", "PRIMARY"}, secrets)
}

func TestDiscoverSecrets_NoWorkflows(t *testing.T) {
	secrets, err := DiscoverSecrets(afero.NewMemMapFs(), "/pkg")
	require.NoError(t, err)
	assert.Empty(t, secrets)
}

func TestDiscoverSecrets_MalformedWorkflow(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/pkg/.github/workflows/bad.yml", []byte("jobs: [unclosed"), 0644))

	_, err := DiscoverSecrets(mem, "/pkg")
	require.Error(t, err)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, SecretScanFailed, appErr.Type)
	assert.Contains(t, err.Error(), "bad.yml")
}
