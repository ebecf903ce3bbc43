package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageManagerVersion(t *testing.T) {
	runner := newFakeRunner()
	runner.outputs["pnpm --version"] = "9.12.3\n"
	runner.outputs["yarn --version"] = "\n1.22.22\n"
	runner.outputs["go version"] = "go version go1.23.2 linux/amd64\n"
	runner.outputs["cargo --version"] = "cargo 1.82.0 (8f40fc59f 2024-08-21)\n"
	runner.outputs["bun --version"] = "1.1.30-canary.1+abc\n"
	runner.outputs["weird --version"] = "no digits here\n"

	tests := []struct {
		pm   string
		want string
	}{
		{"pnpm", "9.12.3"},
		{"yarn", "1.22.22"},
		{"go", "1.23.2"},
		{"cargo", "1.82.0"},
		{"bun", "1.1.30-canary.1+abc"},
		{"weird", LatestVersion},
		{"npm", LatestVersion},
		{"", LatestVersion},
	}

	for _, tt := range tests {
		t.Run(tt.pm, func(t *testing.T) {
			assert.Equal(t, tt.want, PackageManagerVersion(context.Background(), runner, tt.pm))
		})
	}
}

func TestExecRunner_MissingBinary(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "", "pkgsmith-missing-binary", "--version")
	assert.Error(t, err)
	assert.Equal(t, LatestVersion, PackageManagerVersion(context.Background(), ExecRunner{}, "pkgsmith-missing-binary"))
}
