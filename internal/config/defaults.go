package config

import (
	_ "embed"
	"errors"
	"path/filepath"

	"github.com/adrg/xdg"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// Environment variables recognised by the loader.
const (
	// EnvLocalTemplates toggles local template mode ("1", "true").
	EnvLocalTemplates = "PKGSMITH_LOCAL_TEMPLATES"
	// EnvTemplatesRoot overrides templates.local_root.
	EnvTemplatesRoot = "PKGSMITH_TEMPLATES_ROOT"
	// EnvAPIURL overrides remote.api_url.
	EnvAPIURL = "PKGSMITH_API_URL"
	// EnvRemoteOwner overrides remote.owner.
	EnvRemoteOwner = "PKGSMITH_REMOTE_OWNER"
	// EnvRemoteRepo overrides remote.repo.
	EnvRemoteRepo = "PKGSMITH_REMOTE_REPO"
	// EnvRemoteRef overrides remote.ref.
	EnvRemoteRef = "PKGSMITH_REMOTE_REF"
	// EnvConfig points at an explicit config file.
	EnvConfig = "PKGSMITH_CONFIG"
)

// envKeys maps environment variables onto config keys.
var envKeys = map[string]string{
	EnvLocalTemplates: "templates.local",
	EnvTemplatesRoot:  "templates.local_root",
	EnvAPIURL:         "remote.api_url",
	EnvRemoteOwner:    "remote.owner",
	EnvRemoteRepo:     "remote.repo",
	EnvRemoteRef:      "remote.ref",
}

// DefaultConfigPath returns the user configuration file path
// ($XDG_CONFIG_HOME/pkgsmith/config.toml).
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pkgsmith", "config.toml")
}

// PackageManagersFor returns the package managers configured for language,
// falling back to the default package manager.
func (c *Config) PackageManagersFor(language string) []string {
	if lc, ok := c.Languages[language]; ok && len(lc.PackageManagers) > 0 {
		return lc.PackageManagers
	}
	if c.Package.DefaultPackageManager != "" {
		return []string{c.Package.DefaultPackageManager}
	}
	return nil
}

// rawBytesProvider implements the koanf provider interface for raw bytes.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
