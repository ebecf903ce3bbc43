package cli

import (
	"github.com/tacogips/pkgsmith/internal/config"
	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/logging"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// Collaborators, replaced in tests. Commands build their filesystem after
// PersistentPreRun so it logs through the configured logger.
var (
	newAppFS      = fsutil.NewOS
	tokenFallback = ghAuthToken
)

// loadConfig loads the configuration selected by --config.
// In remote mode without a configured token, the gh CLI token is used.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalConfigPath)
	if err != nil {
		return nil, err
	}
	if !cfg.Templates.Local && cfg.Remote.Token == "" {
		cfg.Remote.Token = tokenFallback()
	}

	log := logging.Get("cli")
	log.Debug().
		Bool("local", cfg.Templates.Local).
		Str("owner", cfg.Remote.Owner).
		Str("repo", cfg.Remote.Repo).
		Str("ref", cfg.Remote.Ref).
		Bool("token", cfg.Remote.Token != "").
		Msg("Configuration loaded")
	return cfg, nil
}

// newSource creates the template source for cfg on fs.
func newSource(cfg *config.Config, fs *fsutil.FS) source.Source {
	return source.New(cfg, fs, source.Options{})
}
