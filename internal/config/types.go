package config

// Config represents the global pkgsmith configuration.
type Config struct {
	// Templates selects where template trees are read from.
	Templates TemplatesConfig `koanf:"templates"`
	// Remote configures the source-hosting repository used in remote mode.
	Remote RemoteConfig `koanf:"remote"`
	// Package configures package assembly.
	Package PackageConfig `koanf:"package"`
	// Languages holds per-language settings keyed by language identifier.
	Languages map[string]LanguageConfig `koanf:"languages"`
}

// TemplatesConfig represents template source selection.
type TemplatesConfig struct {
	// Local selects local mode (templates under LocalRoot) instead of remote.
	// Fixed for the lifetime of the process once loaded.
	Local bool `koanf:"local"`
	// LocalRoot is the local templates root, relative to the working directory
	// unless absolute.
	LocalRoot string `koanf:"local_root"`
}

// RemoteConfig represents the remote repository holding the templates.
type RemoteConfig struct {
	// APIURL is the hosting API base URL (for enterprise installations).
	APIURL string `koanf:"api_url"`
	// Owner is the repository owner.
	Owner string `koanf:"owner"`
	// Repo is the repository name.
	Repo string `koanf:"repo"`
	// Ref is the branch, tag, or commit SHA to read templates from.
	Ref string `koanf:"ref"`
	// Token is the optional access token.
	Token string `koanf:"token"`
	// Timeout is the request timeout in seconds.
	Timeout int `koanf:"timeout"`
}

// PackageConfig represents package assembly settings.
type PackageConfig struct {
	// NonPublicFiles are basenames removed anywhere in the tree when the
	// generated package is not public.
	NonPublicFiles []string `koanf:"non_public_files"`
	// DefaultPackageManager is used when none is given.
	DefaultPackageManager string `koanf:"default_package_manager"`
	// CommitMessage is the message of the initial git commit.
	CommitMessage string `koanf:"commit_message"`
}

// LanguageConfig represents settings for one target language.
type LanguageConfig struct {
	// PackageManagers lists the selectable package managers, default first.
	PackageManagers []string `koanf:"package_managers"`
}
