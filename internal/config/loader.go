package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Loader defines the interface for loading configuration.
type Loader interface {
	// Load merges defaults, the config file at path and the environment.
	// An empty path means DefaultConfigPath; a missing default file is not
	// an error, a missing explicit file is.
	Load(path string) (*Config, error)
	// Validate validates the configuration.
	Validate(config *Config) error
}

// KoanfLoader implements Loader with koanf layering.
type KoanfLoader struct {
	// Environ returns the environment; os.Environ when nil.
	Environ func() []string
}

// NewLoader creates a new KoanfLoader instance.
func NewLoader() *KoanfLoader {
	return &KoanfLoader{}
}

// Load merges defaults, the config file at path and the environment.
func (l *KoanfLoader) Load(path string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, "defaults", "failed to load defaults", err)
	}

	// 2. User config file
	explicit := path != ""
	if !explicit {
		if p := l.getenv(EnvConfig); p != "" {
			path = p
			explicit = true
		} else {
			path = DefaultConfigPath()
		}
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to parse configuration file", err)
		}
	} else if explicit {
		return nil, NewConfigErrorWithCause(ConfigNotFound, path, "configuration file not found", err)
	}

	// 3. Environment
	envK := koanf.New(".")
	var envErr error
	if l.Environ == nil {
		envErr = envK.Load(env.Provider("PKGSMITH_", ".", func(s string) string {
			return envKeys[s]
		}), nil)
	} else {
		envErr = envK.Load(confmap.Provider(environToKeys(l.Environ()), "."), nil)
	}
	if envErr != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, "environment", "failed to load environment", envErr)
	}
	if err := k.Merge(envK); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, "environment", "failed to merge environment", err)
	}

	// 4. Unmarshal
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, NewConfigErrorWithCause(ConfigInvalid, path, "failed to decode configuration", err)
	}

	if cfg.Remote.Token == "" {
		cfg.Remote.Token = l.githubTokenFromEnv()
	}

	if err := l.Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (l *KoanfLoader) Validate(config *Config) error {
	return Validate(config)
}

func (l *KoanfLoader) getenv(key string) string {
	if l.Environ == nil {
		return os.Getenv(key)
	}
	return parseEnviron(l.Environ())[key]
}

// parseEnviron splits KEY=VALUE entries.
func parseEnviron(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if i := strings.IndexByte(kv, '='); i > 0 {
			vars[kv[:i]] = kv[i+1:]
		}
	}
	return vars
}

// environToKeys maps recognised variables onto config keys.
func environToKeys(environ []string) map[string]interface{} {
	out := make(map[string]interface{})
	for name, value := range parseEnviron(environ) {
		if key, ok := envKeys[name]; ok {
			out[key] = value
		}
	}
	return out
}

// githubTokenFromEnv checks GITHUB_TOKEN first, then GH_TOKEN.
func (l *KoanfLoader) githubTokenFromEnv() string {
	if token := l.getenv("GITHUB_TOKEN"); token != "" {
		return token
	}
	return l.getenv("GH_TOKEN")
}

// Load loads configuration with a default loader.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Default returns the embedded default configuration without reading any
// file or environment variable.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	return &cfg
}
