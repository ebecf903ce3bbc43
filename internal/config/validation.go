package config

import (
	"fmt"
	"net/url"
	"regexp"
)

var repoPartPattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Validate validates the merged configuration.
func Validate(config *Config) error {
	if config == nil {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "", "configuration cannot be nil")
	}

	if config.Templates.Local {
		if config.Templates.LocalRoot == "" {
			return NewConfigErrorWithField(ConfigValidationFailed, "", "templates.local_root",
				"local templates root is required in local mode")
		}
	} else {
		if err := validateRemote(config.Remote); err != nil {
			return err
		}
	}

	if config.Remote.Timeout < 0 {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "remote.timeout", "timeout cannot be negative")
	}

	for i, name := range config.Package.NonPublicFiles {
		if name == "" || name == "." || name == ".." || containsSeparator(name) {
			return NewConfigErrorWithField(ConfigValidationFailed, "",
				fmt.Sprintf("package.non_public_files[%d]", i),
				fmt.Sprintf("%q is not a basename", name))
		}
	}
	return nil
}

func validateRemote(remote RemoteConfig) error {
	u, err := url.Parse(remote.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "remote.api_url",
			fmt.Sprintf("invalid API URL: %q", remote.APIURL))
	}
	if !repoPartPattern.MatchString(remote.Owner) {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "remote.owner",
			fmt.Sprintf("invalid repository owner: %q", remote.Owner))
	}
	if !repoPartPattern.MatchString(remote.Repo) {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "remote.repo",
			fmt.Sprintf("invalid repository name: %q", remote.Repo))
	}
	if remote.Ref == "" {
		return NewConfigErrorWithField(ConfigValidationFailed, "", "remote.ref", "ref cannot be empty")
	}
	return nil
}

func containsSeparator(s string) bool {
	for _, r := range s {
		if r == '/' || r == '\\' {
			return true
		}
	}
	return false
}
