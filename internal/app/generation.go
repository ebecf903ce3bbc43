package app

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// GenerationConfig holds the answers collected for one package.
type GenerationConfig struct {
	// Language is the target language identifier.
	Language string
	// PackageName is the package name.
	PackageName string
	// Template is the chosen template name.
	Template string
	// Public keeps community files and writes a license.
	Public bool
	// AuthorName is the optional author's name.
	AuthorName string
	// AuthorEmail is the optional author's email.
	AuthorEmail string
	// AuthorUsername is the optional author's hosting username.
	AuthorUsername string
	// PackageManager is the selected package manager.
	PackageManager string
	// OutputDir is the package directory; defaults to the package name.
	OutputDir string
	// Git bootstraps a git repository when true.
	Git bool
}

// packageNamePattern accepts npm-style scoped names, Go module paths and
// crate names.
var packageNamePattern = regexp.MustCompile(`^(@[a-z0-9][a-z0-9._\-]*/)?[A-Za-z0-9][A-Za-z0-9._\-/]*$`)

// Validate checks required fields.
func (c GenerationConfig) Validate() error {
	if c.Language == "" {
		return fmt.Errorf("language is required")
	}
	if c.PackageName == "" {
		return fmt.Errorf("package name is required")
	}
	if !packageNamePattern.MatchString(c.PackageName) {
		return fmt.Errorf("invalid package name: %q", c.PackageName)
	}
	if c.Template == "" {
		return fmt.Errorf("template is required")
	}
	if c.AuthorEmail != "" && !strings.Contains(c.AuthorEmail, "@") {
		return fmt.Errorf("invalid author email: %q", c.AuthorEmail)
	}
	return ValidateOutputDir(c.ResolvedOutputDir())
}

// ResolvedOutputDir returns OutputDir, or the last segment of the package
// name when it is empty.
func (c GenerationConfig) ResolvedOutputDir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	name := c.PackageName
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// ValidateOutputDir validates that the output directory path is safe.
func ValidateOutputDir(path string) error {
	if path == "" {
		return fmt.Errorf("output directory cannot be empty")
	}

	// Check for path traversal attempts
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return fmt.Errorf("output directory cannot contain '..'")
		}
	}

	return nil
}

// BuildRenderContext builds the flat placeholder context for one run.
// Optional fields are present as empty strings so their placeholders
// render empty instead of surviving verbatim.
func BuildRenderContext(c GenerationConfig, packageManagerVersion string, hasPlayground bool, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"language":              c.Language,
		"packageName":           c.PackageName,
		"template":              c.Template,
		"public":                c.Public,
		"authorName":            c.AuthorName,
		"authorEmail":           c.AuthorEmail,
		"authorUsername":        c.AuthorUsername,
		"packageManager":        c.PackageManager,
		"outputDir":             c.ResolvedOutputDir(),
		"git":                   c.Git,
		"packageManagerVersion": packageManagerVersion,
		"hasPlayground":         hasPlayground,
		"year":                  now.Year(),
	}
}
