package cli

import (
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// Common flag names and descriptions
const (
	// Flag names
	FlagConfig         = "config"
	FlagVerbose        = "verbose"
	FlagNoColor        = "no-color"
	FlagQuiet          = "quiet"
	FlagLanguage       = "language"
	FlagName           = "name"
	FlagTemplate       = "template"
	FlagPublic         = "public"
	FlagAuthorName     = "author-name"
	FlagAuthorEmail    = "author-email"
	FlagAuthorUsername = "author-username"
	FlagPackageManager = "package-manager"
	FlagOutput         = "output"
	FlagForce          = "force"
	FlagNoGit          = "no-git"
	FlagYes            = "yes"
	FlagResource       = "resource"
	FlagRecursive      = "recursive"

	// Flag descriptions
	DescConfig         = "Path to config file"
	DescVerbose        = "Verbose output (repeat for more detail)"
	DescNoColor        = "Disable colored output"
	DescQuiet          = "Suppress non-error output"
	DescLanguage       = "Target language (e.g. typescript, go, rust)"
	DescName           = "Package name"
	DescTemplate       = "Template name"
	DescPublic         = "Create a public package (keeps community files, writes LICENSE)"
	DescAuthorName     = "Author name"
	DescAuthorEmail    = "Author email"
	DescAuthorUsername = "Author username on the hosting service"
	DescPackageManager = "Package manager"
	DescOutput         = "Output directory (default: the package name)"
	DescForce          = "Write into a non-empty output directory"
	DescNoGit          = "Skip git repository initialization"
	DescYes            = "Do not prompt; fail on missing required values"
	DescResource       = "Resource category below the language"
	DescRecursive      = "Check subdirectories"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+$`)

// ValidateEmail validates an optional email address.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ghAuthToken asks the gh CLI for its stored token. It returns "" when gh
// is unavailable or not logged in.
func ghAuthToken() string {
	if _, err := exec.LookPath("gh"); err != nil {
		return ""
	}
	output, err := exec.Command("gh", "auth", "token").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
