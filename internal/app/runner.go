package app

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// CommandRunner runs external programs.
type CommandRunner interface {
	// Run executes name with args in dir and returns its combined output.
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return string(out), fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
		}
		return string(out), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, msg)
	}
	return string(out), nil
}

// LatestVersion is reported when a package manager version cannot be
// determined.
const LatestVersion = "latest"

// versionArgs lists package managers that do not accept --version.
var versionArgs = map[string][]string{
	"go": {"version"},
}

var versionPattern = regexp.MustCompile(`\d+\.\d+(\.\d+)?([\-+][0-9A-Za-z.+\-]+)?`)

// PackageManagerVersion asks pm for its version. It returns LatestVersion
// when pm is empty, unavailable or prints no version.
func PackageManagerVersion(ctx context.Context, runner CommandRunner, pm string) string {
	if pm == "" {
		return LatestVersion
	}
	args, ok := versionArgs[pm]
	if !ok {
		args = []string{"--version"}
	}

	out, err := runner.Run(ctx, "", pm, args...)
	if err != nil {
		return LatestVersion
	}
	if v := parseVersion(out); v != "" {
		return v
	}
	return LatestVersion
}

// parseVersion returns the first version number in the first non-empty
// line of out.
func parseVersion(out string) string {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		return versionPattern.FindString(line)
	}
	return ""
}
