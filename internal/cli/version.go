package cli

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long: `Display version information for pkgsmith.

Examples:
  pkgsmith version
  pkgsmith version --short
  pkgsmith version --json`,
	RunE: runVersion,
}

// Version command flags
var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Show version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Output as JSON")
}

// VersionInfo contains version information
type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := VersionInfo{
		Version:   Version,
		GoVersion: runtime.Version(),
		Commit:    GitCommit,
		BuildDate: BuildDate,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if versionShort {
		fmt.Fprintln(stdout, info.Version)
		return nil
	}

	if versionJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(stdout, string(data))
		return nil
	}

	// Normal output
	fmt.Fprintf(stdout, "pkgsmith version %s\n", info.Version)
	fmt.Fprintf(stdout, "Built with: %s\n", info.GoVersion)
	fmt.Fprintf(stdout, "Commit: %s\n", info.Commit)
	fmt.Fprintf(stdout, "Build date: %s\n", info.BuildDate)
	fmt.Fprintf(stdout, "OS/Arch: %s/%s\n", info.OS, info.Arch)

	return nil
}
