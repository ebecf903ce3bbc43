package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
)

// Output destinations, replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

var (
	successStyle  = pterm.NewStyle(pterm.FgGreen)
	warningStyle  = pterm.NewStyle(pterm.FgYellow)
	errorStyle    = pterm.NewStyle(pterm.FgRed, pterm.Bold)
	progressStyle = pterm.NewStyle(pterm.FgBlue)
	mutedStyle    = pterm.NewStyle(pterm.FgGray)
	headerStyle   = pterm.NewStyle(pterm.FgMagenta, pterm.Bold)
)

// Output formatting helpers

// printError prints an error to stderr. Errors are printed even in quiet
// mode.
func printError(err error) {
	fmt.Fprintf(stderr, "%s %v\n", errorStyle.Sprint("Error:"), err)
}

// printInfo prints an informational message
func printInfo(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, msg)
}

// printSuccess prints a success message
func printSuccess(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", successStyle.Sprint("✓"), msg)
}

// printWarning prints a warning message
func printWarning(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", warningStyle.Sprint("⚠"), msg)
}

// printErrorMsg prints an error message (different from printError which takes error type)
func printErrorMsg(msg string) {
	fmt.Fprintf(stderr, "%s %s\n", errorStyle.Sprint("✗"), msg)
}

// printProgress prints a progress indicator
func printProgress(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "%s %s\n", progressStyle.Sprint("→"), msg)
}

// printMuted prints secondary detail
func printMuted(msg string) {
	if globalQuiet {
		return
	}
	fmt.Fprintln(stdout, mutedStyle.Sprint(msg))
}

// printHeader prints a section header
func printHeader(title string) {
	if globalQuiet {
		return
	}
	fmt.Fprintf(stdout, "\n%s\n", headerStyle.Sprintf("=== %s ===", title))
}
