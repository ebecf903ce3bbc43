package cli

import (
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/tacogips/pkgsmith/internal/logging"
)

// Version information, set by main from build-time variables.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global flags
var (
	globalConfigPath string
	globalVerbose    int
	globalNoColor    bool
	globalQuiet      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pkgsmith",
	Short: "Package scaffolding tool",
	Long: `pkgsmith creates new packages from layered templates.

Use "pkgsmith create" to:
  1. Choose a language, template and package metadata
  2. Merge the shared and template layers into a new directory
  3. Render {{placeholders}} and drop community files from private packages
  4. Initialize a git repository and list the CI secrets to configure

Templates are read from the remote template repository, or from ./templates
when PKGSMITH_LOCAL_TEMPLATES=1.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(globalVerbose, globalNoColor)
		if globalNoColor {
			pterm.DisableColor()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&globalConfigPath, FlagConfig, "", DescConfig)
	rootCmd.PersistentFlags().CountVarP(&globalVerbose, FlagVerbose, "v", DescVerbose)
	rootCmd.PersistentFlags().BoolVar(&globalNoColor, FlagNoColor, false, DescNoColor)
	rootCmd.PersistentFlags().BoolVarP(&globalQuiet, FlagQuiet, "q", false, DescQuiet)

	// Add subcommands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(versionCmd)
}
