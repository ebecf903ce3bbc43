package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tacogips/pkgsmith/internal/app"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new package from templates",
	Long: `Create a new package directory from the layered templates.

The global shared, language shared, resource shared and chosen template
layers are merged into the output directory (later layers win), *.mustache.*
files are rendered, community files are dropped from private packages, and a
git repository is initialized.

Values not given as flags are prompted for unless --yes is set.

Examples:
  pkgsmith create
  pkgsmith create --language typescript --name @acme/widgets --template library
  pkgsmith create --language go --name github.com/acme/tool --template cli --public --yes
  PKGSMITH_LOCAL_TEMPLATES=1 pkgsmith create --language rust --name demo --yes`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

// Create command flags
var (
	createLanguage       string
	createName           string
	createTemplate       string
	createPublic         bool
	createAuthorName     string
	createAuthorEmail    string
	createAuthorUsername string
	createPackageManager string
	createOutput         string
	createForce          bool
	createNoGit          bool
	createYes            bool
)

// Collaborators, replaced in tests.
var (
	newPrompter                     = func() prompter { return surveyPrompter{} }
	commandRunner app.CommandRunner = app.ExecRunner{}
)

func init() {
	createCmd.Flags().StringVarP(&createLanguage, FlagLanguage, "l", "", DescLanguage)
	createCmd.Flags().StringVarP(&createName, FlagName, "n", "", DescName)
	createCmd.Flags().StringVarP(&createTemplate, FlagTemplate, "t", "", DescTemplate)
	createCmd.Flags().BoolVar(&createPublic, FlagPublic, false, DescPublic)
	createCmd.Flags().StringVar(&createAuthorName, FlagAuthorName, "", DescAuthorName)
	createCmd.Flags().StringVar(&createAuthorEmail, FlagAuthorEmail, "", DescAuthorEmail)
	createCmd.Flags().StringVar(&createAuthorUsername, FlagAuthorUsername, "", DescAuthorUsername)
	createCmd.Flags().StringVarP(&createPackageManager, FlagPackageManager, "p", "", DescPackageManager)
	createCmd.Flags().StringVarP(&createOutput, FlagOutput, "o", "", DescOutput)
	createCmd.Flags().BoolVarP(&createForce, FlagForce, "f", false, DescForce)
	createCmd.Flags().BoolVar(&createNoGit, FlagNoGit, false, DescNoGit)
	createCmd.Flags().BoolVarP(&createYes, FlagYes, "y", false, DescYes)
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := ValidateEmail(createAuthorEmail); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := newAppFS()
	src := newSource(cfg, fs)
	defer src.Close()

	a := &answers{
		cfg: cfg,
		gen: app.GenerationConfig{
			Language:       createLanguage,
			PackageName:    createName,
			Template:       createTemplate,
			Public:         createPublic,
			AuthorName:     createAuthorName,
			AuthorEmail:    createAuthorEmail,
			AuthorUsername: createAuthorUsername,
			PackageManager: createPackageManager,
			OutputDir:      createOutput,
			Git:            !createNoGit,
		},
		publicSet:   cmd.Flags().Changed(FlagPublic),
		interactive: !createYes,
	}
	if err := completeAnswers(cmd.Context(), newPrompter(), src, a); err != nil {
		return err
	}

	printHeader("Creating package")
	printMuted(fmt.Sprintf("%s · %s · %s", a.gen.Language, a.gen.Template, a.gen.PackageName))
	printMuted(fmt.Sprintf("templates: %s", src.Name()))

	result, err := app.CreatePackage(cmd.Context(), app.Dependencies{
		Source:   src,
		FS:       fs,
		Runner:   commandRunner,
		Reporter: taskReporter{},
	}, app.CreateOptions{
		Config:         a.gen,
		Force:          createForce,
		NonPublicFiles: cfg.Package.NonPublicFiles,
		CommitMessage:  cfg.Package.CommitMessage,
	})
	if err != nil {
		return err
	}

	printCreateSummary(a.gen, result)
	return nil
}

func printCreateSummary(gen app.GenerationConfig, result *app.CreateResult) {
	printHeader("Done")
	printSuccess(fmt.Sprintf("Created %s in %s (%d files)", gen.PackageName, result.OutputDir, len(result.Files)))
	if len(result.Secrets) > 0 {
		printWarning("Configure these repository secrets for the workflows:")
		for _, name := range result.Secrets {
			printInfo(fmt.Sprintf("  - %s", name))
		}
	}

	printInfo("")
	printInfo("Next steps:")
	printInfo(fmt.Sprintf("  cd %s", filepath.Clean(result.OutputDir)))
	if result.HasPlayground {
		printInfo(fmt.Sprintf("  explore %s/", app.PlaygroundDir))
	}
}
