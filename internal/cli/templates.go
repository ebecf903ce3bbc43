package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tacogips/pkgsmith/internal/app"
)

// templatesCmd represents the templates command group
var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Template management commands",
	Long:  `Inspect the available templates and validate template files.`,
}

// templatesListCmd represents the templates list command
var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the templates available for a language",
	Long: `List the templates selectable for a language. Shared layers are not
listed.

Examples:
  pkgsmith templates list --language typescript
  pkgsmith templates list --language go --resource package`,
	Args: cobra.NoArgs,
	RunE: runTemplatesList,
}

// templatesCheckCmd represents the templates check command
var templatesCheckCmd = &cobra.Command{
	Use:   "check [PATH]",
	Short: "Validate placeholder syntax in template files",
	Long: `Validate the placeholder syntax of *.mustache.* files and report keys
that no package run provides.

If PATH is not specified, the current directory is checked.

Examples:
  pkgsmith templates check
  pkgsmith templates check ./templates -r`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTemplatesCheck,
}

// Templates list command flags
var (
	templatesListLanguage string
	templatesListResource string
)

// Templates check command flags
var templatesCheckRecursive bool

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesCheckCmd)

	templatesListCmd.Flags().StringVarP(&templatesListLanguage, FlagLanguage, "l", "", DescLanguage)
	templatesListCmd.Flags().StringVar(&templatesListResource, FlagResource, "", DescResource)
	_ = templatesListCmd.MarkFlagRequired(FlagLanguage)

	templatesCheckCmd.Flags().BoolVarP(&templatesCheckRecursive, FlagRecursive, "r", false, DescRecursive)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	src := newSource(cfg, newAppFS())
	defer src.Close()

	names, err := app.ListTemplates(cmd.Context(), src, templatesListLanguage, templatesListResource)
	if err != nil {
		return err
	}

	if len(names) == 0 {
		printWarning(fmt.Sprintf("No templates found for %s", templatesListLanguage))
		return nil
	}
	for _, name := range names {
		fmt.Fprintln(stdout, name)
	}
	return nil
}

func runTemplatesCheck(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	printProgress(fmt.Sprintf("Checking templates in: %s", path))

	result, err := app.CheckTemplates(cmd.Context(), newAppFS(), app.CheckTemplateOptions{
		Path:      path,
		Recursive: templatesCheckRecursive,
	})
	if err != nil {
		return err
	}

	if result.FilesChecked == 0 {
		printWarning("No template files found (files with a .mustache segment)")
		return nil
	}
	printInfo(fmt.Sprintf("Files checked: %d", result.FilesChecked))

	files := make([]string, 0, len(result.UnknownKeys))
	for file := range result.UnknownKeys {
		files = append(files, file)
	}
	sort.Strings(files)
	for _, file := range files {
		printWarning(fmt.Sprintf("%s: keys without a value: %v", file, result.UnknownKeys[file]))
	}

	if result.FilesWithErrors > 0 {
		printHeader("Errors Found")
		for _, checkErr := range result.Errors {
			if checkErr.Line > 0 {
				printErrorMsg(fmt.Sprintf("%s:%d - %s", checkErr.File, checkErr.Line, checkErr.Message))
			} else {
				printErrorMsg(fmt.Sprintf("%s - %s", checkErr.File, checkErr.Message))
			}
		}
		return fmt.Errorf("validation failed: %d file(s) with errors", result.FilesWithErrors)
	}

	printSuccess("All templates are valid")
	return nil
}
