package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/AlecAivazis/survey/v2"

	"github.com/tacogips/pkgsmith/internal/app"
	"github.com/tacogips/pkgsmith/internal/config"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// prompter asks the user for missing answers.
type prompter interface {
	Input(message, defaultVal, help string, validate func(string) error) (string, error)
	Select(message string, options []string, defaultVal string) (string, error)
	Confirm(message string, defaultVal bool) (bool, error)
}

// surveyPrompter implements prompter with survey.
type surveyPrompter struct{}

func (surveyPrompter) Input(message, defaultVal, help string, validate func(string) error) (string, error) {
	var result string
	prompt := &survey.Input{
		Message: message,
		Default: defaultVal,
		Help:    help,
	}

	opts := []survey.AskOpt{}
	if validate != nil {
		opts = append(opts, survey.WithValidator(stringValidator(validate)))
	}
	if err := survey.AskOne(prompt, &result, opts...); err != nil {
		return "", err
	}
	return result, nil
}

func (surveyPrompter) Select(message string, options []string, defaultVal string) (string, error) {
	var result string
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if defaultVal != "" {
		prompt.Default = defaultVal
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (surveyPrompter) Confirm(message string, defaultVal bool) (bool, error) {
	var result bool
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultVal,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// stringValidator adapts validate to a survey validator.
func stringValidator(validate func(string) error) survey.Validator {
	return func(val interface{}) error {
		str, ok := val.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", val)
		}
		return validate(str)
	}
}

func requireValue(s string) error {
	if s == "" {
		return fmt.Errorf("value is required")
	}
	return nil
}

// answers are the generation answers collected from flags.
type answers struct {
	cfg *config.Config
	gen app.GenerationConfig
	// publicSet reports whether --public was given.
	publicSet bool
	// interactive enables prompting; when false missing required values
	// are errors.
	interactive bool
}

// completeAnswers fills the answers the flags left empty, prompting when
// interactive and applying defaults otherwise.
func completeAnswers(ctx context.Context, p prompter, src source.Source, a *answers) error {
	gen := &a.gen

	if gen.Language == "" {
		if !a.interactive {
			return fmt.Errorf("--%s is required", FlagLanguage)
		}
		languages := languageNames(a.cfg)
		if len(languages) == 0 {
			return fmt.Errorf("no languages configured")
		}
		lang, err := p.Select("Language", languages, "")
		if err != nil {
			return fmt.Errorf("failed to prompt for language: %w", err)
		}
		gen.Language = lang
	}

	if gen.PackageName == "" {
		if !a.interactive {
			return fmt.Errorf("--%s is required", FlagName)
		}
		name, err := p.Input("Package name", "", "npm-style scoped names and module paths are accepted", requireValue)
		if err != nil {
			return fmt.Errorf("failed to prompt for package name: %w", err)
		}
		gen.PackageName = name
	}

	if gen.Template == "" {
		templates, err := app.ListTemplates(ctx, src, gen.Language, "")
		if err != nil {
			return err
		}
		switch {
		case len(templates) == 0:
			return fmt.Errorf("no templates available for %s", gen.Language)
		case len(templates) == 1:
			gen.Template = templates[0]
		case !a.interactive:
			return fmt.Errorf("--%s is required (available: %v)", FlagTemplate, templates)
		default:
			tmpl, err := p.Select("Template", templates, "")
			if err != nil {
				return fmt.Errorf("failed to prompt for template: %w", err)
			}
			gen.Template = tmpl
		}
	}

	if !a.publicSet && a.interactive {
		public, err := p.Confirm("Public package?", false)
		if err != nil {
			return fmt.Errorf("failed to prompt for visibility: %w", err)
		}
		gen.Public = public
	}

	if a.interactive {
		if err := promptAuthor(p, gen); err != nil {
			return err
		}
	}

	if gen.PackageManager == "" {
		managers := a.cfg.PackageManagersFor(gen.Language)
		switch {
		case len(managers) == 0:
			return fmt.Errorf("--%s is required: no package manager configured for %s", FlagPackageManager, gen.Language)
		case len(managers) == 1 || !a.interactive:
			gen.PackageManager = managers[0]
		default:
			pm, err := p.Select("Package manager", managers, managers[0])
			if err != nil {
				return fmt.Errorf("failed to prompt for package manager: %w", err)
			}
			gen.PackageManager = pm
		}
	}

	return nil
}

// promptAuthor asks for the optional author fields that are still empty.
func promptAuthor(p prompter, gen *app.GenerationConfig) error {
	var err error
	if gen.AuthorName == "" {
		if gen.AuthorName, err = p.Input("Author name", "", "Written to LICENSE for public packages", nil); err != nil {
			return fmt.Errorf("failed to prompt for author name: %w", err)
		}
	}
	if gen.AuthorEmail == "" {
		if gen.AuthorEmail, err = p.Input("Author email", "", "", ValidateEmail); err != nil {
			return fmt.Errorf("failed to prompt for author email: %w", err)
		}
	}
	if gen.AuthorUsername == "" {
		if gen.AuthorUsername, err = p.Input("Author username", "", "Used for repository URLs", nil); err != nil {
			return fmt.Errorf("failed to prompt for author username: %w", err)
		}
	}
	return nil
}

// languageNames returns the configured languages, sorted.
func languageNames(cfg *config.Config) []string {
	names := make([]string, 0, len(cfg.Languages))
	for name := range cfg.Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
