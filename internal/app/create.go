package app

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/logging"
	"github.com/tacogips/pkgsmith/internal/template/compose"
	"github.com/tacogips/pkgsmith/internal/template/render"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// PlaygroundDir marks templates that ship a playground.
const PlaygroundDir = "playground"

// CreateOptions contains options for package creation.
type CreateOptions struct {
	// Config holds the generation answers.
	Config GenerationConfig
	// Force allows a non-empty output directory.
	Force bool
	// NonPublicFiles are removed from private packages.
	NonPublicFiles []string
	// CommitMessage is the initial commit message.
	CommitMessage string
	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// Dependencies are the collaborators used by CreatePackage.
type Dependencies struct {
	// Source resolves template layers.
	Source source.Source
	// FS is the filesystem the package is written to.
	FS *fsutil.FS
	// Runner runs the package manager and git.
	Runner CommandRunner
	// Reporter receives progress; NopReporter when nil.
	Reporter Reporter
}

// CreateResult contains the results of package creation.
type CreateResult struct {
	// OutputDir is the package directory.
	OutputDir string
	// Files are the package files relative to OutputDir.
	Files []string
	// Rendered are the files produced from placeholder templates.
	Rendered []string
	// PackageManagerVersion is the version rendered into the package.
	PackageManagerVersion string
	// HasPlayground reports whether the template ships a playground.
	HasPlayground bool
	// LicenseWritten reports whether a LICENSE was written.
	LicenseWritten bool
	// GitInitialized reports whether a repository was bootstrapped.
	GitInitialized bool
	// Secrets are the workflow secrets the package expects.
	Secrets []string
}

// CreatePackage generates a package: it validates the options, prepares
// the output directory, composes the template layers, writes the license,
// bootstraps git and discovers workflow secrets. A failure leaves any
// partial output in place.
func CreatePackage(ctx context.Context, deps Dependencies, opts CreateOptions) (*CreateResult, error) {
	log := logging.Get("app")
	reporter := deps.Reporter
	if reporter == nil {
		reporter = NopReporter{}
	}
	runner := deps.Runner
	if runner == nil {
		runner = ExecRunner{}
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	cfg := opts.Config

	// 1. Validate
	reporter.Start(StepValidate)
	if err := cfg.Validate(); err != nil {
		reporter.Fail(StepValidate, err)
		return nil, NewValidationError("invalid package options", err)
	}
	outputDir := cfg.ResolvedOutputDir()

	// The chosen template must exist before anything is written.
	templateDir, err := deps.Source.Resolve(ctx, cfg.Language, path.Join(compose.PackageResource, cfg.Template))
	if err != nil {
		reporter.Fail(StepValidate, err)
		return nil, NewAppError(ComposeFailed, "failed to resolve template", err)
	}
	reporter.Done(StepValidate, "")

	// 2. Output directory
	reporter.Start(StepPrepare)
	if err := prepareOutputDir(deps.FS, outputDir, opts.Force); err != nil {
		reporter.Fail(StepPrepare, err)
		return nil, err
	}
	reporter.Done(StepPrepare, outputDir)

	// 3. Compose
	reporter.Start(StepCompose)
	result := &CreateResult{
		OutputDir:             outputDir,
		PackageManagerVersion: PackageManagerVersion(ctx, runner, cfg.PackageManager),
		HasPlayground:         deps.FS.IsDirectory(filepath.Join(templateDir, PlaygroundDir)),
	}
	log.Debug().
		Str("packageManagerVersion", result.PackageManagerVersion).
		Bool("hasPlayground", result.HasPlayground).
		Msg("Derived render context")

	vars := BuildRenderContext(cfg, result.PackageManagerVersion, result.HasPlayground, now())
	composed, err := compose.New(deps.Source, deps.FS, nil).Compose(ctx, compose.Request{
		Language:       cfg.Language,
		Template:       cfg.Template,
		OutputDir:      outputDir,
		Variables:      render.NewMapVariables(vars),
		Public:         cfg.Public,
		NonPublicFiles: opts.NonPublicFiles,
	})
	if err != nil {
		reporter.Fail(StepCompose, err)
		return result, NewAppError(ComposeFailed, "failed to compose package", err)
	}
	result.Rendered = composed.Rendered
	reporter.Done(StepCompose, fmt.Sprintf("%d files", len(composed.Files)))

	// 4. License
	reporter.Start(StepLicense)
	written, err := WriteLicense(deps.FS.Afero(), outputDir, cfg, now().Year())
	if err != nil {
		reporter.Fail(StepLicense, err)
		return result, err
	}
	result.LicenseWritten = written
	if written {
		reporter.Done(StepLicense, "MIT")
	} else {
		reporter.Skip(StepLicense, licenseSkipReason(cfg))
	}

	files, err := deps.FS.ListFiles(outputDir)
	if err != nil {
		return result, NewAppError(OutputDirFailed, "failed to list package files", err)
	}
	result.Files = files

	// 5. Git
	if cfg.Git {
		reporter.Start(StepGit)
		if err := NewGitRunner(runner).Bootstrap(ctx, outputDir, opts.CommitMessage); err != nil {
			reporter.Fail(StepGit, err)
			return result, err
		}
		result.GitInitialized = true
		reporter.Done(StepGit, "")
	} else {
		reporter.Skip(StepGit, "disabled")
	}

	// 6. Secrets
	reporter.Start(StepSecrets)
	secrets, err := DiscoverSecrets(deps.FS.Afero(), outputDir)
	if err != nil {
		reporter.Fail(StepSecrets, err)
		return result, err
	}
	result.Secrets = secrets
	if len(secrets) == 0 {
		reporter.Skip(StepSecrets, "no secrets referenced")
	} else {
		reporter.Done(StepSecrets, strings.Join(secrets, ", "))
	}

	log.Info().
		Str("output", outputDir).
		Int("files", len(result.Files)).
		Msg("Package created")
	return result, nil
}

// prepareOutputDir requires dir to be absent or empty unless force is set,
// then creates it.
func prepareOutputDir(fs *fsutil.FS, dir string, force bool) error {
	switch fs.Kind(dir) {
	case fsutil.KindMissing:
	case fsutil.KindDirectory:
		entries, err := afero.ReadDir(fs.Afero(), dir)
		if err != nil {
			return NewAppError(OutputDirFailed, "failed to read output directory", err)
		}
		if len(entries) > 0 && !force {
			return NewAppError(OutputDirFailed,
				fmt.Sprintf("output directory is not empty: %s (use --force to write into it)", dir), nil)
		}
	default:
		return NewAppError(OutputDirFailed,
			fmt.Sprintf("output path exists and is not a directory: %s", dir), nil)
	}

	if err := fs.EnsureDirectory(dir); err != nil {
		return NewAppError(OutputDirFailed, "failed to create output directory", err)
	}
	return nil
}

func licenseSkipReason(cfg GenerationConfig) string {
	if !cfg.Public {
		return "private package"
	}
	return "no author name"
}
