package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"

	"github.com/tacogips/pkgsmith/internal/fsutil"
	"github.com/tacogips/pkgsmith/internal/template/render"
)

// CheckTemplateOptions holds options for template validation.
type CheckTemplateOptions struct {
	// Path is the file or directory path to check.
	Path string
	// Recursive indicates whether to check subdirectories.
	Recursive bool
}

// CheckResult holds the results of template validation.
type CheckResult struct {
	// FilesChecked is the number of marker files checked.
	FilesChecked int
	// FilesWithErrors is the number of files with validation errors.
	FilesWithErrors int
	// Errors is the list of validation errors found.
	Errors []CheckError
	// UnknownKeys maps files to referenced keys that no run provides.
	UnknownKeys map[string][]string
}

// CheckError represents a validation error in a template file.
type CheckError struct {
	// File is the file path where the error occurred.
	File string
	// Line is the line number (0 if not applicable).
	Line int
	// Message is the error message.
	Message string
	// Tag is the tag that caused the error (if applicable).
	Tag string
}

// KnownKeys returns the keys every render context provides.
func KnownKeys() map[string]bool {
	keys := make(map[string]bool)
	for k := range BuildRenderContext(GenerationConfig{}, "", false, time.Time{}) {
		keys[k] = true
	}
	return keys
}

// CheckTemplates validates the placeholder syntax of marker files.
func CheckTemplates(ctx context.Context, fs *fsutil.FS, opts CheckTemplateOptions) (*CheckResult, error) {
	result := &CheckResult{
		Errors:      []CheckError{},
		UnknownKeys: map[string][]string{},
	}
	r := render.NewRenderer()
	known := KnownKeys()

	switch fs.Kind(opts.Path) {
	case fsutil.KindDirectory:
		if err := checkDirectory(ctx, fs, r, known, opts.Path, opts.Recursive, result); err != nil {
			return nil, err
		}
	case fsutil.KindFile:
		if err := checkFile(fs, r, known, opts.Path, result); err != nil {
			return nil, err
		}
	default:
		return nil, NewAppError(CheckFailed, fmt.Sprintf("path not found: %s", opts.Path), nil)
	}
	return result, nil
}

// checkDirectory checks the marker files in a directory.
func checkDirectory(ctx context.Context, fs *fsutil.FS, r *render.DefaultRenderer, known map[string]bool, dir string, recursive bool, result *CheckResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := afero.ReadDir(fs.Afero(), dir)
	if err != nil {
		return NewAppError(CheckFailed, fmt.Sprintf("failed to read directory: %s", dir), err)
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			if recursive {
				if err := checkDirectory(ctx, fs, r, known, fullPath, recursive, result); err != nil {
					return err
				}
			}
			continue
		}
		if entry.Mode()&os.ModeType == 0 {
			if err := checkFile(fs, r, known, fullPath, result); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkFile validates a single marker file. Files without the marker are
// copied verbatim and are not checked.
func checkFile(fs *fsutil.FS, r *render.DefaultRenderer, known map[string]bool, path string, result *CheckResult) error {
	if !render.HasMarker(filepath.Base(path)) {
		return nil
	}

	content, err := afero.ReadFile(fs.Afero(), path)
	if err != nil {
		return NewAppError(CheckFailed, fmt.Sprintf("failed to read %s", path), err)
	}
	result.FilesChecked++

	keys, err := r.ExtractKeys(content)
	if err != nil {
		result.FilesWithErrors++
		checkErr := CheckError{File: path, Message: err.Error()}
		var perr *render.ParseError
		if errors.As(err, &perr) {
			checkErr.Line = perr.Line
			checkErr.Message = perr.Message
			checkErr.Tag = perr.Tag
		}
		result.Errors = append(result.Errors, checkErr)
		return nil
	}

	var unknown []string
	for _, k := range keys {
		if !known[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		result.UnknownKeys[path] = unknown
	}
	return nil
}
