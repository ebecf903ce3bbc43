package app

import (
	"context"
	"fmt"

	"github.com/tacogips/pkgsmith/internal/template/compose"
	"github.com/tacogips/pkgsmith/internal/template/source"
)

// ListTemplates lists the templates selectable for language below
// resource, which defaults to the package resource.
func ListTemplates(ctx context.Context, src source.Source, language, resource string) ([]string, error) {
	if language == "" {
		return nil, NewValidationError("language is required", nil)
	}
	if resource == "" {
		resource = compose.PackageResource
	}

	names, err := src.ListTemplates(ctx, language, resource)
	if err != nil {
		return nil, NewAppError(ListFailed,
			fmt.Sprintf("failed to list %s templates for %s", resource, language), err)
	}
	return names, nil
}
