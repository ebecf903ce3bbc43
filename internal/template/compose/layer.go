package compose

import (
	"path"

	"github.com/tacogips/pkgsmith/internal/template/source"
)

// PackageResource is the resource category holding package templates.
const PackageResource = "package"

// LayerKind identifies one of the fixed composition layers.
type LayerKind int

const (
	// GlobalShared is shared by every language.
	GlobalShared LayerKind = iota
	// LanguageShared is shared by every template of a language.
	LanguageShared
	// ResourceShared is shared by every template of a resource category.
	ResourceShared
	// ChosenTemplate is the selected template itself.
	ChosenTemplate
)

// String returns the string representation of the layer kind.
func (k LayerKind) String() string {
	switch k {
	case GlobalShared:
		return "global-shared"
	case LanguageShared:
		return "language-shared"
	case ResourceShared:
		return "resource-shared"
	case ChosenTemplate:
		return "template"
	default:
		return "unknown"
	}
}

// Layer is a template subtree addressed by language and resource.
type Layer struct {
	// Kind is the layer's position in the precedence order.
	Kind LayerKind
	// Language is empty for the global layer.
	Language string
	// Resource is the resource path below the language.
	Resource string
	// Optional layers may be absent from the template source.
	Optional bool
}

// Path returns the layer's template path.
func (l Layer) Path() string {
	return source.TemplatePath(l.Language, l.Resource)
}

// Layers returns the package layers for language and template in
// precedence order, lowest first. The shared layers are optional; the
// chosen template is not.
func Layers(language, template string) []Layer {
	return LayersFor(language, PackageResource, template)
}

// LayersFor returns the layers for a template below an arbitrary resource
// category.
func LayersFor(language, resource, template string) []Layer {
	return []Layer{
		{Kind: GlobalShared, Resource: source.SharedDir, Optional: true},
		{Kind: LanguageShared, Language: language, Resource: source.SharedDir, Optional: true},
		{Kind: ResourceShared, Language: language, Resource: path.Join(resource, source.SharedDir), Optional: true},
		{Kind: ChosenTemplate, Language: language, Resource: path.Join(resource, template)},
	}
}
