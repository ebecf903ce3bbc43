// Package render implements the {{key}} placeholder engine used to fill
// template files, and the filename marker convention that selects them.
//
// Keys that are not present in the render context are left untouched, so
// look-alike syntax from other templating systems passes through. In
// particular workflow expressions such as ${{ secrets.NPM_TOKEN }} are
// preserved unless the expression is exactly a known key.
package render

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tacogips/pkgsmith/internal/logging"
)

// Renderer renders placeholder templates.
type Renderer interface {
	// Render substitutes placeholders in input using vars.
	Render(ctx context.Context, input []byte, vars Variables) ([]byte, error)

	// Validate checks section balancing without rendering.
	Validate(input []byte) error

	// ExtractKeys lists the distinct keys referenced by input, in order of
	// first appearance. Expression tags are excluded.
	ExtractKeys(input []byte) ([]string, error)
}

// DefaultRenderer implements Renderer.
type DefaultRenderer struct {
	log zerolog.Logger
}

// NewRenderer creates a new DefaultRenderer.
func NewRenderer() *DefaultRenderer {
	return &DefaultRenderer{log: logging.Get("render")}
}

type nodeKind int

const (
	textNode nodeKind = iota
	variableNode
	sectionNode
	invertedNode
)

type node struct {
	kind     nodeKind
	text     string
	tag      Tag
	children []*node
}

// Render substitutes placeholders in input using vars.
func (r *DefaultRenderer) Render(ctx context.Context, input []byte, vars Variables) ([]byte, error) {
	tree, err := parse(string(input))
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.Grow(len(input))
	renderNodes(&sb, tree, scope{vars})

	r.log.Trace().
		Int("inputBytes", len(input)).
		Int("outputBytes", sb.Len()).
		Msg("Rendered template")
	return []byte(sb.String()), nil
}

// Validate checks section balancing without rendering.
func (r *DefaultRenderer) Validate(input []byte) error {
	_, err := parse(string(input))
	return err
}

// ExtractKeys lists the distinct keys referenced by input.
func (r *DefaultRenderer) ExtractKeys(input []byte) ([]string, error) {
	if _, err := parse(string(input)); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var keys []string
	for _, tag := range findTags(string(input)) {
		if tag.Expression || tag.Name == "" || tag.Name == "." || tag.Type == TagClose {
			continue
		}
		if _, ok := seen[tag.Name]; ok {
			continue
		}
		seen[tag.Name] = struct{}{}
		keys = append(keys, tag.Name)
	}
	return keys, nil
}

// parse builds the section tree for input.
func parse(input string) ([]*node, error) {
	root := &node{}
	stack := []*node{root}
	pos := 0

	appendText := func(text string) {
		if text == "" {
			return
		}
		parent := stack[len(stack)-1]
		parent.children = append(parent.children, &node{kind: textNode, text: text})
	}

	for _, tag := range findTags(input) {
		appendText(input[pos:tag.Start])
		pos = tag.End
		parent := stack[len(stack)-1]

		switch tag.Type {
		case TagLiteral:
			appendText(tag.RawText)
		case TagComment:
			// dropped
		case TagVariable, TagUnescaped:
			parent.children = append(parent.children, &node{kind: variableNode, tag: tag})
		case TagSection, TagInverted:
			kind := sectionNode
			if tag.Type == TagInverted {
				kind = invertedNode
			}
			n := &node{kind: kind, tag: tag}
			parent.children = append(parent.children, n)
			stack = append(stack, n)
		case TagClose:
			if !sectionOpen(stack, tag.Name) {
				// Not ours, e.g. a Handlebars {{/if}} in a docs file.
				appendText(tag.RawText)
				continue
			}
			if parent.tag.Name != tag.Name {
				return nil, newParseError(MismatchedClose,
					"closing tag does not match open section "+parent.tag.RawText,
					tag, lineOf(input, tag.Start))
			}
			stack = stack[:len(stack)-1]
		}
	}
	appendText(input[pos:])

	if len(stack) > 1 {
		open := stack[len(stack)-1]
		return nil, newParseError(UnclosedSection,
			"section is never closed", open.tag, lineOf(input, open.tag.Start))
	}
	return root.children, nil
}

func renderNodes(sb *strings.Builder, nodes []*node, s scope) {
	for _, n := range nodes {
		switch n.kind {
		case textNode:
			sb.WriteString(n.text)
		case variableNode:
			v, ok := s.lookup(n.tag.Name)
			if !ok {
				sb.WriteString(n.tag.RawText)
				continue
			}
			sb.WriteString(valueToString(v))
		case sectionNode:
			v, ok := s.lookup(n.tag.Name)
			if !ok || !truthy(v) {
				continue
			}
			if items, isList := listItems(v); isList {
				for _, item := range items {
					renderNodes(sb, n.children, s.push(item))
				}
				continue
			}
			if _, isBool := v.(bool); isBool {
				renderNodes(sb, n.children, s)
				continue
			}
			renderNodes(sb, n.children, s.push(v))
		case invertedNode:
			v, ok := s.lookup(n.tag.Name)
			if ok && truthy(v) {
				continue
			}
			renderNodes(sb, n.children, s)
		}
	}
}

func sectionOpen(stack []*node, name string) bool {
	for _, n := range stack[1:] {
		if n.tag.Name == name {
			return true
		}
	}
	return false
}

// lineOf returns the 1-indexed line containing offset.
func lineOf(input string, offset int) int {
	return strings.Count(input[:offset], "\n") + 1
}

// Render is a convenience wrapper around DefaultRenderer.Render for a plain
// map context.
func Render(ctx context.Context, input []byte, data map[string]interface{}) ([]byte, error) {
	return NewRenderer().Render(ctx, input, NewMapVariables(data))
}
