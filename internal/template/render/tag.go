package render

import (
	"regexp"
	"strings"
)

// TagType identifies the kind of placeholder tag.
type TagType int

const (
	// TagVariable represents {{name}}
	TagVariable TagType = iota
	// TagUnescaped represents {{{name}}} and {{& name}}
	TagUnescaped
	// TagSection represents {{#name}}
	TagSection
	// TagInverted represents {{^name}}
	TagInverted
	// TagClose represents {{/name}}
	TagClose
	// TagComment represents {{! text}}
	TagComment
	// TagLiteral is text between delimiters that is not a recognizable tag.
	// It is always emitted unchanged.
	TagLiteral
)

// String returns the string representation of the tag type.
func (t TagType) String() string {
	switch t {
	case TagVariable:
		return "variable"
	case TagUnescaped:
		return "unescaped"
	case TagSection:
		return "section"
	case TagInverted:
		return "inverted"
	case TagClose:
		return "close"
	case TagComment:
		return "comment"
	case TagLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Tag is a delimited placeholder found in the input.
type Tag struct {
	// Type is the tag type.
	Type TagType
	// Start is the byte offset of the opening delimiter.
	Start int
	// End is the byte offset just past the closing delimiter.
	End int
	// Name is the referenced key (empty for comments and literals).
	Name string
	// RawText is the tag exactly as it appeared in the input.
	RawText string
	// Expression is true when the tag is written as ${{ ... }}, the
	// workflow expression form. Only variable tags are honoured there.
	Expression bool
}

const (
	openDelim   = "{{"
	closeDelim  = "}}"
	openTriple  = "{{{"
	closeTriple = "}}}"
)

var tagNamePattern = regexp.MustCompile(`^(\.|[A-Za-z_][A-Za-z0-9_\-]*(\.[A-Za-z_][A-Za-z0-9_\-]*)*)$`)

// IsValidName reports whether s can be used as a placeholder key.
func IsValidName(s string) bool {
	return tagNamePattern.MatchString(s)
}

// findTags scans input for every {{ ... }} occurrence in order.
// Unterminated delimiters are left to the surrounding text.
func findTags(input string) []Tag {
	var tags []Tag
	pos := 0
	for pos < len(input) {
		idx := strings.Index(input[pos:], openDelim)
		if idx < 0 {
			break
		}
		start := pos + idx
		expression := start > 0 && input[start-1] == '$'

		if strings.HasPrefix(input[start:], openTriple) {
			end := strings.Index(input[start+len(openTriple):], closeTriple)
			if end >= 0 && !strings.Contains(input[start+len(openTriple):start+len(openTriple)+end], openDelim) {
				end = start + len(openTriple) + end + len(closeTriple)
				inner := strings.TrimSpace(input[start+len(openTriple) : end-len(closeTriple)])
				tag := Tag{Type: TagUnescaped, Start: start, End: end, Name: inner, RawText: input[start:end], Expression: expression}
				if !IsValidName(inner) {
					tag.Type = TagLiteral
					tag.Name = ""
				}
				tags = append(tags, tag)
				pos = end
				continue
			}
		}

		end := strings.Index(input[start+len(openDelim):], closeDelim)
		if end < 0 {
			break
		}
		// An unclosed "{{" is text; resume at the next opening delimiter.
		if next := strings.Index(input[start+len(openDelim):start+len(openDelim)+end], openDelim); next >= 0 {
			pos = start + len(openDelim) + next
			continue
		}
		end = start + len(openDelim) + end + len(closeDelim)
		inner := strings.TrimSpace(input[start+len(openDelim) : end-len(closeDelim)])
		tags = append(tags, classifyTag(inner, start, end, input[start:end], expression))
		pos = end
	}
	return tags
}

// classifyTag decides what the text between the delimiters means.
func classifyTag(inner string, start, end int, raw string, expression bool) Tag {
	tag := Tag{Type: TagLiteral, Start: start, End: end, RawText: raw, Expression: expression}
	if inner == "" {
		return tag
	}

	if expression {
		// Inside ${{ }} only a plain key can be substituted; everything
		// else ("!cancelled()", "a == 'b'") belongs to the workflow engine.
		if IsValidName(inner) {
			tag.Type = TagVariable
			tag.Name = inner
		}
		return tag
	}

	sigil := inner[0]
	rest := strings.TrimSpace(inner[1:])
	switch sigil {
	case '!':
		tag.Type = TagComment
		return tag
	case '#':
		tag.Type = TagSection
	case '^':
		tag.Type = TagInverted
	case '/':
		tag.Type = TagClose
	case '&':
		tag.Type = TagUnescaped
	default:
		rest = inner
		tag.Type = TagVariable
	}

	if !IsValidName(rest) {
		tag.Type = TagLiteral
		return tag
	}
	tag.Name = rest
	return tag
}
