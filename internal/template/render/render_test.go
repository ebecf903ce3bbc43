package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		data  map[string]interface{}
		want  string
	}{
		{
			name:  "simple variable",
			input: "{{key}}",
			data:  map[string]interface{}{"key": "v"},
			want:  "v",
		},
		{
			name:  "variable with spaces",
			input: "name: {{ packageName }}",
			data:  map[string]interface{}{"packageName": "demo"},
			want:  "name: demo",
		},
		{
			name:  "triple mustache is not escaped",
			input: "{{{author}}} <{{& email}}>",
			data:  map[string]interface{}{"author": "A & B", "email": "a@b.c"},
			want:  "A & B <a@b.c>",
		},
		{
			name:  "ampersand and angle brackets pass through",
			input: "{{value}}",
			data:  map[string]interface{}{"value": "<T & U>"},
			want:  "<T & U>",
		},
		{
			name:  "unknown key is left verbatim",
			input: "hello {{ missing }}!",
			data:  map[string]interface{}{},
			want:  "hello {{ missing }}!",
		},
		{
			name:  "bool and number values",
			input: "{{public}} {{count}} {{ratio}}",
			data:  map[string]interface{}{"public": true, "count": 3, "ratio": 1.5},
			want:  "true 3 1.5",
		},
		{
			name:  "whole float renders without fraction",
			input: "{{n}}",
			data:  map[string]interface{}{"n": float64(42)},
			want:  "42",
		},
		{
			name:  "nil renders empty",
			input: "[{{n}}]",
			data:  map[string]interface{}{"n": nil},
			want:  "[]",
		},
		{
			name:  "comment is removed",
			input: "a{{! ignore me }}b",
			data:  nil,
			want:  "ab",
		},
		{
			name:  "true section renders body",
			input: "{{#hasPlayground}}playground{{/hasPlayground}}",
			data:  map[string]interface{}{"hasPlayground": true},
			want:  "playground",
		},
		{
			name:  "false section skips body",
			input: "x{{#hasPlayground}}playground{{/hasPlayground}}y",
			data:  map[string]interface{}{"hasPlayground": false},
			want:  "xy",
		},
		{
			name:  "missing section is falsy",
			input: "x{{#nope}}body{{/nope}}y",
			data:  map[string]interface{}{},
			want:  "xy",
		},
		{
			name:  "inverted section",
			input: "{{^public}}private{{/public}}",
			data:  map[string]interface{}{"public": false},
			want:  "private",
		},
		{
			name:  "inverted section on empty string",
			input: "{{^authorName}}anonymous{{/authorName}}",
			data:  map[string]interface{}{"authorName": ""},
			want:  "anonymous",
		},
		{
			name:  "list section iterates",
			input: "{{#items}}- {{.}}\n{{/items}}",
			data:  map[string]interface{}{"items": []string{"a", "b"}},
			want:  "- a\n- b\n",
		},
		{
			name:  "list of maps pushes scope",
			input: "{{#deps}}{{name}}@{{version}} {{/deps}}",
			data: map[string]interface{}{"deps": []interface{}{
				map[string]interface{}{"name": "x", "version": "1"},
				map[string]interface{}{"name": "y", "version": "2"},
			}},
			want: "x@1 y@2 ",
		},
		{
			name:  "outer keys visible inside section",
			input: "{{#deps}}{{pkg}}:{{.}} {{/deps}}",
			data:  map[string]interface{}{"pkg": "p", "deps": []string{"a"}},
			want:  "p:a ",
		},
		{
			name:  "dotted lookup into nested map",
			input: "{{author.name}}",
			data:  map[string]interface{}{"author": map[string]interface{}{"name": "Ada"}},
			want:  "Ada",
		},
		{
			name:  "flat dotted key wins",
			input: "{{a.b}}",
			data:  map[string]interface{}{"a.b": "flat", "a": map[string]interface{}{"b": "nested"}},
			want:  "flat",
		},
		{
			name:  "handlebars helpers are literal",
			input: "{{#if cond}}x{{/if}}",
			data:  map[string]interface{}{"if": true},
			want:  "{{#if cond}}x{{/if}}",
		},
		{
			name:  "unterminated delimiter is text",
			input: "open {{ never closed",
			data:  map[string]interface{}{"never": "x"},
			want:  "open {{ never closed",
		},
		{
			name:  "empty braces are text",
			input: "{{}}",
			data:  nil,
			want:  "{{}}",
		},
		{
			name:  "unclosed braces before a placeholder",
			input: "const f = () => {{ a: 1 }; name: {{packageName}}",
			data:  map[string]interface{}{"packageName": "demo"},
			want:  "const f = () => {{ a: 1 }; name: demo",
		},
		{
			name:  "unclosed triple braces before a placeholder",
			input: "{{{ x }; {{{author}}}",
			data:  map[string]interface{}{"author": "A & B"},
			want:  "{{{ x }; A & B",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(context.Background(), []byte(tt.input), tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestRender_WorkflowExpressions(t *testing.T) {
	input := `name: Release {{appName}}
on: push
jobs:
  publish:
    if: ${{ !cancelled() }}
    steps:
      - run: npm publish
        env:
          NODE_AUTH_TOKEN: ${{ secrets.MY_SECRET }}
          REF: ${{github.ref}}
          CHECK: ${{ github.event_name == 'push' }}
          NAME: ${{ appName }}
`
	want := `name: Release x
on: push
jobs:
  publish:
    if: ${{ !cancelled() }}
    steps:
      - run: npm publish
        env:
          NODE_AUTH_TOKEN: ${{ secrets.MY_SECRET }}
          REF: ${{github.ref}}
          CHECK: ${{ github.event_name == 'push' }}
          NAME: $x
`

	got, err := Render(context.Background(), []byte(input), map[string]interface{}{"appName": "x"})
	require.NoError(t, err)
	assert.Equal(t, want, string(got))
	assert.Contains(t, string(got), "${{ secrets.MY_SECRET }}")
}

func TestRender_ExpressionSectionSigilsAreLiteral(t *testing.T) {
	input := "${{#x}}${{/x}}"
	got, err := Render(context.Background(), []byte(input), map[string]interface{}{"x": true})
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType ParseErrorType
		wantLine int
	}{
		{
			name:     "unclosed section",
			input:    "line1\n{{#public}}\nbody",
			wantType: UnclosedSection,
			wantLine: 2,
		},
		{
			name:     "mismatched close",
			input:    "{{#a}}{{#b}}{{/a}}{{/b}}",
			wantType: MismatchedClose,
			wantLine: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Render(context.Background(), []byte(tt.input), nil)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.wantType, perr.Type)
			assert.Equal(t, tt.wantLine, perr.Line)
		})
	}
}

func TestParseError_WithFile(t *testing.T) {
	err := &ParseError{Type: UnclosedSection, Message: "section is never closed", Line: 3, Tag: "{{#a}}"}
	withFile := err.WithFile("README.mustache.md")
	assert.Equal(t, "README.mustache.md:3: section is never closed (tag: {{#a}})", withFile.Error())
	assert.Empty(t, err.File)
}

func TestDefaultRenderer_ExtractKeys(t *testing.T) {
	r := NewRenderer()
	keys, err := r.ExtractKeys([]byte("{{a}} {{#b}}{{c}}{{.}}{{/b}} {{a}} ${{ secrets.X }} {{! note }}"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)
}

func TestDefaultRenderer_Validate(t *testing.T) {
	r := NewRenderer()
	assert.NoError(t, r.Validate([]byte("{{#a}}ok{{/a}}")))
	assert.Error(t, r.Validate([]byte("{{#a}}")))
}
