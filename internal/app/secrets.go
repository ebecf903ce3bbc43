package app

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// WorkflowsDir is the workflow directory scanned by DiscoverSecrets.
const WorkflowsDir = ".github/workflows"

var (
	expressionPattern = regexp.MustCompile(`(?s)\$\{\{(.*?)\}\}`)
	secretPattern     = regexp.MustCompile(`secrets\.([A-Za-z_][A-Za-z0-9_]*)|secrets\[\s*['"]([A-Za-z_][A-Za-z0-9_]*)['"]\s*\]`)
)

// builtinSecrets are provided by the CI runner and need no setup.
var builtinSecrets = map[string]bool{
	"GITHUB_TOKEN": true,
}

// DiscoverSecrets returns the sorted, unique secret names referenced from
// ${{ }} expressions in the workflow files under dir.
func DiscoverSecrets(fs afero.Fs, dir string) ([]string, error) {
	workflows := filepath.Join(dir, filepath.FromSlash(WorkflowsDir))
	if ok, err := afero.DirExists(fs, workflows); err != nil || !ok {
		return []string{}, nil
	}

	entries, err := afero.ReadDir(fs, workflows)
	if err != nil {
		return nil, NewAppError(SecretScanFailed, "failed to read workflows directory", err)
	}

	found := make(map[string]struct{})
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yml" && ext != ".yaml") {
			continue
		}

		path := filepath.Join(workflows, entry.Name())
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, NewAppError(SecretScanFailed, fmt.Sprintf("failed to read %s", path), err)
		}

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, NewAppError(SecretScanFailed, fmt.Sprintf("failed to parse workflow %s", path), err)
		}
		collectSecrets(&doc, found)
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// collectSecrets walks every scalar in node.
func collectSecrets(node *yaml.Node, found map[string]struct{}) {
	if node == nil {
		return
	}
	if node.Kind == yaml.ScalarNode {
		for _, expr := range expressionPattern.FindAllStringSubmatch(node.Value, -1) {
			for _, m := range secretPattern.FindAllStringSubmatch(expr[1], -1) {
				name := m[1]
				if name == "" {
					name = m[2]
				}
				if !builtinSecrets[name] {
					found[name] = struct{}{}
				}
			}
		}
		return
	}
	for _, child := range node.Content {
		collectSecrets(child, found)
	}
}
