// Package prompts holds the scan, evaluation, summary and drafting prompt
// templates. Each JSON file maps a prompt key to its template and is
// embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Prompt files.
const (
	ScanningFile   = "scanning.json"
	EvaluationFile = "evaluation.json"
	SummaryFile    = "summary.json"
	DraftingFile   = "drafting.json"
)

//go:embed *.json
var promptFiles embed.FS

// loadAll parses every embedded file once. A malformed file is a build
// defect, so the error is kept and returned on every lookup.
var loadAll = sync.OnceValues(func() (map[string]map[string]string, error) {
	entries, err := promptFiles.ReadDir(".")
	if err != nil {
		return nil, err
	}
	files := make(map[string]map[string]string, len(entries))
	for _, entry := range entries {
		if path.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := promptFiles.ReadFile(entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", entry.Name(), err)
		}
		var templates map[string]string
		if err := json.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", entry.Name(), err)
		}
		files[entry.Name()] = templates
	}
	return files, nil
})

func file(filename string) (map[string]string, error) {
	files, err := loadAll()
	if err != nil {
		return nil, err
	}
	templates, ok := files[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", filename)
	}
	return templates, nil
}

// Get returns the template stored under key in filename.
func Get(filename, key string) (string, error) {
	templates, err := file(filename)
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass. Unknown placeholders are left as-is and substituted values are not
// expanded again.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, 2*len(data))
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Render looks up a template and fills its placeholders.
func Render(filename, key string, data map[string]string) (string, error) {
	template, err := Get(filename, key)
	if err != nil {
		return "", err
	}
	return Format(template, data), nil
}

// List returns the prompt keys in a file, sorted.
func List(filename string) ([]string, error) {
	templates, err := file(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
