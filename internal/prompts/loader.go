// Package prompts provides the embedded instruction templates sent with every
// extraction and analysis request.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed *.json
var promptFiles embed.FS

// Prompt files and keys
const (
	ExtractionFile = "extraction.json"
	AnalysisFile   = "analysis.json"

	KeySystem           = "system"
	KeyExtractPortfolio = "extract-portfolio"
	KeyAnalyzeResume    = "analyze-resume"
)

// library holds every embedded file, parsed on first use.
var library = sync.OnceValues(func() (map[string]map[string]string, error) {
	entries, err := promptFiles.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("failed to list prompt files: %w", err)
	}

	files := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		data, err := promptFiles.ReadFile(e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", e.Name(), err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", e.Name(), err)
		}
		files[e.Name()] = prompts
	}
	return files, nil
})

// Get retrieves a prompt by filename (e.g. "extraction.json") and key.
func Get(filename, key string) (string, error) {
	files, err := library()
	if err != nil {
		return "", err
	}

	prompts, ok := files[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// Render loads a prompt and executes it as a template over data.
// A placeholder with no value in data is an error.
func Render(filename, key string, data map[string]string) (string, error) {
	prompt, err := Get(filename, key)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(filename + "/" + key).Option("missingkey=error").Parse(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to parse prompt %s/%s: %w", filename, key, err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render prompt %s/%s: %w", filename, key, err)
	}
	return sb.String(), nil
}
