// Package web holds the HTML form and the example texts shown on it.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.html examples.yaml
var content embed.FS

// Form copy
const (
	Title       = "Duygu Analizi API"
	Description = "Metninizi girin, model olumlu, nötr veya olumsuz duygu skorlarını döndürsün."
	Placeholder = "Mesajınızı buraya yazın..."
	SubmitLabel = "Analiz Et"
)

// IndexTemplate is the name of the form template
const IndexTemplate = "index.html"

// Page is the data rendered by the form template
type Page struct {
	Title       string
	Description string
	Placeholder string
	SubmitLabel string
	Text        string
	Output      string
	Failed      bool
	Examples    []string
}

// NewPage returns a page with the form copy filled in
func NewPage(examples []string) Page {
	return Page{
		Title:       Title,
		Description: Description,
		Placeholder: Placeholder,
		SubmitLabel: SubmitLabel,
		Examples:    examples,
	}
}

// Templates parses the embedded templates
func Templates() (*template.Template, error) {
	tmpl, err := template.ParseFS(content, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

type examplesFile struct {
	Examples []string `yaml:"examples"`
}

// LoadExamples reads the example list from path, or the embedded list when path is empty
func LoadExamples(path string) ([]string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = content.ReadFile("examples.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read examples: %w", err)
	}

	var f examplesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse examples: %w", err)
	}

	examples := make([]string, 0, len(f.Examples))
	for _, e := range f.Examples {
		if strings.TrimSpace(e) != "" {
			examples = append(examples, e)
		}
	}
	return examples, nil
}
