// Package render contains the static gallery templating infrastructure
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/archivegram/archivegrambot/internal/domain/archive/entities"
)

const contentTemplate = "content.html"

// Renderer renders channels into gallery markup using HTML templates
type Renderer struct {
	tpl *template.Template
}

// NewRenderer parses all templates under templatesDir
func NewRenderer(templatesDir string) (*Renderer, error) {
	tpl, err := template.New("gallery").Funcs(template.FuncMap{
		"galleryPath": func(fileName string) string {
			return "gallery/" + fileName
		},
	}).ParseGlob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Renderer{tpl: tpl}, nil
}

// Render renders one channel into the gallery index markup
func (r *Renderer) Render(channel *entities.Channel) (string, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, contentTemplate, channel); err != nil {
		return "", fmt.Errorf("failed to render album %q: %w", channel.Username, err)
	}

	return buf.String(), nil
}
