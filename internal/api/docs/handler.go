package docs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-openapi/spec"
	"gopkg.in/yaml.v3"
)

const uiTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function () {
      SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>
`

var ui = template.Must(template.New("ui").Parse(uiTemplate))

// Handler serves a rendered document. Rendering happens once, at construction.
type Handler struct {
	jsonDoc []byte
	yamlDoc []byte
	page    []byte
}

// NewHandler renders doc as JSON, YAML and a UI page that loads specURL.
func NewHandler(doc *spec.Swagger, specURL string) (*Handler, error) {
	jsonDoc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal swagger document: %w", err)
	}

	// Round trip through a generic value so YAML follows the JSON field names.
	var generic any
	if err := json.Unmarshal(jsonDoc, &generic); err != nil {
		return nil, fmt.Errorf("failed to decode swagger document: %w", err)
	}
	yamlDoc, err := yaml.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to render swagger yaml: %w", err)
	}

	title := "API"
	if doc.Info != nil {
		title = doc.Info.Title
	}
	var page bytes.Buffer
	if err := ui.Execute(&page, struct{ Title, SpecURL string }{title, specURL}); err != nil {
		return nil, fmt.Errorf("failed to render swagger ui: %w", err)
	}

	return &Handler{jsonDoc: jsonDoc, yamlDoc: yamlDoc, page: page.Bytes()}, nil
}

// JSON serves the document as JSON.
func (h *Handler) JSON(w http.ResponseWriter, r *http.Request) {
	write(w, "application/json", h.jsonDoc)
}

// YAML serves the document as YAML.
func (h *Handler) YAML(w http.ResponseWriter, r *http.Request) {
	write(w, "application/yaml", h.yamlDoc)
}

// UI serves the Swagger UI page.
func (h *Handler) UI(w http.ResponseWriter, r *http.Request) {
	write(w, "text/html; charset=utf-8", h.page)
}

func write(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
