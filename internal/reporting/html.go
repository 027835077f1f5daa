package reporting

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/xkilldash9x/secreport/api/schemas"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

// Badge colors per compliance status.
const (
	colorCompliant    = "#16a34a"
	colorWarning      = "#d97706"
	colorNonCompliant = "#dc2626"
)

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"badgeColor": badgeColor,
			"upper":      func(s schemas.ComplianceStatus) string { return strings.ToUpper(string(s)) },
			"date":       func(t time.Time) string { return t.UTC().Format("Jan 2, 2006") },
			"timestamp":  func(t time.Time) string { return t.UTC().Format(time.RFC1123) },
			"pct":        func(v float64) string { return fmt.Sprintf("%.2f%%", v) },
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

func badgeColor(s schemas.ComplianceStatus) string {
	switch s {
	case schemas.StatusCompliant:
		return colorCompliant
	case schemas.StatusWarning:
		return colorWarning
	default:
		return colorNonCompliant
	}
}

// HTMLRenderer produces a self-contained HTML document with inline styles
// and no scripts or external resources.
type HTMLRenderer struct {
	tmpl *template.Template
}

// NewHTMLRenderer creates an HTML renderer using the embedded template.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: reportTemplate}
}

// Render implements Renderer.
func (r *HTMLRenderer) Render(report *schemas.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering html report: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType implements Renderer.
func (r *HTMLRenderer) ContentType() string { return "text/html; charset=utf-8" }
