package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"

	"github.com/andybalholm/brotli"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templates embed.FS

type page struct {
	*Data
	Commodity string
	Table     template.HTML
	Assets    *svgChart
	Expenses  *svgChart
}

// WriteHTML renders d as a standalone HTML page. Charts are inlined as SVG.
func WriteHTML(w io.Writer, d *Data) error {
	table, err := markdownToHTML(Markdown(d.Monthly.Table()))
	if err != nil {
		return fmt.Errorf("unable to render monthly table: %w", err)
	}
	p := page{
		Data:      d,
		Commodity: d.Params.Commodity,
		Table:     table,
		Assets:    layout(d.Assets),
		Expenses:  layout(d.Expenses),
	}
	partials := map[string]string{
		"chart": "templates/chart.html",
		"tree":  "templates/tree.html",
	}
	return renderTemplate(w, "report", "templates/report.html", partials, p)
}

// NewCompressedWriter wraps w in a brotli stream. Close flushes it.
func NewCompressedWriter(w io.Writer) io.WriteCloser {
	return brotli.NewWriterLevel(w, brotli.BestCompression)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

func markdownToHTML(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	// goldmark escapes the source, the output is safe
	return template.HTML(buf.String()), nil
}

// renderTemplate renders the main template with the partials it refers to,
// each parsed under its alias.
func renderTemplate(w io.Writer, templateName, mainFile string, partials map[string]string, data any) error {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Errorf("error reading main template %q: %w", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Errorf("error parsing main template %q: %w", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Errorf("error reading partial template %q: %w", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("error parsing partial template %q for %q: %w", file, name, err)
		}
	}

	if err := tmpl.ExecuteTemplate(w, templateName, data); err != nil {
		return fmt.Errorf("error executing template %q: %w", templateName, err)
	}
	return nil
}
