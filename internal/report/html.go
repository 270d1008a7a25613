package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("report.html").Funcs(template.FuncMap{
	"score":      formatScore,
	"efficiency": formatEfficiency,
	"levelColor": func(level int) template.CSS { return template.CSS(levelColor(level).hex()) },
}).ParseFS(templateFS, "templates/report.html"))

type htmlData struct {
	View
	Radar radarChart
}

// RenderHTML writes the screen view as a standalone HTML page.
func RenderHTML(w io.Writer, v View) error {
	data := htmlData{View: v, Radar: buildRadar(v.Categories)}
	if err := pageTemplate.ExecuteTemplate(w, "report", data); err != nil {
		return fmt.Errorf("render report html: %w", err)
	}
	return nil
}
