package render

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"github.com/event-report-manager/backend/internal/storage/models"
)

// reportTemplate is the print layout for a report document. Images are
// inlined as data URIs so the PDF engine needs no filesystem or network
// access while printing.
var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2.5cm 2cm; color: #1a1a1a; }
  h1 { font-size: 22pt; margin-bottom: 0; }
  .dates { color: #555; font-size: 11pt; margin-top: 4pt; }
  h2 { font-size: 13pt; border-bottom: 1px solid #ccc; padding-bottom: 3pt; margin-top: 18pt; }
  p { font-size: 11pt; line-height: 1.5; }
  .images { display: flex; flex-wrap: wrap; gap: 8pt; }
  .images img { max-width: 45%; border: 1px solid #ddd; }
  .footer { margin-top: 24pt; font-size: 9pt; color: #888; }
</style>
</head>
<body>
  <h1>{{.EventName}}</h1>
  <div class="dates">
  {{- range .Dates}}
    <div>{{.}}</div>
  {{- end}}
  </div>

  {{if .Summary}}<h2>Summary</h2><p>{{.Summary}}</p>{{end}}
  {{if .Description}}<h2>Report</h2><p>{{.Description}}</p>{{end}}

  {{if .Images}}
  <h2>Photos</h2>
  <div class="images">
  {{- range .Images}}
    <img src="{{.}}" alt="report photo">
  {{- end}}
  </div>
  {{end}}

  <div class="footer">Generated {{.GeneratedAt}}</div>
</body>
</html>
`))

type templateData struct {
	EventName   string
	Dates       []string
	Summary     string
	Description string
	Images      []template.URL
	GeneratedAt string
}

// BuildHTML renders the report bundle into a self-contained HTML document.
func BuildHTML(bundle *models.ReportBundle) (string, error) {
	data := templateData{
		EventName:   bundle.Event.Name,
		Summary:     bundle.Report.Summary,
		Description: bundle.Report.Description,
		GeneratedAt: time.Now().UTC().Format("2006-01-02 15:04 UTC"),
	}

	for _, d := range bundle.Event.Dates {
		data.Dates = append(data.Dates, formatWindow(d.Start, d.End))
	}

	for _, img := range bundle.Images {
		uri, err := imageDataURI(img)
		if err != nil {
			return "", err
		}
		data.Images = append(data.Images, uri)
	}

	var sb strings.Builder
	if err := reportTemplate.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("executing report template: %w", err)
	}
	return sb.String(), nil
}

func formatWindow(start, end time.Time) string {
	if start.Format("2006-01-02") == end.Format("2006-01-02") {
		return fmt.Sprintf("%s, %s – %s",
			start.Format("2 January 2006"),
			start.Format("15:04"),
			end.Format("15:04"))
	}
	return fmt.Sprintf("%s – %s",
		start.Format("2 January 2006 15:04"),
		end.Format("2 January 2006 15:04"))
}

func imageDataURI(img models.Image) (template.URL, error) {
	blob, err := os.ReadFile(img.FilePath)
	if err != nil {
		return "", fmt.Errorf("reading image %s: %w", img.ID, err)
	}

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(blob)
	return template.URL(uri), nil
}
