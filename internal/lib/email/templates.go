package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

// Template names an email template file under templates/.
type Template string

const (
	// TemplateJobPosted corresponds to templates/job_posted.html
	TemplateJobPosted Template = "job_posted"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Render executes the named template with data.
func Render(name Template, data map[string]string) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}

// PreviewData holds sample data for every template, keyed by template name.
// It is what a local preview of the emails renders with.
var PreviewData = map[Template]map[string]string{
	TemplateJobPosted: {
		"JobID":         "42",
		"JobTitle":      "Staff Engineer",
		"CompanyHandle": "acme",
	},
}
