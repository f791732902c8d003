package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

var tmpl = template.Must(template.New("emails").Parse(`
{{define "welcome"}}
<h2>Welcome to Job Tracker{{if .Name}}, {{.Name}}{{end}}!</h2>
<p>Your account <b>{{.Email}}</b> is ready. Start saving job postings and
track every application through your pipeline.</p>
{{end}}

{{define "follow_up_reminder"}}
<h2>Follow-up reminder</h2>
<p>Your follow-up for <b>{{.Position}}</b> at <b>{{.Company}}</b> is due on
{{.FollowUp}}.</p>
{{end}}
`))

// Subject returns the subject line for a known template.
func Subject(name string) string {
	switch name {
	case TemplateWelcome:
		return "Welcome to Job Tracker"
	case TemplateFollowUpReminder:
		return "Follow-up reminder"
	default:
		return "Notification"
	}
}

// Render renders a named template with the given data into HTML.
func Render(name string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
