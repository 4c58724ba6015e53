package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// Submission describes a newly created record for the committee.
type Submission struct {
	Kind    string // "event", "donation", "business", "hostel application"
	ID      string
	Title   string
	Details map[string]string
	Files   []string // public URLs
}

var submissionTmpl = template.Must(template.New("submission").Parse(`<p>A new {{.Kind}} was submitted to the directory.</p>
<p><strong>{{.Title}}</strong> <small>({{.ID}})</small></p>
{{- if .Details}}
<table>{{range $k, $v := .Details}}<tr><td>{{$k}}</td><td>{{$v}}</td></tr>{{end}}</table>
{{- end}}
{{- if .Files}}
<ul>{{range .Files}}<li><a href="{{.}}">{{.}}</a></li>{{end}}</ul>
{{- end}}`))

// SubmissionMessage renders the committee notification for s.
// POST: HTML fields are escaped; Text carries a plain fallback
func SubmissionMessage(to []string, s Submission) (Message, error) {
	var html bytes.Buffer
	if err := submissionTmpl.Execute(&html, s); err != nil {
		return Message{}, fmt.Errorf("render submission email: %w", err)
	}
	var text strings.Builder
	fmt.Fprintf(&text, "New %s: %s (%s)\n", s.Kind, s.Title, s.ID)
	for _, f := range s.Files {
		fmt.Fprintf(&text, "- %s\n", f)
	}
	return Message{
		To:      to,
		Subject: fmt.Sprintf("New %s: %s", s.Kind, s.Title),
		HTML:    html.String(),
		Text:    text.String(),
	}, nil
}
