package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/example/zylm/internal/forms"
	"github.com/example/zylm/internal/models"
)

var submissionTemplate = template.Must(template.New("submission").Parse(`<!DOCTYPE html>
<html>
<head>
<style>
  body { font-family: Arial, sans-serif; }
  .container { max-width: 600px; margin: 0 auto; padding: 20px; }
  .header { background: #f8f9fa; padding: 20px; border-radius: 8px; }
  td.label { font-weight: bold; color: #333; padding: 6px 12px 6px 0; vertical-align: top; }
  td.value { color: #666; padding: 6px 0; white-space: pre-wrap; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h2>New {{.Type}} Form Submission</h2>
    <p>Submission ID: {{.ID}}</p>
    <p>Submitted on: {{.Date}}</p>
  </div>
  <table>
  {{- range .Rows}}
    <tr><td class="label">{{.Label}}:</td><td class="value">{{if .Value}}{{.Value}}{{else}}Not provided{{end}}</td></tr>
  {{- end}}
    <tr><td class="label">Phone Verified:</td><td class="value">{{.Verified}}</td></tr>
  </table>
</div>
</body>
</html>
`))

type submissionView struct {
	Type     string
	ID       string
	Date     string
	Rows     []forms.Row
	Verified string
}

// SubmissionRows lists the fields of a stored submission, decoding its raw
// payload when possible so that extra fields are included.
func SubmissionRows(sub *models.FormSubmission) []forms.Row {
	if len(sub.RawPayload) > 0 {
		if p, err := forms.Parse(sub.RawPayload); err == nil {
			return p.Rows()
		}
	}
	phone := ""
	if sub.Phone != nil {
		phone = *sub.Phone
	}
	return []forms.Row{
		{Label: "Name", Value: sub.Name},
		{Label: "Email", Value: sub.Email},
		{Label: "Phone", Value: phone},
		{Label: "Company", Value: sub.Company},
		{Label: "Subject", Value: sub.Subject},
		{Label: "Message", Value: sub.Message},
	}
}

// RenderSubmissionEmail builds the notification for sub addressed to recipient.
func RenderSubmissionEmail(sub *models.FormSubmission, recipient string) (Email, error) {
	rows := SubmissionRows(sub)
	view := submissionView{
		Type:     sub.Type,
		ID:       sub.ID.String(),
		Date:     sub.CreatedAt.Format(time.RFC1123),
		Rows:     rows,
		Verified: verifiedLabel(sub),
	}

	var html bytes.Buffer
	if err := submissionTemplate.Execute(&html, view); err != nil {
		return Email{}, fmt.Errorf("render email: %w", err)
	}

	return Email{
		To:      []string{recipient},
		Subject: fmt.Sprintf("New %s Form Submission - Zylm Energy", sub.Type),
		HTML:    html.String(),
		Text:    plainText(view),
	}, nil
}

func plainText(view submissionView) string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "New %s Form Submission\nSubmission ID: %s\nSubmitted on: %s\n\n", view.Type, view.ID, view.Date)
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	for _, row := range view.Rows {
		value := row.Value
		if value == "" {
			value = "Not provided"
		}
		fmt.Fprintf(w, "%s:\t%s\n", row.Label, value)
	}
	fmt.Fprintf(w, "Phone Verified:\t%s\n", view.Verified)
	_ = w.Flush()
	return b.String()
}

func verifiedLabel(sub *models.FormSubmission) string {
	switch {
	case sub.Phone == nil:
		return "N/A"
	case sub.OTPVerified:
		return "Yes"
	default:
		return "No"
	}
}

// resumePath resolves a submission's /uploads/ CV link to a file inside
// uploadDir. ok is false when there is no link or it escapes the directory.
func resumePath(uploadDir, cvPath string) (string, bool) {
	if uploadDir == "" || !strings.HasPrefix(cvPath, "/uploads/") {
		return "", false
	}
	rel := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(cvPath, "/uploads/")))
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", false
	}
	return filepath.Join(uploadDir, rel), true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
