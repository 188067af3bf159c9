package notifications

import (
	"bytes"
	"html/template"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/touchpoints"
)

const followUpReminderTemplate = `<!DOCTYPE html>
<html>
<body>
  <h3>Follow-up reminder</h3>
  <p>A touchpoint with <strong>{{.ContactName}}</strong> was logged as needing a follow-up.</p>
  <ul>
    <li>Type: {{.Type}}</li>
    <li>Date: {{.Date}}</li>
    {{if .Notes}}<li>Notes: {{.Notes}}</li>{{end}}
  </ul>
  <p>Touchpoint ID: {{.ID}}</p>
</body>
</html>`

var followUpReminderTmpl = template.Must(template.New("follow_up_reminder").Parse(followUpReminderTemplate))

type followUpReminderData struct {
	ContactName string
	Type        string
	Date        string
	Notes       string
	ID          string
}

func buildFollowUpReminderHTML(tp touchpoints.Touchpoint, contact touchpoints.ContactInfo) (string, error) {
	data := followUpReminderData{
		ContactName: contact.Name,
		Type:        tp.Type,
		Date:        tp.Date.Format("2006-01-02"),
		Notes:       tp.Notes,
		ID:          tp.ID,
	}
	var buf bytes.Buffer
	if err := followUpReminderTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
