package mailer

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either Template (+Data) or Subject with Text/HTML is set.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // welcome, profile_updated, image_updated, account_deleted
	Data     map[string]any `json:"data,omitempty"`
}

// Rendered reports whether the job already carries its final body.
func (j EmailJob) Rendered() bool {
	return j.Template == "" && j.Subject != "" && (j.Text != "" || j.HTML != "")
}
