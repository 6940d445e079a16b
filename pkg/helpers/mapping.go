package helpers

import (
	"fmt"

	"github.com/oksasatya/go-user-accounts/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-accounts/pkg/mailer/templates"
)

// SubjectFor returns the fallback subject for a template when its subject file is missing.
func SubjectFor(template string) string {
	switch template {
	case mailtpl.Welcome:
		return "Welcome aboard"
	case mailtpl.ProfileUpdated:
		return "Your profile was updated successfully"
	case mailtpl.ImageUpdated:
		return "Your profile picture was updated"
	case mailtpl.AccountDeleted:
		return "Your account has been deleted"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail backfills Email and RecipientEmail from job.To.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// PrepareEmail turns a queued job into subject, text and html bodies.
// Pre-rendered jobs pass through; template jobs are rendered from the embedded set.
func PrepareEmail(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", fmt.Errorf("email job has no recipient")
	}
	EnsureRecipientAndEmail(job)
	if job.Rendered() {
		return job.Subject, job.Text, job.HTML, nil
	}
	if job.Template == "" {
		return "", "", "", fmt.Errorf("email job to %s has neither template nor body", job.To)
	}
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if subject == "" {
		subject = SubjectFor(job.Template)
	}
	return subject, text, html, nil
}
