package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-user-accounts/internal/application"
	"github.com/oksasatya/go-user-accounts/pkg/mailer"
	mailtpl "github.com/oksasatya/go-user-accounts/pkg/mailer/templates"
)

// Publisher is the part of helpers.RabbitPublisher the notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// EmailNotifier turns account events into EmailJobs on the mail queue.
type EmailNotifier struct {
	Pub   Publisher
	Brand mailtpl.Brand
	Now   func() time.Time
}

func NewEmailNotifier(pub Publisher, brand mailtpl.Brand) *EmailNotifier {
	return &EmailNotifier{Pub: pub, Brand: brand, Now: time.Now}
}

func templateFor(e application.Event) (string, bool) {
	switch e {
	case application.EventCreated:
		return mailtpl.Welcome, true
	case application.EventUpdated:
		return mailtpl.ProfileUpdated, true
	case application.EventImageUpdated:
		return mailtpl.ImageUpdated, true
	case application.EventDeleted:
		return mailtpl.AccountDeleted, true
	}
	return "", false
}

// Job builds the EmailJob for n without publishing it.
func (n *EmailNotifier) Job(note application.Notification) (mailer.EmailJob, error) {
	tpl, ok := templateFor(note.Event)
	if !ok {
		return mailer.EmailJob{}, fmt.Errorf("no template for event %q", note.Event)
	}
	opts := []mailtpl.Option{mailtpl.WithTime(n.Now())}
	if len(note.Changes) > 0 {
		opts = append(opts, mailtpl.WithChanges(note.Changes))
	}
	if note.Path != "" {
		opts = append(opts, mailtpl.WithImagePath(note.Path))
	}
	return mailer.EmailJob{
		To:       note.Email,
		Template: tpl,
		Data:     mailtpl.NewEmailData(n.Brand, tpl, note.FullName, note.Email, opts...),
	}, nil
}

func (n *EmailNotifier) Notify(ctx context.Context, note application.Notification) error {
	job, err := n.Job(note)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := n.Pub.PublishJSON(c, "account."+string(note.Event), job); err != nil {
		return fmt.Errorf("publish %s: %w", job.Template, err)
	}
	return nil
}

var _ application.Notifier = (*EmailNotifier)(nil)
