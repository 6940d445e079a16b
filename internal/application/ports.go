package application

import (
	"context"

	"github.com/oksasatya/go-user-accounts/internal/infrastructure/imagestore"
)

// Hasher turns a plaintext password into a stored credential. There is no
// verify counterpart; a login flow would add one as a separate capability.
type Hasher interface {
	Hash(plain string) (string, error)
}

// ImageStore accepts uploads. Check must not write anything.
type ImageStore interface {
	Check(u imagestore.Upload) error
	Store(ctx context.Context, u imagestore.Upload) (imagestore.Stored, error)
	Discard(ctx context.Context, s imagestore.Stored) error
}

// Event names an account change worth telling the owner about.
type Event string

const (
	EventCreated      Event = "created"
	EventUpdated      Event = "updated"
	EventImageUpdated Event = "image_updated"
	EventDeleted      Event = "deleted"
)

// Notification is handed to a Notifier after a mutation has been persisted.
type Notification struct {
	Event    Event
	Email    string
	FullName string
	Changes  map[string]string
	Path     string
}

// Notifier delivers notifications. Failures never undo the mutation.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Notification) error { return nil }
