package application

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/imagestore"
)

type memRepo struct {
	mu     sync.Mutex
	users  []entity.User
	nextID int
	calls  int

	failFind   error
	failUpdate error
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, x := range r.users {
		if x.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	r.nextID++
	u.ID = strings.Repeat("x", r.nextID)
	r.users = append(r.users, *u)
	return nil
}

func (r *memRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failFind != nil {
		return nil, r.failFind
	}
	for _, x := range r.users {
		if x.Email == email {
			u := x
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) FindAll(context.Context) ([]entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return append([]entity.User(nil), r.users...), nil
}

func (r *memRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failUpdate != nil {
		return r.failUpdate
	}
	for i, x := range r.users {
		if x.ID == u.ID {
			r.users[i] = *u
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *memRepo) DeleteByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for i, x := range r.users {
		if x.Email == email {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return &x, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) Ping(context.Context) error { return nil }

func (r *memRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type reverseHasher struct{}

func (reverseHasher) Hash(plain string) (string, error) {
	b := []rune(plain)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return "h$" + string(b), nil
}

type memImages struct {
	policy    imagestore.Policy
	stored    []imagestore.Stored
	discarded []imagestore.Stored
	failStore bool
}

func (m *memImages) Check(u imagestore.Upload) error {
	return m.policy.Accept(u.ContentType, u.Size)
}

func (m *memImages) Store(_ context.Context, u imagestore.Upload) (imagestore.Stored, error) {
	if m.failStore {
		return imagestore.Stored{}, errors.New("bucket unavailable")
	}
	s := imagestore.Stored{Name: "1-" + u.Filename, Path: "uploads/1-" + u.Filename}
	m.stored = append(m.stored, s)
	return s, nil
}

func (m *memImages) Discard(_ context.Context, s imagestore.Stored) error {
	m.discarded = append(m.discarded, s)
	return nil
}

type recordingNotifier struct {
	got []Notification
	err error
}

func (n *recordingNotifier) Notify(_ context.Context, note Notification) error {
	n.got = append(n.got, note)
	return n.err
}
