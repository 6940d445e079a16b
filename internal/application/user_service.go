package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	repo "github.com/oksasatya/go-user-accounts/internal/domain/repository"
	"github.com/oksasatya/go-user-accounts/internal/domain/rules"
	"github.com/oksasatya/go-user-accounts/internal/infrastructure/imagestore"
)

type Service struct {
	Repo     repo.UserRepository
	Hasher   Hasher
	Images   ImageStore
	Rules    *rules.Ruleset
	Notifier Notifier
	Logger   *logrus.Logger
}

// NewService wires the user operations. A nil notifier disables notifications
// and a nil logger discards log output.
func NewService(repo repo.UserRepository, hasher Hasher, images ImageStore, rs *rules.Ruleset, notifier Notifier, logger *logrus.Logger) *Service {
	if rs == nil {
		rs = rules.New(rules.Strict)
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Service{
		Repo:     repo,
		Hasher:   hasher,
		Images:   images,
		Rules:    rs,
		Notifier: notifier,
		Logger:   logger,
	}
}

type CreateUserInput struct {
	FullName string
	Email    string
	Password string
}

type EditUserInput struct {
	Email    string
	FullName string
	Password string // empty means unchanged
}

// UserSummary is the listing projection. It never carries the credential.
type UserSummary struct {
	ID        string    `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	ImagePath string    `json:"imagePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateUser validates the input, rejects a taken email, hashes the password and persists the user.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if err := s.Rules.CheckCreate(in.FullName, in.Email, in.Password); err != nil {
		return nil, err
	}

	if _, err := s.Repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, storeErr("find user", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{FullName: in.FullName, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, storeErr("create user", err)
	}
	usersCreated.Add(1)

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "email": u.Email}).Info("user created")
	s.notify(ctx, Notification{Event: EventCreated, Email: u.Email, FullName: u.FullName})
	return u, nil
}

// EditUser overwrites the full name and, when supplied, the password of the user with in.Email.
func (s *Service) EditUser(ctx context.Context, in EditUserInput) error {
	if err := s.Rules.CheckEdit(in.Email, in.FullName, in.Password); err != nil {
		return err
	}

	u, err := s.findByEmail(ctx, in.Email)
	if err != nil {
		return err
	}

	changes := map[string]string{}
	if in.FullName != "" {
		u.FullName = in.FullName
		changes["fullName"] = in.FullName
	}
	if in.Password != "" {
		hash, err := s.Hasher.Hash(in.Password)
		if err != nil {
			return err
		}
		u.Password = hash
		changes["password"] = "changed"
	}

	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeErr("update user", err)
	}
	usersUpdated.Add(1)

	s.Logger.WithField("user_id", u.ID).Info("user updated")
	s.notify(ctx, Notification{Event: EventUpdated, Email: u.Email, FullName: u.FullName, Changes: changes})
	return nil
}

// DeleteUser removes the user with email. Any uploaded image is left in place.
func (s *Service) DeleteUser(ctx context.Context, email string) error {
	if err := s.Rules.CheckDelete(email); err != nil {
		return err
	}

	u, err := s.Repo.DeleteByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return storeErr("delete user", err)
	}
	usersDeleted.Add(1)

	s.Logger.WithField("user_id", u.ID).Info("user deleted")
	s.notify(ctx, Notification{Event: EventDeleted, Email: u.Email, FullName: u.FullName})
	return nil
}

// ListUsers returns every user as a UserSummary.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, storeErr("list users", err)
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:        u.ID,
			FullName:  u.FullName,
			Email:     u.Email,
			ImagePath: u.ImagePath,
			CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}

// UploadImage stores the file and records its path on the user.
// The user is looked up before anything is written; if persisting the path
// fails the stored object is removed again.
func (s *Service) UploadImage(ctx context.Context, email string, up imagestore.Upload) (string, error) {
	if err := s.Rules.CheckLookup(email); err != nil {
		return "", err
	}
	if err := s.Images.Check(up); err != nil {
		return "", err
	}

	u, err := s.findByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	stored, err := s.Images.Store(ctx, up)
	if err != nil {
		return "", storeErr("store image", err)
	}

	u.ImagePath = stored.Path
	if err := s.Repo.Update(ctx, u); err != nil {
		if dErr := s.Images.Discard(ctx, stored); dErr != nil {
			s.Logger.WithError(dErr).WithField("object", stored.Name).Warn("discard orphaned upload failed")
		}
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", storeErr("update user", err)
	}
	imagesUploaded.Add(1)

	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "path": stored.Path}).Info("image uploaded")
	s.notify(ctx, Notification{Event: EventImageUpdated, Email: u.Email, FullName: u.FullName, Path: stored.Path})
	return stored.Path, nil
}

// Ping checks the record store.
func (s *Service) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

func (s *Service) findByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr("find user", err)
	}
	return u, nil
}

func (s *Service) notify(ctx context.Context, n Notification) {
	if err := s.Notifier.Notify(ctx, n); err != nil {
		s.Logger.WithError(err).WithField("event", n.Event).Warn("notification failed")
	}
}
