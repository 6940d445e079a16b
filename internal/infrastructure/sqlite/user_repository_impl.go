package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-user-accounts/internal/domain/entity"
	"github.com/oksasatya/go-user-accounts/internal/domain/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	full_name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	image_path TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectUser = `SELECT id, full_name, email, password_hash, image_path, created_at, updated_at FROM users`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Init creates the users table when missing.
func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	id := uuid.NewString()

	_, err := r.db.ExecContext(ctx, `
INSERT INTO users (id, full_name, email, password_hash, image_path, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, u.FullName, u.Email, u.Password, u.ImagePath, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert user %s: %w", u.Email, repository.ErrDuplicate)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, selectUser+` WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+` ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET full_name = ?, password_hash = ?, image_path = ?, updated_at = ?
WHERE id = ?`,
		u.FullName, u.Password, u.ImagePath, now, u.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	u.UpdatedAt = now
	return nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `
DELETE FROM users
WHERE email = ?
RETURNING id, full_name, email, password_hash, image_path, created_at, updated_at`,
		email,
	)
	return scanUser(row)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.Password,
		&u.ImagePath,
		timestamp{&u.CreatedAt},
		timestamp{&u.UpdatedAt},
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

// timestamp accepts DATETIME columns whether the driver hands back a
// time.Time or the stored text (RETURNING columns carry no declared type).
type timestamp struct {
	t *time.Time
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

func (ts timestamp) Scan(v any) error {
	switch x := v.(type) {
	case time.Time:
		*ts.t = x
		return nil
	case nil:
		*ts.t = time.Time{}
		return nil
	case []byte:
		return ts.parse(string(x))
	case string:
		return ts.parse(x)
	case int64:
		*ts.t = time.Unix(x, 0).UTC()
		return nil
	}
	return fmt.Errorf("unsupported timestamp type %T", v)
}

func (ts timestamp) parse(s string) error {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			*ts.t = t
			return nil
		}
	}
	return fmt.Errorf("unparseable timestamp %q", s)
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint")
}

var _ repository.UserRepository = (*UserRepository)(nil)
