package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// LocalBackend writes objects into Dir, which the router serves read-only
// under URLPrefix.
type LocalBackend struct {
	Dir       string
	URLPrefix string
}

func NewLocalBackend(dir, urlPrefix string) (*LocalBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalBackend{Dir: dir, URLPrefix: urlPrefix}, nil
}

// Write returns the URL path of the object, e.g. "/uploads/1700000000000-a.png".
func (b *LocalBackend) Write(ctx context.Context, name string, r io.Reader, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.Join(b.Dir, name)
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(full)
		return "", err
	}
	return path.Join("/", b.URLPrefix, name), nil
}

func (b *LocalBackend) Remove(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(b.Dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
