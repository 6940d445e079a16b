package imagestore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = func() time.Time { return time.UnixMilli(1700000000123) }

func TestPolicy_Accept(t *testing.T) {
	p := Policy{}

	for _, ct := range []string{"image/jpeg", "image/png", "image/gif", "IMAGE/PNG", "image/png; charset=binary"} {
		assert.NoError(t, p.Accept(ct, 10), ct)
	}
	for _, ct := range []string{"application/pdf", "image/webp", "", "text/plain"} {
		assert.ErrorIs(t, p.Accept(ct, 10), ErrUnsupportedMediaType, ct)
	}

	custom := Policy{AllowedTypes: []string{"image/webp"}}
	assert.NoError(t, custom.Accept("image/webp", 1))
	assert.ErrorIs(t, custom.Accept("image/png", 1), ErrUnsupportedMediaType)
}

func TestPolicy_AcceptSize(t *testing.T) {
	p := Policy{MaxBytes: 100}
	assert.NoError(t, p.Accept("image/png", 100))
	assert.ErrorIs(t, p.Accept("image/png", 101), ErrFileTooLarge)
}

func TestPolicy_ObjectName(t *testing.T) {
	p := Policy{Now: fixedNow}
	assert.Equal(t, "1700000000123-avatar.png", p.ObjectName("avatar.png"))
	assert.Equal(t, "1700000000123-avatar.png", p.ObjectName("../../etc/avatar.png"))
	assert.Equal(t, "1700000000123-y.png", p.ObjectName(`C:\x\y.png`))
	assert.Equal(t, "1700000000123-upload", p.ObjectName(""))
}

type recordingBackend struct {
	writes  map[string]string
	removed []string
	err     error
}

func (b *recordingBackend) Write(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	data, _ := io.ReadAll(r)
	if b.writes == nil {
		b.writes = map[string]string{}
	}
	b.writes[name] = string(data)
	return "mem/" + name, nil
}

func (b *recordingBackend) Remove(_ context.Context, name string) error {
	b.removed = append(b.removed, name)
	return nil
}

func TestIntake_RejectsBeforeWrite(t *testing.T) {
	backend := &recordingBackend{}
	in := NewIntake(Policy{Now: fixedNow}, backend)

	_, err := in.Store(context.Background(), Upload{Body: strings.NewReader("%PDF"), ContentType: "application/pdf", Filename: "a.pdf", Size: 4})
	assert.ErrorIs(t, err, ErrUnsupportedMediaType)
	assert.Empty(t, backend.writes)
}

func TestIntake_StoreAndDiscard(t *testing.T) {
	backend := &recordingBackend{}
	in := NewIntake(Policy{Now: fixedNow}, backend)

	s, err := in.Store(context.Background(), Upload{Body: strings.NewReader("png"), ContentType: "image/png", Filename: "me.png", Size: 3})
	require.NoError(t, err)
	assert.Equal(t, "1700000000123-me.png", s.Name)
	assert.Equal(t, "mem/1700000000123-me.png", s.Path)
	assert.Equal(t, "png", backend.writes[s.Name])

	require.NoError(t, in.Discard(context.Background(), s))
	assert.Equal(t, []string{s.Name}, backend.removed)
}

func TestIntake_BackendError(t *testing.T) {
	in := NewIntake(Policy{}, &recordingBackend{err: errors.New("disk full")})
	_, err := in.Store(context.Background(), Upload{Body: strings.NewReader("x"), ContentType: "image/gif", Filename: "x.gif", Size: 1})
	assert.ErrorContains(t, err, "disk full")
}

func TestLocalBackend_PrefixForms(t *testing.T) {
	for prefix, want := range map[string]string{
		"/uploads":        "/uploads/1-a.png",
		"uploads/":        "/uploads/1-a.png",
		"/static/avatars": "/static/avatars/1-a.png",
		"":                "/1-a.png",
	} {
		b, err := NewLocalBackend(t.TempDir(), prefix)
		require.NoError(t, err)
		p, err := b.Write(context.Background(), "1-a.png", strings.NewReader("x"), "image/png")
		require.NoError(t, err)
		assert.Equal(t, want, p, prefix)
	}
}

func TestLocalBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	b, err := NewLocalBackend(dir, "/uploads")
	require.NoError(t, err)

	p, err := b.Write(context.Background(), "1-a.png", strings.NewReader("data"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1-a.png", p, "path is the served URL, not the directory")

	data, err := os.ReadFile(filepath.Join(dir, "1-a.png"))
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	// same name twice is refused rather than overwritten
	_, err = b.Write(context.Background(), "1-a.png", strings.NewReader("other"), "image/png")
	assert.Error(t, err)

	require.NoError(t, b.Remove(context.Background(), "1-a.png"))
	_, err = os.Stat(filepath.Join(dir, "1-a.png"))
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, b.Remove(context.Background(), "1-a.png"))
}
