// Package imagestore accepts profile image uploads: a Policy decides what is
// allowed and how objects are named, a Backend writes the bytes somewhere.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrFileTooLarge         = errors.New("file too large")
)

// DefaultAllowedTypes are the declared content types accepted when none are configured.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// Backend persists named objects.
type Backend interface {
	// Write stores r under name and returns the path recorded on the user.
	Write(ctx context.Context, name string, r io.Reader, contentType string) (string, error)
	Remove(ctx context.Context, name string) error
}

// Upload is one incoming file as declared by the client.
type Upload struct {
	Body        io.Reader
	ContentType string
	Filename    string
	Size        int64
}

// Stored identifies a written object.
type Stored struct {
	Name string
	Path string
}

// Policy holds the allow-list and naming rules. The declared content type is
// trusted as sent; bytes are not sniffed.
type Policy struct {
	AllowedTypes []string
	MaxBytes     int64
	Now          func() time.Time
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Accept checks the declared content type and size.
func (p Policy) Accept(contentType string, size int64) error {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, contentType)
	}
	allowed := p.AllowedTypes
	if len(allowed) == 0 {
		allowed = DefaultAllowedTypes
	}
	ok := false
	for _, a := range allowed {
		if strings.EqualFold(a, mt) {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mt)
	}
	if p.MaxBytes > 0 && size > p.MaxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrFileTooLarge, size, p.MaxBytes)
	}
	return nil
}

// ObjectName prefixes the base of the original filename with the current unix milliseconds.
// Names are unlikely, not guaranteed, to be unique.
func (p Policy) ObjectName(original string) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == ':':
			return '_'
		}
		return r
	}, base)
	if base == "." || base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%d-%s", p.now().UnixMilli(), base)
}

// Intake combines a Policy with a Backend.
type Intake struct {
	Policy  Policy
	Backend Backend
}

func NewIntake(policy Policy, backend Backend) *Intake {
	return &Intake{Policy: policy, Backend: backend}
}

// Check runs the policy without writing anything.
func (i *Intake) Check(u Upload) error {
	return i.Policy.Accept(u.ContentType, u.Size)
}

// Store checks the upload, names it and writes it to the backend.
func (i *Intake) Store(ctx context.Context, u Upload) (Stored, error) {
	if err := i.Check(u); err != nil {
		return Stored{}, err
	}
	name := i.Policy.ObjectName(u.Filename)
	path, err := i.Backend.Write(ctx, name, u.Body, u.ContentType)
	if err != nil {
		return Stored{}, fmt.Errorf("write %s: %w", name, err)
	}
	return Stored{Name: name, Path: path}, nil
}

// Discard removes a previously stored object.
func (i *Intake) Discard(ctx context.Context, s Stored) error {
	return i.Backend.Remove(ctx, s.Name)
}
