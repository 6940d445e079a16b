package templates

import (
	"time"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName string `json:"CompanyName"`
	AppName     string `json:"AppName"`
	SupportURL  string `json:"SupportURL"`

	Time      string            `json:"Time"`
	ImagePath string            `json:"ImagePath"`
	Changes   map[string]string `json:"Changes"`
}

// Brand carries the sender-side fields shared by every email.
type Brand struct {
	AppName     string
	CompanyName string
	SupportURL  string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04")
	}
}

func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}

func WithImagePath(p string) Option {
	return func(d *EmailData) { d.ImagePath = p }
}

// NewEmailData fills brand fields, then applies opts.
func NewEmailData(b Brand, typ, name, email string, opts ...Option) map[string]any {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,
		CompanyName:    b.CompanyName,
		AppName:        b.AppName,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return ToMap(d)
}
