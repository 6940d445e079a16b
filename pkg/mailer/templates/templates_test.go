package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_AllTemplates(t *testing.T) {
	brand := Brand{AppName: "Accounts", CompanyName: "Acme", SupportURL: "https://acme.test/help"}
	at := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)

	for _, name := range []string{Welcome, ProfileUpdated, ImageUpdated, AccountDeleted} {
		t.Run(name, func(t *testing.T) {
			data := NewEmailData(brand, name, "Alice Smith", "alice@example.com",
				WithTime(at), WithChanges(map[string]string{"fullName": "Alice Smith"}))

			subject, text, html, err := Render(name, data)
			require.NoError(t, err)
			assert.NotEmpty(t, subject)
			assert.NotContains(t, subject, "\n")
			assert.Contains(t, text, "Alice Smith")
			assert.Contains(t, html, "Alice Smith")
		})
	}
}

func TestRender_Welcome(t *testing.T) {
	data := NewEmailData(Brand{}, Welcome, "Bob", "bob@example.com")
	subject, text, _, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to our service, Bob", subject)
	assert.Contains(t, text, "bob@example.com")
}

func TestRender_ProfileUpdatedListsChanges(t *testing.T) {
	data := NewEmailData(Brand{}, ProfileUpdated, "Bob", "bob@example.com",
		WithChanges(map[string]string{"password": "changed"}))
	_, text, html, err := Render(ProfileUpdated, data)
	require.NoError(t, err)
	assert.Contains(t, text, "- password: changed")
	assert.Contains(t, html, "<li>password: changed</li>")
}

func TestRender_Unknown(t *testing.T) {
	_, _, _, err := Render("login_otp", nil)
	assert.Error(t, err)
}

func TestWithTime(t *testing.T) {
	var d EmailData
	WithTime(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC))(&d)
	assert.Equal(t, "02 January 2026, 03:04", d.Time)
}
