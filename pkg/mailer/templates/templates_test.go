package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-registry/config"
)

func TestRenderWelcome(t *testing.T) {
	cfg := &config.Config{AppName: "Registry", CompanyName: "Acme", SupportURL: "https://acme.test/help"}
	data := NewEmailData(cfg, "Bob", "bob@gmail.com",
		WithTime(time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)))

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to Registry, Bob", subject)
	assert.Contains(t, text, "bob@gmail.com")
	assert.Contains(t, text, "15 June 2024, 09:30")
	assert.Contains(t, text, "Acme")
	assert.Contains(t, html, `href="https://acme.test/help"`)
}

func TestRenderWelcomeDefaults(t *testing.T) {
	data := NewEmailData(&config.Config{}, "", "<x>@gmail.com")

	subject, text, html, err := Render(Welcome, data)
	require.NoError(t, err)
	assert.Equal(t, "Welcome to User Registry,", subject)
	assert.Contains(t, text, "Hi there,")
	assert.NotContains(t, text, "Questions?")
	assert.Contains(t, html, "&lt;x&gt;@gmail.com")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", EmailData{})
	assert.Error(t, err)
}

func TestDefaultFn(t *testing.T) {
	assert.Equal(t, "x", defaultFn("x", "  "))
	assert.Equal(t, "x", defaultFn("x", nil))
	assert.Equal(t, "x", defaultFn("x", 0))
	assert.Equal(t, 5, defaultFn("x", 5))
	assert.Equal(t, "v", defaultFn("x", "v"))
}
