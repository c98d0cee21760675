package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	l, err := New("en")
	require.NoError(t, err)

	tests := []struct {
		name           string
		explicit       string
		acceptLanguage string
		want           string
	}{
		{"default", "", "", "en"},
		{"explicit wins", "fr", "en-US,en;q=0.9", "fr"},
		{"explicit region", "fr-CA", "", "fr"},
		{"unsupported explicit falls back to header", "de", "fr-FR,fr;q=0.9", "fr"},
		{"header negotiation", "", "fr-FR,fr;q=0.9,en;q=0.8", "fr"},
		{"unsupported header", "", "de-DE", "en"},
		{"garbage explicit", "not a locale", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Resolve(tt.explicit, tt.acceptLanguage))
		})
	}
}

func TestDefaultLocale(t *testing.T) {
	l, err := New("fr")
	require.NoError(t, err)

	assert.Equal(t, "fr", l.Default())
	assert.Equal(t, "fr", l.Resolve("", "de-DE"))
	assert.Equal(t, []string{"fr", "en"}, l.Supported())

	_, err = New("de")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	l, err := New("en")
	require.NoError(t, err)

	assert.Equal(t, "Hello Ada,", l.T("en", "confirmation-email.greeting", "Ada"))
	assert.Equal(t, "Bonjour Ada,", l.T("fr", "confirmation-email.greeting", "Ada"))
	assert.Equal(t, "Formulaire de contact", l.T("fr", "confirmation-email.from"))
	assert.Equal(t, "nom", l.T("fr", "validation.field.name"))
	assert.Equal(t, "name must be at least 3 characters long", l.T("en", "validation.min-length", "name", "3"))

	// unknown locale falls back to the default catalog
	assert.Equal(t, "Contact form", l.T("es", "confirmation-email.from"))
	// unknown keys come back untouched
	assert.Equal(t, "no.such.key", l.T("en", "no.such.key"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	l, err := New("en")
	require.NoError(t, err)

	for _, key := range []string{
		"confirmation-email.from",
		"confirmation-email.subject",
		"confirmation-email.intro",
		"confirmation-email.recap",
		"confirmation-email.subject-label",
		"validation.required",
		"validation.invalid-email",
		"validation.field.message",
	} {
		for _, code := range l.Supported() {
			trans, _ := l.uni.GetTranslator(code)
			_, err := trans.T(key)
			assert.NoError(t, err, "%s missing in %s", key, code)
		}
	}
}
