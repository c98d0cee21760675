package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	reg, err := NewRegistry([]App{
		{ID: "open", Name: "Open"},
		{ID: "restricted", Domains: []string{"example.com", "localhost:3000"}},
		{ID: "locked", Domains: []string{}},
	}, nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		id      string
		host    string
		wantErr error
	}{
		{"unknown app", "missing", "example.com", ErrInvalidApp},
		{"unrestricted app", "open", "", nil},
		{"allowed host", "restricted", "example.com", nil},
		{"allowed host case-insensitive", "restricted", "EXAMPLE.com", nil},
		{"allowed host with port", "restricted", "localhost:3000", nil},
		{"listed domain behind a port", "restricted", "example.com:8443", nil},
		{"other port not listed", "restricted", "localhost:4000", ErrForbiddenDomain},
		{"host not listed", "restricted", "evil.com", ErrForbiddenDomain},
		{"missing host", "restricted", "", ErrForbiddenDomain},
		{"empty allow-list", "locked", "example.com", ErrForbiddenDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, err := reg.Resolve(tt.id, tt.host)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, app)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, app.ID)
		})
	}
}

func TestAppDisplayName(t *testing.T) {
	assert.Equal(t, "Thingmill", (&App{ID: "tm", Name: "Thingmill"}).DisplayName())
	assert.Equal(t, "tm", (&App{ID: "tm"}).DisplayName())
}

func TestTransporterDefaults(t *testing.T) {
	assert.Equal(t, "mail.example.com:465", (&Transporter{Host: "mail.example.com", Secure: true}).Addr())
	assert.Equal(t, "mail.example.com:587", (&Transporter{Host: "mail.example.com"}).Addr())
	assert.Equal(t, "from@example.com", (&Transporter{From: "from@example.com", Auth: SMTPAuth{User: "u@example.com"}}).SenderAddress())
}

func TestHostname(t *testing.T) {
	assert.Equal(t, "example.com", Hostname("example.com:8080"))
	assert.Equal(t, "example.com", Hostname("example.com"))
	assert.Equal(t, "::1", Hostname("[::1]:3023"))
}
