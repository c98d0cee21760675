package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/formrelay/internal/tenant"
)

func TestNewPool(t *testing.T) {
	registry, err := tenant.NewRegistry(nil, []tenant.Transporter{
		{ID: "main", Driver: tenant.DriverSMTP, Host: "smtp.example.com", Secure: true},
		{ID: "ses", Driver: tenant.DriverSES, Region: "us-east-1", AccessKey: "AKIDEXAMPLE", SecretKey: "secret"},
	})
	require.NoError(t, err)

	pool, err := NewPool(context.Background(), registry)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())

	mainTransport, ok := pool.Get("main")
	require.True(t, ok)
	smtpTransport, ok := mainTransport.(*SMTPTransport)
	require.True(t, ok)
	assert.Equal(t, "smtp.example.com:465", smtpTransport.Addr())

	ses, ok := pool.Get("ses")
	require.True(t, ok)
	assert.IsType(t, &SESTransport{}, ses)

	_, ok = pool.Get("missing")
	assert.False(t, ok)
}

func TestNewPoolUnknownDriver(t *testing.T) {
	registry, err := tenant.NewRegistry(nil, []tenant.Transporter{
		{ID: "odd", Driver: "carrier-pigeon"},
	})
	require.NoError(t, err)

	_, err = NewPool(context.Background(), registry)
	assert.ErrorIs(t, err, ErrUnknownDriver)
}
