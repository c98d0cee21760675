package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&LogConfig{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.Error("shown %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "shown 3")
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(&LogConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestLoggerRedactsEmails(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&LogConfig{Level: "debug", Output: &buf, RedactPII: true})
	require.NoError(t, err)

	logger.Info("mail sent to john.doe@example.com")
	assert.Contains(t, buf.String(), "jo***@example.com")
	assert.NotContains(t, buf.String(), "john.doe@")
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"john.doe@example.com", "jo***@example.com"},
		{"ab@example.com", "***@example.com"},
		{"not-an-email", "***@***"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactEmail(tt.in))
		})
	}
}

func TestLogConfigValidate(t *testing.T) {
	assert.NoError(t, (&LogConfig{Level: "info"}).Validate())
	assert.Error(t, (&LogConfig{Level: "info", File: "x.log"}).Validate())
	assert.NoError(t, (&LogConfig{Level: "info", File: "x.log", MaxSize: 10}).Validate())
	assert.Error(t, (&LogConfig{Level: "loud"}).Validate())
}
