package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appsYAML = `
apps:
  - id: site
    name: Acme
    domains: [acme.test]
    email: owner@acme.test
    webhook: https://hooks.example.com/acme
    smtp: main
  - id: quiet
smtp:
  - id: main
    host: smtp.acme.test
    auth:
      user: relay@acme.test
      pass: secret
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "cli.log"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "formrelay dev")
}

func TestRenderConfirmation(t *testing.T) {
	out, err := runCLI(t, "render", "confirmation", "--locale", "fr", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "Bonjour Ada Lovelace,")
	assert.Contains(t, out, "example.com")
}

func TestRenderAdminText(t *testing.T) {
	out, err := runCLI(t, "render", "admin", "--format", "text", "--name", "Grace Hopper")
	require.NoError(t, err)
	assert.Contains(t, out, "Name Grace Hopper")
	assert.NotContains(t, out, "<html")
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	_, err := runCLI(t, "render", "admin", "--format", "pdf")
	assert.Error(t, err)
}

func TestCheckConfig(t *testing.T) {
	apps := filepath.Join(t.TempDir(), "apps.yaml")
	require.NoError(t, os.WriteFile(apps, []byte(appsYAML), 0o600))

	out, err := runCLI(t, "check-config", "--apps", apps)
	require.NoError(t, err)
	assert.Contains(t, out, "Apps (2):")
	assert.Contains(t, out, "webhook, email via main; domains acme.test")
	assert.Contains(t, out, "no destinations; any domain")
	assert.Contains(t, out, "smtp smtp.acme.test:587 (starttls) from relay@acme.test")
}

func TestCheckConfigMissingFile(t *testing.T) {
	_, err := runCLI(t, "check-config", "--apps", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSendTestRejectsBadRecipient(t *testing.T) {
	_, err := runCLI(t, "send-test", "main", "not-an-email")
	assert.Error(t, err)
}
