package templates

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAdmin(t *testing.T) {
	r := NewRenderer("")

	out, err := r.Render(Admin, map[string]interface{}{
		"app_name": "Acme",
		"name":     "Ada <script>",
		"email":    "ada@example.com",
		"message":  "first line\nsecond line",
		"date":     "2024-01-01T12:00:00Z",
	})
	require.NoError(t, err)

	assert.Contains(t, out.HTML, "New message on Acme")
	assert.Contains(t, out.HTML, "Ada &lt;script&gt;")
	assert.Contains(t, out.HTML, "first line<br>")
	assert.NotContains(t, out.HTML, "Subject")

	assert.Contains(t, out.Text, "Name Ada <script>")
	assert.Contains(t, out.Text, "first line\nsecond line")
	assert.NotContains(t, out.Text, "<br>")
}

func TestRenderAdminWithSubject(t *testing.T) {
	r := NewRenderer("")

	out, err := r.Render(Admin, map[string]interface{}{
		"app_name": "Acme",
		"name":     "Ada",
		"email":    "ada@example.com",
		"subject":  "Engines",
		"message":  "hello",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Subject Engines")
}

func TestRenderConfirmation(t *testing.T) {
	r := NewRenderer("")

	out, err := r.Render(Confirmation, map[string]interface{}{
		"name":    "Ada",
		"message": "hello",
		"t": map[string]interface{}{
			"subject":       "We received your message",
			"greeting":      "Hello Ada,",
			"intro":         "Thanks.",
			"recap":         "Your message:",
			"subject_label": "Subject",
			"footer":        "Sent from example.com",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello Ada,\n\nThanks.\n\nYour message:\n\nhello\n\nSent from example.com", out.Text)
}

func TestRenderUndefinedVariablesAreEmpty(t *testing.T) {
	r := NewRenderer("")

	// no date, no subject
	out, err := r.Render(Admin, map[string]interface{}{
		"app_name": "Acme",
		"name":     "Ada",
		"email":    "ada@example.com",
		"message":  "hello",
	})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "Date\n")
}

func TestRenderOverrideDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "admin.liquid"), []byte("<p>custom {{ name }}</p>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "digest.liquid"), []byte("<p>digest</p>"), 0o644))

	r := NewRenderer(dir)

	out, err := r.Render(Admin, map[string]interface{}{"name": "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "custom Ada", out.Text)

	// not overridden, served from the embedded views
	source, err := r.source(Confirmation)
	require.NoError(t, err)
	assert.Contains(t, string(source), "t.greeting")

	assert.Equal(t, []string{"admin", "confirmation", "digest"}, r.Names())
}

func TestRenderCachesParsedTemplates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "admin.liquid")
	require.NoError(t, os.WriteFile(path, []byte("<p>v1</p>"), 0o644))

	r := NewRenderer(dir)
	out, err := r.Render(Admin, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out.Text)

	require.NoError(t, os.WriteFile(path, []byte("<p>v2</p>"), 0o644))
	out, err = r.Render(Admin, nil)
	require.NoError(t, err)
	assert.Equal(t, "v1", out.Text)

	out, err = NewRenderer(dir).Render(Admin, nil)
	require.NoError(t, err)
	assert.Equal(t, "v2", out.Text)
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := NewRenderer("")

	_, err := r.Render("nope", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	_, err = r.Render("../admin", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestHTMLToText(t *testing.T) {
	doc := `<html><head><title>ignored</title><style>p{}</style></head>
<body><h2>Title</h2><p>one<br>two<br><br>four</p><ul><li>a</li><li>b</li></ul></body></html>`

	assert.Equal(t, "Title\n\none\ntwo\n\nfour\n\n- a\n- b", HTMLToText(doc))
}

func TestHTMLToTextWraps(t *testing.T) {
	long := strings.Repeat("word ", 60)
	text := HTMLToText("<p>" + long + "</p>")

	lines := strings.Split(text, "\n")
	require.Greater(t, len(lines), 1)
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), WrapWidth)
	}
}
