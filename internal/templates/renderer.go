// Package templates renders the Liquid email views and derives their
// plain-text alternative.
package templates

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/osteele/liquid"
)

// Template names
const (
	Admin        = "admin"
	Confirmation = "confirmation"
)

const extension = ".liquid"

//go:embed views/*.liquid
var viewsFS embed.FS

// ErrUnknownTemplate is returned for names with no view file.
var ErrUnknownTemplate = errors.New("unknown template")

// Rendered holds both bodies of an email.
type Rendered struct {
	HTML string
	Text string
}

// Renderer renders named views. Files in the override directory take
// precedence over the embedded ones. Parsed templates are cached.
type Renderer struct {
	engine *liquid.Engine
	dir    string
	cache  sync.Map // map[string]*liquid.Template
}

// NewRenderer creates a renderer. viewsDir may be empty.
func NewRenderer(viewsDir string) *Renderer {
	engine := liquid.NewEngine()

	// {{ message | nl2br }}
	engine.RegisterFilter("nl2br", func(s string) string {
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.ReplaceAll(s, "\n", "<br>\n")
	})

	return &Renderer{
		engine: engine,
		dir:    viewsDir,
	}
}

// Render fills the named view with data.
func (r *Renderer) Render(name string, data map[string]interface{}) (*Rendered, error) {
	tpl, err := r.template(name)
	if err != nil {
		return nil, err
	}

	out, err := tpl.RenderString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}

	return &Rendered{
		HTML: out,
		Text: HTMLToText(out),
	}, nil
}

func (r *Renderer) template(name string) (*liquid.Template, error) {
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*liquid.Template), nil
	}

	source, err := r.source(name)
	if err != nil {
		return nil, err
	}

	tpl, perr := r.engine.ParseString(string(source))
	if perr != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, perr)
	}

	actual, _ := r.cache.LoadOrStore(name, tpl)
	return actual.(*liquid.Template), nil
}

func (r *Renderer) source(name string) ([]byte, error) {
	if strings.ContainsAny(name, `/\`) || name == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	if r.dir != "" {
		data, err := os.ReadFile(filepath.Join(r.dir, name+extension))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read view %s: %w", name, err)
		}
	}

	data, err := viewsFS.ReadFile("views/" + name + extension)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}
	return data, nil
}

// Names lists the available views, including overrides.
func (r *Renderer) Names() []string {
	seen := map[string]bool{}

	entries, _ := viewsFS.ReadDir("views")
	for _, e := range entries {
		seen[strings.TrimSuffix(e.Name(), extension)] = true
	}

	if r.dir != "" {
		if matches, err := filepath.Glob(filepath.Join(r.dir, "*"+extension)); err == nil {
			for _, m := range matches {
				seen[strings.TrimSuffix(filepath.Base(m), extension)] = true
			}
		}
	}

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
