package tenant

import (
	"fmt"
	"os"
	"regexp"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/osa911/formrelay/internal/utils"
)

// File is the on-disk shape of the apps configuration. JSON files are
// accepted since JSON is valid YAML.
type File struct {
	Defaults     App           `yaml:"defaults" json:"defaults" validate:"-"`
	Apps         []App         `yaml:"apps" json:"apps" validate:"dive"`
	Transporters []Transporter `yaml:"smtp" json:"smtp" validate:"dive"`
}

var envRefRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads, validates and indexes the apps file at path.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read apps file: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return reg, nil
}

// Parse decodes an apps file. ${NAME} references are replaced with the
// value of the NAME environment variable before decoding.
func Parse(data []byte) (*Registry, error) {
	data = envRefRegex.ReplaceAllFunc(data, func(m []byte) []byte {
		name := envRefRegex.FindSubmatch(m)[1]
		return []byte(os.Getenv(string(name)))
	})

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode apps file: %w", err)
	}

	for i := range f.Apps {
		if err := mergo.Merge(&f.Apps[i], f.Defaults); err != nil {
			return nil, fmt.Errorf("failed to apply defaults to app %q: %w", f.Apps[i].ID, err)
		}
	}
	for i := range f.Transporters {
		if f.Transporters[i].Driver == "" {
			f.Transporters[i].Driver = DriverSMTP
		}
	}

	if err := newFileValidator().Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid apps file: %w", err)
	}

	return NewRegistry(f.Apps, f.Transporters)
}

func newFileValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("apphost", func(fl validator.FieldLevel) bool {
		return utils.IsValidHost(fl.Field().String())
	})
	return v
}
