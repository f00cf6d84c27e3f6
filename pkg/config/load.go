package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/orgchart/pkg/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads path over [Default], applies environment overrides and
// validates the result. An empty path loads [DefaultPath] if that file
// exists and defaults otherwise; a non-empty path must exist.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load takes an explicit environment for tests; nil means the process env.
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path == "" {
		if p := DefaultPath(); p != "" {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	} else if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "config file not found: %s", path)
	}

	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a TOML document over [Default] without consulting the
// environment or validating.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return checkUndecoded(md)
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if stderrors.As(err, &ve) && len(ve) > 0 {
			fe := ve[0]
			return errors.New(errors.ErrCodeInvalidConfig, "%s: failed %q check", strings.ToLower(fe.Namespace()), fe.Tag())
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	if err := c.Viewport.Validate(); err != nil {
		return err
	}
	if c.Layout.HorizontalSpacing < 0 || c.Layout.VerticalSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout spacing cannot be negative")
	}
	for name, s := range map[string]struct{ w, h float64 }{
		"department": {c.Cards.Department.Width, c.Cards.Department.Height},
		"employee":   {c.Cards.Employee.Width, c.Cards.Employee.Height},
	} {
		if s.w <= 0 || s.h <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s card size must be positive", name)
		}
	}
	return nil
}
