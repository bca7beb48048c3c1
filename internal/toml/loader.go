package toml

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vk/barshell/internal/config"
	"github.com/vk/barshell/internal/ctxlog"
)

// Loader is the TOML-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new TOML configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// DefaultPath returns the configuration file location used when no path is
// given on the command line: the BARSHELL_CONFIG environment variable when
// set, otherwise the conventional XDG location through os.UserConfigDir.
func DefaultPath() string {
	if path := os.Getenv("BARSHELL_CONFIG"); path != "" {
		return path
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "barshell", "config.toml")
}

// Load reads and translates one configuration file. A missing file is not
// an error: the daemon is fully functional on built-in defaults. Anything
// else that goes wrong (unparseable TOML, unknown keys, values outside
// their domain) is reported as a *config.ConfigError carrying the path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Model, config.Converter, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("No configuration file found, using built-in defaults.", "path", path)
		return config.DefaultModel(), NewConverter(nil), nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, nil, &config.ConfigError{Path: path, Reason: "malformed TOML", Err: err}
	}

	model, err := l.translate(md, raw)
	if err != nil {
		return nil, nil, attachPath(err, path)
	}

	// Typed sections were decoded strictly; leftover keys inside them are
	// misspellings the user should hear about instead of silent no-ops.
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, nil, &config.ConfigError{
			Path:   path,
			Reason: "unknown keys: " + strings.Join(keys, ", "),
		}
	}

	if err := model.Validate(); err != nil {
		return nil, nil, attachPath(err, path)
	}

	logger.Debug("TOML loading complete.",
		"bars", len(model.Bars),
		"settings_tables", len(model.ModuleSettings),
		"custom_modules", len(model.CustomModules),
	)
	return model, NewConverter(model.ModuleSettings), nil
}

// attachPath stamps the source path onto configuration errors that were
// produced below the file level.
func attachPath(err error, path string) error {
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Path == "" {
		cfgErr.Path = path
	}
	return err
}
