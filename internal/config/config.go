// Package config handles the persisted defaults for pdfrenamer.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults represents the settings stored in
// ~/.config/pdfrenamer/config.yml. Zero values mean "not set"; Resolve
// fills them in from the built-in defaults.
type Defaults struct {
	Format            string `yaml:"format,omitempty"`
	Case              string `yaml:"case,omitempty"`
	MaxLengthAuthors  int    `yaml:"max_length_authors,omitempty"`
	MaxLengthFilename int    `yaml:"max_length_filename,omitempty"`
	MaxWordsTitle     int    `yaml:"max_words_title,omitempty"`
	Subfolders        bool   `yaml:"subfolders,omitempty"`
}

// Built-in defaults, used when no config file exists or a field is unset.
const (
	DefaultFormat            = "{YYYY} - {Jabbr} - {A3etal} - {T}"
	DefaultCase              = "none"
	DefaultMaxLengthAuthors  = 80
	DefaultMaxLengthFilename = 250
	DefaultMaxWordsTitle     = 10
)

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "pdfrenamer"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"
	// AbbrevFile holds user-defined journal abbreviations.
	AbbrevFile = "abbreviations.txt"
)

// ValidCases lists the supported case conversion modes.
var ValidCases = []string{"camel", "snake", "kebab", "none"}

// ValidateCase checks that the case mode is one of the supported values.
func ValidateCase(mode string) error {
	for _, valid := range ValidCases {
		if mode == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid case: %s (valid: %v)", mode, ValidCases)
}

// defaultsCache caches the loaded defaults.
var defaultsCache *Defaults

// Dir returns the configuration directory.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/pdfrenamer.
func Dir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir)
}

// Path returns the path to the config file.
func Path() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, ConfigFile)
}

// AbbrevPath returns the path to the user abbreviations file.
func AbbrevPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, AbbrevFile)
}

// Load reads the persisted defaults.
// Returns empty defaults (not an error) if the file doesn't exist.
func Load() (*Defaults, error) {
	if defaultsCache != nil {
		return defaultsCache, nil
	}

	path := Path()
	if path == "" {
		return &Defaults{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Defaults{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	defaultsCache = &d
	return &d, nil
}

// Save writes the defaults to the config file, creating the directory
// if needed.
func (d *Defaults) Save() error {
	path := Path()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	ResetCache()
	return nil
}

// ResetCache clears the cached defaults. Useful for testing.
func ResetCache() {
	defaultsCache = nil
}

// Resolve returns a copy of d with unset fields replaced by the
// built-in defaults.
func (d *Defaults) Resolve() Defaults {
	out := *d
	if out.Format == "" {
		out.Format = DefaultFormat
	}
	if out.Case == "" {
		out.Case = DefaultCase
	}
	if out.MaxLengthAuthors <= 0 {
		out.MaxLengthAuthors = DefaultMaxLengthAuthors
	}
	if out.MaxLengthFilename <= 0 {
		out.MaxLengthFilename = DefaultMaxLengthFilename
	}
	if out.MaxWordsTitle <= 0 {
		out.MaxWordsTitle = DefaultMaxWordsTitle
	}
	return out
}

// ExpandTilde expands a leading ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
