package config

import (
	"path/filepath"

	"github.com/mvp-joe/adapta-compat/internal/pipeline"
	"github.com/mvp-joe/adapta-compat/internal/symbols"
)

// Config represents the complete adapta-compat configuration.
// It can be loaded from .adapta/config.yml with environment variable overrides.
type Config struct {
	Naming NamingConfig `yaml:"naming" mapstructure:"naming"`
	Paths  PathsConfig  `yaml:"paths" mapstructure:"paths"`
}

// NamingConfig describes the rebrand: the prefixes and library names before and after.
type NamingConfig struct {
	OldPrefix  string `yaml:"old_prefix" mapstructure:"old_prefix"`   // e.g., "Adw"
	NewPrefix  string `yaml:"new_prefix" mapstructure:"new_prefix"`   // e.g., "Adap"
	OldLibrary string `yaml:"old_library" mapstructure:"old_library"` // e.g., "Adwaita"
	NewLibrary string `yaml:"new_library" mapstructure:"new_library"` // e.g., "Adapta"
}

// PathsConfig defines where headers are read from and where the compat header goes.
type PathsConfig struct {
	Output    string   `yaml:"output" mapstructure:"output"`         // compat header, relative to the root
	HeaderExt string   `yaml:"header_ext" mapstructure:"header_ext"` // header file extension
	Ignore    []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns to ignore
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	naming := symbols.DefaultNaming()
	return &Config{
		Naming: NamingConfig{
			OldPrefix:  naming.OldPrefix,
			NewPrefix:  naming.NewPrefix,
			OldLibrary: naming.OldLibrary,
			NewLibrary: naming.NewLibrary,
		},
		Paths: PathsConfig{
			Output:    filepath.Join("src", "adw-compat.h"),
			HeaderExt: ".h",
			// Every subdirectory is scanned unless ignores are configured;
			// meson writes adap-version.h and adap-enums.h into the build dir.
			Ignore: []string{},
		},
	}
}

// SymbolNaming converts the naming section into the extractor's form.
func (c *Config) SymbolNaming() symbols.Naming {
	return symbols.Naming{
		OldPrefix:  c.Naming.OldPrefix,
		NewPrefix:  c.Naming.NewPrefix,
		OldLibrary: c.Naming.OldLibrary,
		NewLibrary: c.Naming.NewLibrary,
	}
}

// ToPipelineConfig converts a Config to a pipeline.Config.
// The rootDir parameter specifies the root directory of the library sources.
func (c *Config) ToPipelineConfig(rootDir string) *pipeline.Config {
	return &pipeline.Config{
		RootDir:    rootDir,
		OutputPath: c.Paths.Output,
		HeaderExt:  c.Paths.HeaderExt,
		Ignore:     c.Paths.Ignore,
		Naming:     c.SymbolNaming(),
	}
}
