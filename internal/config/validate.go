package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidPrefix indicates a symbol prefix that cannot start a C identifier
	ErrInvalidPrefix = errors.New("invalid symbol prefix")

	// ErrSamePrefix indicates old and new prefixes that are identical
	ErrSamePrefix = errors.New("old and new prefix are identical")

	// ErrEmptyLibrary indicates a missing library name
	ErrEmptyLibrary = errors.New("empty library name")

	// ErrInvalidOutput indicates an unusable output path
	ErrInvalidOutput = errors.New("invalid output path")

	// ErrInvalidExtension indicates an unusable header extension
	ErrInvalidExtension = errors.New("invalid header extension")

	// ErrInvalidPattern indicates an ignore pattern that does not compile
	ErrInvalidPattern = errors.New("invalid ignore pattern")
)

// Prefixes are CamelCase identifiers, e.g. "Adw".
var prefixPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateNaming(&cfg.Naming); err != nil {
		errs = append(errs, err)
	}

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateNaming(cfg *NamingConfig) error {
	var errs []error

	if !prefixPattern.MatchString(cfg.OldPrefix) {
		errs = append(errs, fmt.Errorf("%w: old_prefix must be a CamelCase identifier, got '%s'", ErrInvalidPrefix, cfg.OldPrefix))
	}
	if !prefixPattern.MatchString(cfg.NewPrefix) {
		errs = append(errs, fmt.Errorf("%w: new_prefix must be a CamelCase identifier, got '%s'", ErrInvalidPrefix, cfg.NewPrefix))
	}
	if cfg.OldPrefix != "" && strings.EqualFold(cfg.OldPrefix, cfg.NewPrefix) {
		errs = append(errs, fmt.Errorf("%w: '%s'", ErrSamePrefix, cfg.OldPrefix))
	}

	if strings.TrimSpace(cfg.OldLibrary) == "" {
		errs = append(errs, fmt.Errorf("%w: old_library is required", ErrEmptyLibrary))
	}
	if strings.TrimSpace(cfg.NewLibrary) == "" {
		errs = append(errs, fmt.Errorf("%w: new_library is required", ErrEmptyLibrary))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error

	validExt := strings.HasPrefix(cfg.HeaderExt, ".") && len(cfg.HeaderExt) > 1
	if !validExt {
		errs = append(errs, fmt.Errorf("%w: header_ext must start with '.', got '%s'", ErrInvalidExtension, cfg.HeaderExt))
	}

	// The output is only checked against a usable extension
	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: output is required", ErrInvalidOutput))
	} else if validExt && filepath.Ext(cfg.Output) != cfg.HeaderExt {
		errs = append(errs, fmt.Errorf("%w: output '%s' must end in '%s'", ErrInvalidOutput, cfg.Output, cfg.HeaderExt))
	}

	for _, pattern := range cfg.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
