package config

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidLanguage indicates an unsupported source language
	ErrInvalidLanguage = errors.New("invalid language")

	// ErrInvalidJavaBackend indicates an unsupported Java front end
	ErrInvalidJavaBackend = errors.New("invalid java backend")

	// ErrInvalidIgnorePattern indicates an ignore glob that does not compile
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrInvalidNeighbors indicates a negative default hop count
	ErrInvalidNeighbors = errors.New("invalid default neighbors")
)

var supportedLanguages = map[string]bool{
	"java":   true,
	"python": true,
}

var supportedJavaBackends = map[string]bool{
	"treesitter": true,
	"cst":        true,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	for _, lang := range cfg.Build.Languages {
		if !supportedLanguages[lang] {
			errs = append(errs, fmt.Errorf("%w: %q (supported: java, python)", ErrInvalidLanguage, lang))
		}
	}

	if cfg.Build.JavaBackend != "" && !supportedJavaBackends[cfg.Build.JavaBackend] {
		errs = append(errs, fmt.Errorf("%w: %q (supported: treesitter, cst)", ErrInvalidJavaBackend, cfg.Build.JavaBackend))
	}

	for _, pattern := range cfg.Build.Ignore {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q: %v", ErrInvalidIgnorePattern, pattern, err))
		}
	}

	if cfg.Query.DefaultNeighbors < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidNeighbors, cfg.Query.DefaultNeighbors))
	}

	return errors.Join(errs...)
}
