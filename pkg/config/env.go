package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables recognized by ApplyEnv.
const (
	EnvThesaurus   = "OFCO_THESAURUS"
	EnvAnnotations = "OFCO_ANNOTATIONS"
	EnvOutput      = "OFCO_OUTPUT"
	EnvQuiet       = "OFCO_QUIET"
	EnvRevised     = "OFCO_REVISED"
)

// LoadEnv reads KEY=VALUE pairs from envFile (if it exists) and applies them,
// followed by the process environment, which takes precedence.
func (cfg *Config) LoadEnv(envFile string) error {
	values := map[string]string{}

	if envFile != "" {
		fileValues, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			values = fileValues
		case errors.Is(err, os.ErrNotExist):
		default:
			return fmt.Errorf("failed to read env file '%s': %w", envFile, err)
		}
	}

	for _, key := range []string{EnvThesaurus, EnvAnnotations, EnvOutput, EnvQuiet, EnvRevised} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	return cfg.ApplyEnv(values)
}

// ApplyEnv overrides configuration fields from a key/value map.
func (cfg *Config) ApplyEnv(values map[string]string) error {
	if value := values[EnvThesaurus]; value != "" {
		cfg.Paths.Thesaurus = value
	}
	if value := values[EnvAnnotations]; value != "" {
		cfg.Paths.Annotations = value
	}
	if value := values[EnvOutput]; value != "" {
		cfg.Paths.AnnotatedOutput = value
	}

	for key, target := range map[string]*bool{EnvQuiet: &cfg.Quiet, EnvRevised: &cfg.Revised} {
		value, ok := values[key]
		if !ok || value == "" {
			continue
		}
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", key, value, err)
		}
		*target = parsed
	}

	return nil
}
