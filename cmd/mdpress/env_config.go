package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-mdpress/internal/config"
)

const envPrefix = "MDPRESS_"

// envConfigName selects the config file when --config is absent.
const envConfigName = envPrefix + "CONFIG"

// envBinding overrides one config field from one variable.
type envBinding struct {
	name  string
	apply func(value string, cfg *config.Config) error
}

var errPositiveDuration = errors.New("want a positive duration such as 45s")

// envBindings sit between the config file and the flags.
var envBindings = []envBinding{
	{envPrefix + "STYLE", func(v string, cfg *config.Config) error { cfg.Style = v; return nil }},
	{envPrefix + "TIMEOUT", func(v string, cfg *config.Config) error {
		if d, err := time.ParseDuration(v); err != nil || d <= 0 {
			return errPositiveDuration
		}
		cfg.Timeout = v
		return nil
	}},
	{envPrefix + "LOCALE", func(v string, cfg *config.Config) error { cfg.Locale = v; return nil }},
	{envPrefix + "MMDC", func(v string, cfg *config.Config) error { cfg.Diagram.Command = v; return nil }},
	{envPrefix + "INPUT_DIR", func(v string, cfg *config.Config) error { cfg.Input.DefaultDir = v; return nil }},
	{envPrefix + "OUTPUT_DIR", func(v string, cfg *config.Config) error { cfg.Output.DefaultDir = v; return nil }},
	{envPrefix + "PAGE_SIZE", func(v string, cfg *config.Config) error { cfg.Page.Size = v; return nil }},
	{envPrefix + "WORKERS", func(v string, cfg *config.Config) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return errors.New("want a whole number, 0 for one per CPU")
		}
		cfg.Workers = n
		return nil
	}},
}

// envReadElsewhere are known variables that do not map to a config field.
var envReadElsewhere = []string{envConfigName, envPrefix + "CONTAINER"}

// envVarNames lists every variable mdpress reads, sorted.
func envVarNames() []string {
	names := slices.Clone(envReadElsewhere)
	for _, b := range envBindings {
		names = append(names, b.name)
	}
	slices.Sort(names)
	return names
}

// applyEnv copies every set, non-empty variable into cfg. A value that
// does not parse is reported on warn and leaves cfg alone.
func applyEnv(cfg *config.Config, lookup func(string) (string, bool), warn io.Writer) {
	for _, b := range envBindings {
		v, ok := lookup(b.name)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(v, cfg); err != nil {
			fmt.Fprintf(warn, "warning: ignoring %s=%q: %v\n", b.name, v, err)
		}
	}
}

// warnUnknownEnvVars flags MDPRESS_* names nobody reads, such as
// MDPRESS_STYEL.
func warnUnknownEnvVars(environ []string, w io.Writer) {
	known := envVarNames()
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, envPrefix) {
			continue
		}
		if _, found := slices.BinarySearch(known, name); !found {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}
