package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpress/internal/dateutil"
	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/markup"
	"github.com/alnah/go-mdpress/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrFieldRange      = errors.New("field out of range")
	ErrUnknownLocale   = errors.New("unknown locale")
)

// AppDirName is the directory searched under the user config directory.
const AppDirName = "go-mdpress"

// Field length limits.
const (
	MaxPathLength        = 4096
	MaxStyleLength       = 4096 // name or CSS file path
	MaxTextLength        = 500  // footer free-form text
	MaxDateLength        = 60   // "auto:MMMM D, YYYY" or a literal date
	MaxPageSizeLength    = 10   // "letter", "a4", "legal"
	MaxOrientationLength = 10   // "portrait", "landscape"
	MaxLocaleLength      = 16
	MaxCommandLength     = 1024
	MaxThemeLength       = 32
	MaxDurationLength    = 32
)

// Numeric bounds. Zero always means "use the default".
const (
	MinTimeout        = time.Second
	MaxTimeout        = 30 * time.Minute
	MinDiagramTimeout = time.Second
	MaxDiagramTimeout = 10 * time.Minute
	MinDiagramWidth   = 200
	MaxDiagramWidth   = 10000
	MinDiagramScale   = 0.5
	MaxDiagramScale   = 8
	MinDPI            = 72
	MaxDPI            = 1200
	MinImageWidth     = 0.5  // inches
	MaxImageWidth     = 20.0 // inches
	MaxWorkers        = 32
)

// Config holds all configuration for document generation.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Style   string        `yaml:"style"` // embedded style name or CSS file path
	Assets  AssetsConfig  `yaml:"assets"`
	Page    PageConfig    `yaml:"page"`
	Footer  FooterConfig  `yaml:"footer"`
	Locale  string        `yaml:"locale"`  // typographic quote set, e.g. "en", "fr"
	Timeout string        `yaml:"timeout"` // per-document conversion timeout, e.g. "2m"
	Diagram DiagramConfig `yaml:"diagram"`
	Image   ImageConfig   `yaml:"image"`
	Workers int           `yaml:"workers"` // 0 = auto
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default input directory (empty = working directory)
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = same as source)
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // "letter", "a4", "legal" (default: "a4")
	Orientation string  `yaml:"orientation"` // "portrait", "landscape" (default: "portrait")
	Margin      float64 `yaml:"margin"`      // inches (default: 0.75)
}

// FooterConfig defines page footer options.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // "left", "center", "right" (default: "right")
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Date           string `yaml:"date"` // literal, "auto" or "auto:FORMAT"
	Text           string `yaml:"text"`
}

// DiagramConfig defines mermaid rendering options.
type DiagramConfig struct {
	Enabled         bool    `yaml:"enabled"` // false = always use text summaries
	Command         string  `yaml:"command"` // executable plus leading args (default: "mmdc")
	Timeout         string  `yaml:"timeout"` // per-diagram, e.g. "30s"
	Width           int     `yaml:"width"`   // renderer canvas width in pixels
	Scale           float64 `yaml:"scale"`
	Theme           string  `yaml:"theme"`
	ConfigFile      string  `yaml:"configFile"`      // mermaid JSON config
	PuppeteerConfig string  `yaml:"puppeteerConfig"` // puppeteer JSON config
}

// ImageConfig defines how rendered images are sized on the page.
type ImageConfig struct {
	DPI      int     `yaml:"dpi"`
	MaxWidth float64 `yaml:"maxWidth"` // inches
}

// TimeoutDuration parses Timeout. Empty yields zero.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

// TimeoutDuration parses Timeout. Empty yields zero.
func (d *DiagramConfig) TimeoutDuration() (time.Duration, error) {
	return parseDuration("diagram.timeout", d.Timeout)
}

// Validate checks lengths first, then named values, then numeric ranges.
// LoadConfig calls it; callers building a Config by hand should too.
func (c *Config) Validate() error {
	for _, check := range []func() error{c.checkLengths, c.checkChoices, c.checkRanges} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) checkLengths() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"input.defaultDir", c.Input.DefaultDir, MaxPathLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"style", c.Style, MaxStyleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"page.size", c.Page.Size, MaxPageSizeLength},
		{"page.orientation", c.Page.Orientation, MaxOrientationLength},
		{"footer.date", c.Footer.Date, MaxDateLength},
		{"footer.text", c.Footer.Text, MaxTextLength},
		{"locale", c.Locale, MaxLocaleLength},
		{"timeout", c.Timeout, MaxDurationLength},
		{"diagram.command", c.Diagram.Command, MaxCommandLength},
		{"diagram.timeout", c.Diagram.Timeout, MaxDurationLength},
		{"diagram.theme", c.Diagram.Theme, MaxThemeLength},
		{"diagram.configFile", c.Diagram.ConfigFile, MaxPathLength},
		{"diagram.puppeteerConfig", c.Diagram.PuppeteerConfig, MaxPathLength},
	}
	for _, f := range fields {
		if n := len(f.value); n > f.max {
			return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, f.name, n, f.max)
		}
	}
	return nil
}

// checkChoices validates the fields that name something. Page size and
// orientation are left to the converter, which owns the paper table.
func (c *Config) checkChoices() error {
	switch strings.ToLower(c.Footer.Position) {
	case "", "left", "center", "right":
	default:
		return fmt.Errorf("footer.position: invalid value %q (must be left, center, or right)", c.Footer.Position)
	}
	if _, err := dateutil.ResolveDate(c.Footer.Date, time.Time{}, c.Locale); err != nil {
		return fmt.Errorf("footer.date: %w", err)
	}
	if c.Locale != "" && !markup.IsKnownLocale(c.Locale) {
		return fmt.Errorf("%w: %q", ErrUnknownLocale, c.Locale)
	}
	return nil
}

func (c *Config) checkRanges() error {
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return err
	}
	diagramTimeout, err := c.Diagram.TimeoutDuration()
	if err != nil {
		return err
	}
	return errors.Join(
		inRange("timeout", timeout, MinTimeout, MaxTimeout),
		inRange("diagram.timeout", diagramTimeout, MinDiagramTimeout, MaxDiagramTimeout),
		inRange("diagram.width", c.Diagram.Width, MinDiagramWidth, MaxDiagramWidth),
		inRange("diagram.scale", c.Diagram.Scale, MinDiagramScale, MaxDiagramScale),
		inRange("image.dpi", c.Image.DPI, MinDPI, MaxDPI),
		inRange("image.maxWidth", c.Image.MaxWidth, MinImageWidth, MaxImageWidth),
		inRange("workers", c.Workers, 0, MaxWorkers),
	)
}

// inRange accepts zero, which stands for the default, and anything within
// [lo, hi].
func inRange[T int | float64 | time.Duration](field string, v, lo, hi T) error {
	if v == 0 || (v >= lo && v <= hi) {
		return nil
	}
	return fmt.Errorf("%w: %s %v (must be between %v and %v)", ErrFieldRange, field, v, lo, hi)
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %v", field, s, err)
	}
	return d, nil
}

// DefaultConfig returns the configuration used when no file is given:
// diagram rendering on, everything else left to library defaults.
func DefaultConfig() *Config {
	return &Config{
		Diagram: DiagramConfig{Enabled: true},
	}
}

// LoadConfig reads a config file. A value containing a path separator is
// opened as is; a bare name is looked up through SearchPaths. Keys the file
// leaves out keep their DefaultConfig values. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	path, err := locate(nameOrPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path chosen by the user
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.DecodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func locate(nameOrPath string) (string, error) {
	switch {
	case nameOrPath == "":
		return "", ErrEmptyConfigName
	case fileutil.IsFilePath(nameOrPath):
		return nameOrPath, nil
	}
	tried := SearchPaths(nameOrPath)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// SearchPaths lists where a bare config name is looked for, in order: the
// working directory, then the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDirName, name+ext))
		}
	}
	return paths
}
