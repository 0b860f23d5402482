package config

// Notes:
// - TestLoadConfig_SearchPaths changes the working directory and the user
//   config directory through t.Chdir/t.Setenv and cannot run in parallel.
// - The unreadable-file case is skipped when running as root, where chmod 0000
//   does not prevent reads.

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdpress/internal/dateutil"
)

// ---------------------------------------------------------------------------
// TestDefaultConfig - Neutral defaults
// ---------------------------------------------------------------------------

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if !cfg.Diagram.Enabled {
		t.Error("Diagram.Enabled = false, want true")
	}
	if cfg.Style != "" {
		t.Errorf("Style = %q, want empty", cfg.Style)
	}
	if cfg.Footer.Enabled {
		t.Error("Footer.Enabled = true, want false")
	}
	if cfg.Workers != 0 {
		t.Errorf("Workers = %d, want 0 (auto)", cfg.Workers)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v, want nil", err)
	}
}

// ---------------------------------------------------------------------------
// TestInRange - Zero means default, bounds are inclusive
// ---------------------------------------------------------------------------

func TestInRange(t *testing.T) {
	t.Parallel()

	ints := []struct {
		v    int
		want bool
	}{{0, true}, {72, true}, {1200, true}, {71, false}, {1201, false}, {-1, false}}
	for _, tt := range ints {
		if err := inRange("image.dpi", tt.v, MinDPI, MaxDPI); (err == nil) != tt.want {
			t.Errorf("inRange(%d) error = %v, want ok %v", tt.v, err, tt.want)
		}
	}

	if err := inRange("diagram.scale", 0.25, MinDiagramScale, MaxDiagramScale); !errors.Is(err, ErrFieldRange) {
		t.Errorf("error = %v, want ErrFieldRange", err)
	}
	err := inRange("timeout", time.Hour, MinTimeout, MaxTimeout)
	if !errors.Is(err, ErrFieldRange) || !strings.Contains(err.Error(), "timeout 1h0m0s") {
		t.Errorf("error = %v, want the field and value named", err)
	}
}

// ---------------------------------------------------------------------------
// TestConfig_Validate - Field ranges and enumerations
// ---------------------------------------------------------------------------

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		wantMsg string
	}{
		{
			name:   "valid full config",
			mutate: func(c *Config) { *c = *fullConfig() },
		},
		{
			name:    "footer text too long",
			mutate:  func(c *Config) { c.Footer.Text = strings.Repeat("x", MaxTextLength+1) },
			wantErr: ErrFieldTooLong,
		},
		{
			name:    "footer position invalid",
			mutate:  func(c *Config) { c.Footer.Position = "top" },
			wantMsg: "footer.position",
		},
		{
			name:   "footer position case-insensitive",
			mutate: func(c *Config) { c.Footer.Position = "Center" },
		},
		{
			name:    "footer date with bad auto syntax",
			mutate:  func(c *Config) { c.Footer.Date = "auto-today" },
			wantErr: dateutil.ErrInvalidDateFormat,
		},
		{
			name:   "footer date literal",
			mutate: func(c *Config) { c.Footer.Date = "Spring 2025" },
		},
		{
			name:    "unknown locale",
			mutate:  func(c *Config) { c.Locale = "xx" },
			wantErr: ErrUnknownLocale,
		},
		{
			name:    "unparsable timeout",
			mutate:  func(c *Config) { c.Timeout = "soon" },
			wantMsg: "timeout",
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Timeout = "10ms" },
			wantErr: ErrFieldRange,
		},
		{
			name:    "diagram timeout too long",
			mutate:  func(c *Config) { c.Diagram.Timeout = "1h" },
			wantErr: ErrFieldRange,
		},
		{
			name:    "diagram width too small",
			mutate:  func(c *Config) { c.Diagram.Width = 10 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "diagram scale too large",
			mutate:  func(c *Config) { c.Diagram.Scale = 20 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "dpi too low",
			mutate:  func(c *Config) { c.Image.DPI = 10 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "image max width too large",
			mutate:  func(c *Config) { c.Image.MaxWidth = 40 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "negative workers",
			mutate:  func(c *Config) { c.Workers = -1 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "too many workers",
			mutate:  func(c *Config) { c.Workers = MaxWorkers + 1 },
			wantErr: ErrFieldRange,
		},
		{
			name:    "diagram command too long",
			mutate:  func(c *Config) { c.Diagram.Command = strings.Repeat("m", MaxCommandLength+1) },
			wantErr: ErrFieldTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			switch {
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
				}
			case tt.wantMsg != "":
				if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
					t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantMsg)
				}
			default:
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			}
		})
	}
}

func fullConfig() *Config {
	return &Config{
		Input:   InputConfig{DefaultDir: "docs"},
		Output:  OutputConfig{DefaultDir: "out"},
		Style:   "serif",
		Page:    PageConfig{Size: "a4", Orientation: "portrait", Margin: 0.75},
		Footer:  FooterConfig{Enabled: true, Position: "right", ShowPageNumber: true, Date: "auto:long", Text: "Internal"},
		Locale:  "fr",
		Timeout: "2m",
		Diagram: DiagramConfig{
			Enabled: true,
			Command: "npx -y @mermaid-js/mermaid-cli",
			Timeout: "45s",
			Width:   1800,
			Scale:   1.5,
			Theme:   "forest",
		},
		Image:   ImageConfig{DPI: 300, MaxWidth: 6},
		Workers: 4,
	}
}

// ---------------------------------------------------------------------------
// TestTimeoutDuration - Duration parsing
// ---------------------------------------------------------------------------

func TestTimeoutDuration(t *testing.T) {
	t.Parallel()

	cfg := &Config{Timeout: "90s", Diagram: DiagramConfig{Timeout: "5s"}}

	got, err := cfg.TimeoutDuration()
	if err != nil || got != 90*time.Second {
		t.Errorf("TimeoutDuration() = %v, %v; want 90s, nil", got, err)
	}
	got, err = cfg.Diagram.TimeoutDuration()
	if err != nil || got != 5*time.Second {
		t.Errorf("Diagram.TimeoutDuration() = %v, %v; want 5s, nil", got, err)
	}

	empty := &Config{}
	if got, err := empty.TimeoutDuration(); got != 0 || err != nil {
		t.Errorf("empty TimeoutDuration() = %v, %v; want 0, nil", got, err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - File loading
// ---------------------------------------------------------------------------

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mdpress.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `style: "serif"
locale: "de"
page:
  size: "a4"
  margin: 0.6
footer:
  enabled: true
  position: "center"
  showPageNumber: true
diagram:
  command: "mmdc"
  timeout: "20s"
  width: 1600
image:
  dpi: 220
  maxWidth: 6
workers: 3
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Style != "serif" {
			t.Errorf("Style = %q, want %q", cfg.Style, "serif")
		}
		if cfg.Locale != "de" {
			t.Errorf("Locale = %q, want %q", cfg.Locale, "de")
		}
		if cfg.Page.Size != "a4" || cfg.Page.Margin != 0.6 {
			t.Errorf("Page = %+v, want a4 with margin 0.6", cfg.Page)
		}
		if !cfg.Footer.Enabled || cfg.Footer.Position != "center" || !cfg.Footer.ShowPageNumber {
			t.Errorf("Footer = %+v", cfg.Footer)
		}
		if cfg.Diagram.Width != 1600 {
			t.Errorf("Diagram.Width = %d, want 1600", cfg.Diagram.Width)
		}
		if d, _ := cfg.Diagram.TimeoutDuration(); d != 20*time.Second {
			t.Errorf("Diagram timeout = %v, want 20s", d)
		}
		if cfg.Image.DPI != 220 || cfg.Image.MaxWidth != 6 {
			t.Errorf("Image = %+v, want dpi 220, maxWidth 6", cfg.Image)
		}
		if cfg.Workers != 3 {
			t.Errorf("Workers = %d, want 3", cfg.Workers)
		}
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(writeConfig(t, "locale: en\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if !cfg.Diagram.Enabled {
			t.Error("Diagram.Enabled = false, want default true")
		}
	})

	t.Run("diagram rendering can be disabled", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig(writeConfig(t, "diagram:\n  enabled: false\n"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Diagram.Enabled {
			t.Error("Diagram.Enabled = true, want false")
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "style: [unclosed"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "style: serif\nwatermark: DRAFT\n"))
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(writeConfig(t, "image:\n  dpi: 5\n"))
		if !errors.Is(err, ErrFieldRange) {
			t.Errorf("error = %v, want ErrFieldRange", err)
		}
	})

	t.Run("unreadable file returns read error not ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		if os.Geteuid() == 0 {
			t.Skip("root can read files regardless of mode")
		}
		path := writeConfig(t, "style: serif\n")
		if err := os.Chmod(path, 0000); err != nil {
			t.Fatalf("setup chmod: %v", err)
		}
		defer os.Chmod(path, 0600)

		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("expected error for unreadable file")
		}
		if errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, should not be ErrConfigNotFound", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestLoadConfig_SearchPaths - Name resolution
// ---------------------------------------------------------------------------

func TestLoadConfig_SearchPaths(t *testing.T) {
	work := t.TempDir()
	home := t.TempDir()
	t.Chdir(work)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("AppData", home)

	t.Run("name found in working directory", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(work, "local.yml"), []byte("locale: fr\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		cfg, err := LoadConfig("local")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Locale != "fr" {
			t.Errorf("Locale = %q, want fr", cfg.Locale)
		}
	})

	t.Run("name found in user config directory", func(t *testing.T) {
		dir, err := os.UserConfigDir()
		if err != nil {
			t.Skipf("no user config dir: %v", err)
		}
		appDir := filepath.Join(dir, AppDirName)
		if err := os.MkdirAll(appDir, 0o755); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if err := os.WriteFile(filepath.Join(appDir, "shared.yaml"), []byte("style: compact\n"), 0600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		cfg, err := LoadConfig("shared")
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Style != "compact" {
			t.Errorf("Style = %q, want compact", cfg.Style)
		}
	})

	t.Run("missing name lists tried paths", func(t *testing.T) {
		_, err := LoadConfig("absent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("error = %v, want ErrConfigNotFound", err)
		}
		for _, p := range SearchPaths("absent") {
			if !strings.Contains(err.Error(), p) {
				t.Errorf("error %q does not mention %q", err, p)
			}
		}
	})
}
