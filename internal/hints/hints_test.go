package hints

// Notes:
// - Container and ForBrowserConnect read the process environment, so their
//   tests use t.Setenv and swap dockerEnvFile; they cannot run in parallel.
// - The real /.dockerenv is never consulted: tests point dockerEnvFile at a
//   temp path so results do not depend on where the suite runs.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearRuntimeEnv blanks every variable the detectors read and hides /.dockerenv.
func clearRuntimeEnv(t *testing.T) {
	t.Helper()
	for _, v := range ciVars {
		t.Setenv(v, "")
	}
	for _, v := range []string{"MDPRESS_CONTAINER", "container", "KUBERNETES_SERVICE_HOST", "ROD_NO_SANDBOX", "ROD_BROWSER_BIN"} {
		t.Setenv(v, "")
	}
	orig := dockerEnvFile
	dockerEnvFile = filepath.Join(t.TempDir(), "dockerenv")
	t.Cleanup(func() { dockerEnvFile = orig })
}

// ---------------------------------------------------------------------------
// TestContainer - Container signals
// ---------------------------------------------------------------------------

func TestContainer(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T)
		want       bool
		wantSignal string
	}{
		{
			name:  "bare host",
			setup: func(t *testing.T) {},
		},
		{
			name:       "explicit override",
			setup:      func(t *testing.T) { t.Setenv("MDPRESS_CONTAINER", "1") },
			want:       true,
			wantSignal: "MDPRESS_CONTAINER=1",
		},
		{
			name: "docker env file",
			setup: func(t *testing.T) {
				if err := os.WriteFile(dockerEnvFile, nil, 0o600); err != nil {
					t.Fatal(err)
				}
			},
			want:       true,
			wantSignal: "dockerenv",
		},
		{
			name:       "podman",
			setup:      func(t *testing.T) { t.Setenv("container", "podman") },
			want:       true,
			wantSignal: "container=podman",
		},
		{
			name:       "kubernetes",
			setup:      func(t *testing.T) { t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1") },
			want:       true,
			wantSignal: "KUBERNETES_SERVICE_HOST",
		},
		{
			name:  "override must be exactly 1",
			setup: func(t *testing.T) { t.Setenv("MDPRESS_CONTAINER", "yes") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRuntimeEnv(t)
			tt.setup(t)

			got, signal := Container()
			if got != tt.want {
				t.Errorf("Container() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(signal, tt.wantSignal) {
				t.Errorf("signal = %q, want it to contain %q", signal, tt.wantSignal)
			}
		})
	}
}

func TestInCI(t *testing.T) {
	clearRuntimeEnv(t)
	if InCI() {
		t.Fatal("InCI() = true with no CI variables")
	}

	t.Setenv("GITLAB_CI", "true")
	if !InCI() {
		t.Error("InCI() = false with GITLAB_CI set")
	}
}

// ---------------------------------------------------------------------------
// TestForBrowserConnect - Sandbox and binary suggestions
// ---------------------------------------------------------------------------

func TestSandboxOff(t *testing.T) {
	tests := []struct {
		name       string
		env        map[string]string
		wantOff    bool
		wantReason string
	}{
		{name: "desktop"},
		{name: "explicit", env: map[string]string{"ROD_NO_SANDBOX": "1"}, wantOff: true, wantReason: "ROD_NO_SANDBOX=1"},
		{name: "explicit zero", env: map[string]string{"ROD_NO_SANDBOX": "0"}},
		{name: "ci", env: map[string]string{"GITLAB_CI": "true"}, wantOff: true, wantReason: "CI"},
		{name: "container", env: map[string]string{"MDPRESS_CONTAINER": "1"}, wantOff: true, wantReason: "container (MDPRESS_CONTAINER=1)"},
		{name: "custom binary", env: map[string]string{"ROD_BROWSER_BIN": "/opt/chrome"}, wantOff: true, wantReason: "ROD_BROWSER_BIN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRuntimeEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			off, reason := SandboxOff()
			if off != tt.wantOff || reason != tt.wantReason {
				t.Errorf("SandboxOff() = %v, %q, want %v, %q", off, reason, tt.wantOff, tt.wantReason)
			}
		})
	}
}

func TestForBrowserConnect(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		want      []string
		wantNever []string
	}{
		{
			name: "desktop with sandbox",
			want: []string{"ROD_NO_SANDBOX=1", "ROD_BROWSER_BIN", "mdpress doctor"},
		},
		{
			name:      "github actions already drops the sandbox",
			env:       map[string]string{"GITHUB_ACTIONS": "true"},
			want:      []string{"ROD_BROWSER_BIN"},
			wantNever: []string{"ROD_NO_SANDBOX"},
		},
		{
			name:      "custom binary",
			env:       map[string]string{"ROD_BROWSER_BIN": "/usr/bin/chromium"},
			want:      []string{"mdpress doctor"},
			wantNever: []string{"ROD_NO_SANDBOX", "ROD_BROWSER_BIN"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRuntimeEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got := ForBrowserConnect()
			if strings.Count(got, "hint:") != 1 {
				t.Errorf("ForBrowserConnect() = %q, want a single hint line", got)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("ForBrowserConnect() = %q, want %q", got, w)
				}
			}
			for _, w := range tt.wantNever {
				if strings.Contains(got, w) {
					t.Errorf("ForBrowserConnect() = %q, should not mention %q", got, w)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestStaticHints - Fixed hint texts
// ---------------------------------------------------------------------------

func TestStaticHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"timeout", ForTimeout(), "--timeout"},
		{"timeout env", ForTimeout(), "MDPRESS_TIMEOUT"},
		{"output directory", ForOutputDirectory(), "writable"},
		{"styles", ForStyleNotFound([]string{"compact", "house", "serif"}), "compact, house, serif"},
		{"diagram renderer default", ForDiagramRenderer("  "), "at mmdc"},
		{"diagram renderer custom", ForDiagramRenderer("/opt/mmdc"), "at /opt/mmdc"},
		{"diagram renderer install", ForDiagramRenderer(""), "@mermaid-js/mermaid-cli"},
		{"decoding", ForInputDecoding(), "GBK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.got, "\n  hint: ") {
				t.Errorf("hint %q should start with newline and indented prefix", tt.got)
			}
			if strings.HasSuffix(tt.got, "\n") {
				t.Errorf("hint %q should not end with a newline", tt.got)
			}
			if !strings.Contains(tt.got, tt.want) {
				t.Errorf("hint = %q, want it to contain %q", tt.got, tt.want)
			}
		})
	}
}

func TestForStyleNotFound_NoStyles(t *testing.T) {
	t.Parallel()

	if got := ForStyleNotFound(nil); got != "" {
		t.Errorf("ForStyleNotFound(nil) = %q, want empty", got)
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound - Suggested config location
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	userFile := filepath.Join(t.TempDir(), "go-mdpress", "report.yaml")

	tests := []struct {
		name      string
		searched  []string
		want      string
		wantNever string
	}{
		{
			name:      "only relative candidates",
			searched:  []string{"report.yaml", "report.yml"},
			want:      "--config",
			wantNever: "create",
		},
		{
			name:     "first absolute candidate",
			searched: []string{"report.yaml", "report.yml", userFile, userFile + ".bak"},
			want:     "or create " + userFile,
		},
		{
			name:      "nothing searched",
			want:      "--config",
			wantNever: "create",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ForConfigNotFound(tt.searched)
			if !strings.Contains(got, tt.want) {
				t.Errorf("ForConfigNotFound() = %q, want %q", got, tt.want)
			}
			if tt.wantNever != "" && strings.Contains(got, tt.wantNever) {
				t.Errorf("ForConfigNotFound() = %q, should not contain %q", got, tt.wantNever)
			}
			if strings.HasSuffix(got, ".bak") {
				t.Errorf("ForConfigNotFound() = %q, want only the first absolute path", got)
			}
		})
	}
}
