// Package hints turns common failures into short suggestions. Each hint is
// appended to an error message as "\n  hint: <text>".
package hints

import (
	"os"
	"path/filepath"
	"strings"
)

// ciVars are set by the CI services mdpress usually runs on.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// dockerEnvFile is created by Docker in every container.
var dockerEnvFile = "/.dockerenv"

// InCI reports whether one of the usual CI variables is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// Container reports whether the process runs in a container, and names the
// signal that said so. MDPRESS_CONTAINER=1 forces detection.
func Container() (bool, string) {
	if os.Getenv("MDPRESS_CONTAINER") == "1" {
		return true, "MDPRESS_CONTAINER=1"
	}
	if info, err := os.Stat(dockerEnvFile); err == nil && !info.IsDir() {
		return true, dockerEnvFile
	}
	// Podman and systemd-nspawn
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// SandboxOff reports whether Chrome is launched without its sandbox, and
// why. CI runners, containers and custom binaries rarely grant the
// privileges the sandbox needs.
func SandboxOff() (bool, string) {
	if os.Getenv("ROD_NO_SANDBOX") == "1" {
		return true, "ROD_NO_SANDBOX=1"
	}
	if InCI() {
		return true, "CI"
	}
	if ok, signal := Container(); ok {
		return true, "container (" + signal + ")"
	}
	if os.Getenv("ROD_BROWSER_BIN") != "" {
		return true, "ROD_BROWSER_BIN"
	}
	return false, ""
}

// ForBrowserConnect returns hints for a browser that failed to start.
func ForBrowserConnect() string {
	var parts []string
	if off, _ := SandboxOff(); !off {
		parts = append(parts, "set ROD_NO_SANDBOX=1 if Chrome cannot create its sandbox")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		parts = append(parts, "set ROD_BROWSER_BIN to a local Chrome or Chromium")
	}
	parts = append(parts, "run 'mdpress doctor' to check the setup")
	return join(parts)
}

// ForTimeout returns a hint for page loads or diagram renders that ran out of time.
func ForTimeout() string {
	return format("long documents and many diagrams need more time, raise --timeout or MDPRESS_TIMEOUT")
}

// ForConfigNotFound suggests --config, or creating the first per-user file
// among searched.
func ForConfigNotFound(searched []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searched {
		if filepath.IsAbs(p) {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory returns a hint for an output directory that could not be created.
func ForOutputDirectory() string {
	return format("check the parent directory exists and is writable")
}

// ForStyleNotFound lists the built-in styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("built-in styles: " + strings.Join(available, ", "))
}

// ForDiagramRenderer returns a hint for a missing or failing mermaid CLI.
// Diagrams still appear as text summaries, so it is advisory.
func ForDiagramRenderer(command string) string {
	if strings.TrimSpace(command) == "" {
		command = "mmdc"
	}
	return format("install it with 'npm install -g @mermaid-js/mermaid-cli' or point MDPRESS_MMDC at " + command)
}

// ForInputDecoding returns a hint for input that is not valid UTF-8.
func ForInputDecoding() string {
	return format("re-save the file as UTF-8 to avoid the GBK fallback")
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

func join(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return format(strings.Join(parts, "; "))
}
