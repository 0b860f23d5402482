package diagram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/process"
)

// Renderer turns preprocessed diagram source into a PNG image.
// Implementations must honour ctx cancellation and return one of the
// package sentinel errors (possibly wrapped) on failure.
type Renderer interface {
	Render(ctx context.Context, source string) ([]byte, error)
}

// DefaultCommand is the mermaid CLI executable looked up in PATH.
const DefaultCommand = "mmdc"

// Renderer defaults, sized for a crisp image after downscaling.
const (
	DefaultRenderWidth  = 2200
	DefaultRenderHeight = 1500
	DefaultRenderScale  = 2.0
	DefaultTheme        = "neutral"
)

// outputLimit caps the renderer output quoted in error messages.
const outputLimit = 512

// MermaidCLI renders diagrams with the mermaid command line tool (mmdc).
// The zero value uses DefaultCommand and the default geometry.
type MermaidCLI struct {
	// Command is the executable, optionally followed by arguments,
	// e.g. "npx -y @mermaid-js/mermaid-cli".
	Command string
	Width   int
	Height  int
	Scale   float64
	Theme   string
	// ConfigFile is an optional mermaid JSON configuration passed with -c.
	ConfigFile string
	// PuppeteerConfig is an optional puppeteer JSON file passed with -p,
	// typically to disable the Chrome sandbox in containers.
	PuppeteerConfig string
}

var _ Renderer = (*MermaidCLI)(nil)

// Render writes source into a scratch directory, runs the CLI in its own
// process group, and returns the PNG it produced. The scratch directory is
// removed on every path. If ctx expires the whole process group is killed and
// ErrRendererTimeout is returned.
func (m *MermaidCLI) Render(ctx context.Context, source string) ([]byte, error) {
	argv := m.argv()
	bin, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
	}

	scratch, err := fileutil.NewScratch("diagram")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererFailed, err)
	}
	defer func() { _ = scratch.Close() }()

	inPath, err := scratch.WriteFile("diagram.mmd", source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRendererFailed, err)
	}
	outPath, _ := scratch.Path("diagram.png")

	args := append(argv[1:], m.args(inPath, outPath)...)
	cmd := process.Command(ctx, bin, args...)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %v", ErrRendererTimeout, ctxErr)
			}
			return nil, fmt.Errorf("%w: %v", ErrRendererFailed, ctxErr)
		}
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrRendererUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %v: %s", ErrRendererFailed, err, truncate(output.String(), outputLimit))
	}

	png, err := os.ReadFile(outPath) // #nosec G304 -- path created above
	if err != nil || len(png) == 0 {
		return nil, ErrNoOutput
	}
	return png, nil
}

// argv splits Command into the executable and its leading arguments.
func (m *MermaidCLI) argv() []string {
	fields := strings.Fields(m.Command)
	if len(fields) == 0 {
		return []string{DefaultCommand}
	}
	return fields
}

func (m *MermaidCLI) args(in, out string) []string {
	width, height, scale, theme := m.Width, m.Height, m.Scale, m.Theme
	if width <= 0 {
		width = DefaultRenderWidth
	}
	if height <= 0 {
		height = DefaultRenderHeight
	}
	if scale <= 0 {
		scale = DefaultRenderScale
	}
	if theme == "" {
		theme = DefaultTheme
	}

	args := []string{
		"-i", in,
		"-o", out,
		"-t", theme,
		"-b", "white",
		"-w", strconv.Itoa(width),
		"-H", strconv.Itoa(height),
		"-s", strconv.FormatFloat(scale, 'f', -1, 64),
	}
	if m.ConfigFile != "" {
		args = append(args, "-c", m.ConfigFile)
	}
	if m.PuppeteerConfig != "" {
		args = append(args, "-p", m.PuppeteerConfig)
	}
	return args
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
