package mdpress

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-mdpress/internal/hints"
	"github.com/alnah/go-mdpress/internal/process"
)

// tabPrinter prints a local HTML file to PDF.
type tabPrinter interface {
	PrintFile(ctx context.Context, path string, settings *proto.PagePrintToPDF) ([]byte, error)
	Close() error
}

var _ tabPrinter = (*chromeSession)(nil)

// chromeEnv holds the launch choices taken from the environment.
type chromeEnv struct {
	Bin       string // ROD_BROWSER_BIN; empty lets rod fetch Chromium
	NoSandbox bool
}

// chromeEnvFromOS reads ROD_BROWSER_BIN and the sandbox decision.
func chromeEnvFromOS() chromeEnv {
	off, _ := hints.SandboxOff()
	return chromeEnv{Bin: os.Getenv("ROD_BROWSER_BIN"), NoSandbox: off}
}

func (e chromeEnv) launcher() *launcher.Launcher {
	l := launcher.New()
	if e.Bin != "" {
		l = l.Bin(e.Bin)
	}
	// Only ever add the flag: rod already sets it when it detects a container.
	if e.NoSandbox {
		l = l.NoSandbox(true)
	}
	return l
}

// chromeSession owns one headless Chrome, started on first use. It is not
// safe for concurrent use; the pool gives each worker its own session.
type chromeSession struct {
	env         chromeEnv
	loadTimeout time.Duration

	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newChromeSession(loadTimeout time.Duration) *chromeSession {
	return &chromeSession{env: chromeEnvFromOS(), loadTimeout: loadTimeout}
}

func (s *chromeSession) start() error {
	if s.browser != nil {
		return nil
	}
	l := s.env.launcher()
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.launcher = l

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		s.stopLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	s.browser = b
	return nil
}

// loadBudget is how long the page may take to load: what is left of the ctx
// deadline, or loadTimeout when ctx has none.
func (s *chromeSession) loadBudget(ctx context.Context) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return s.loadTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}

// PrintFile opens path in a new tab, waits for it to load and prints it.
// Context errors are returned unwrapped.
func (s *chromeSession) PrintFile(ctx context.Context, path string, settings *proto.PagePrintToPDF) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	budget, err := s.loadBudget(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.start(); err != nil {
		return nil, err
	}

	tab, err := s.browser.Page(proto.TargetCreateTarget{URL: fileURL(path)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = tab.Close() }()

	if err := tab.Timeout(budget).WaitLoad(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	stream, err := tab.Context(ctx).PDF(settings)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// Close disconnects from Chrome and kills the launcher's process group, so
// helper processes that outlive the connection go too.
func (s *chromeSession) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	s.stopLauncher()
	return err
}

func (s *chromeSession) stopLauncher() {
	if s.launcher == nil {
		return
	}
	process.KillGroup(s.launcher.PID())
	s.launcher.Kill()
	s.launcher = nil
}

// fileURL turns an absolute path into a file:// URL, escaping spaces and
// other characters a temp directory may contain.
func fileURL(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p // C:/Users/... on Windows
	}
	return (&url.URL{Scheme: "file", Path: p}).String()
}
