package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"

	"github.com/alnah/go-mdpress/internal/diagram"
	"github.com/alnah/go-mdpress/internal/fileutil"
	"github.com/alnah/go-mdpress/internal/hints"
	"github.com/alnah/go-mdpress/internal/process"
)

// versionCheckTimeout bounds each "--version" call.
const versionCheckTimeout = 10 * time.Second

// level grades a finding. Levels sort from best to worst.
type level int

const (
	levelOK level = iota
	levelWarn
	levelError
)

var levelNames = [...]string{"ok", "warn", "error"}

func (l level) String() string { return levelNames[l] }

func (l level) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

type finding struct {
	Level   level  `json:"level"`
	Message string `json:"message"`
}

// check is one section of the doctor report. Facts hold what a script
// would want to read back, such as the Chrome path.
type check struct {
	Name     string            `json:"name"`
	Facts    map[string]string `json:"facts,omitempty"`
	Findings []finding         `json:"findings"`
}

func (c *check) add(l level, format string, args ...any) {
	c.Findings = append(c.Findings, finding{Level: l, Message: fmt.Sprintf(format, args...)})
}

func (c *check) fact(key, value string) {
	if c.Facts == nil {
		c.Facts = make(map[string]string)
	}
	c.Facts[key] = value
}

func (c *check) worst() level {
	w := levelOK
	for _, f := range c.Findings {
		w = max(w, f.Level)
	}
	return w
}

// doctorReport is the outcome of every check. Status is "ready",
// "warnings" or "errors".
type doctorReport struct {
	Status string  `json:"status"`
	Checks []check `json:"checks"`
}

// runDoctorCmd prints the report and exits 1 when anything would stop a
// conversion. Warnings alone still exit 0.
func runDoctorCmd(args []string, env *Environment) int {
	report := runDoctor(env.LookupEnv)

	if slices.Contains(args, "--json") {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printDoctorReport(env.Stdout, report)
	}

	if report.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

func runDoctor(lookup func(string) (string, bool)) *doctorReport {
	bin, _ := lookup("ROD_BROWSER_BIN")
	mmdc, _ := lookup(envPrefix + "MMDC")

	report := &doctorReport{Checks: []check{
		checkChrome(bin),
		checkMermaid(mmdc),
		checkPlatform(),
		checkTempDir(),
	}}

	worst := levelOK
	for i := range report.Checks {
		worst = max(worst, report.Checks[i].worst())
	}
	report.Status = [...]string{"ready", "warnings", "errors"}[worst]
	return report
}

// checkChrome finds the browser the converter will launch: bin when set,
// otherwise whatever rod's launcher locates.
func checkChrome(bin string) check {
	c := check{Name: "Chrome/Chromium"}
	if bin == "" {
		found, ok := launcher.LookPath()
		if !ok {
			c.add(levelError, "not found, install Chrome or set ROD_BROWSER_BIN")
			return c
		}
		bin = found
	}
	if _, err := os.Stat(bin); err != nil {
		c.add(levelError, "not found at %s", bin)
		return c
	}
	c.fact("path", bin)
	c.add(levelOK, "found at %s", bin)

	if v, err := queryVersion(bin); err != nil {
		c.add(levelWarn, "could not read the version: %v", err)
	} else {
		c.fact("version", v)
		c.add(levelOK, "version %s", v)
	}

	if off, why := hints.SandboxOff(); off {
		c.fact("sandbox", "off")
		c.add(levelOK, "sandbox off (%s)", why)
	} else {
		c.fact("sandbox", "on")
		c.add(levelOK, "sandbox on")
	}
	return c
}

// checkMermaid looks for the first word of command on PATH. Without it
// diagrams become text summaries, so a miss is only a warning.
func checkMermaid(command string) check {
	c := check{Name: "Mermaid CLI"}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		command = diagram.DefaultCommand
		fields = []string{command}
	}
	c.fact("command", command)

	bin, err := exec.LookPath(fields[0])
	if err != nil {
		c.add(levelWarn, "%s not found, diagrams will be rendered as text", command)
		return c
	}
	c.fact("path", bin)
	c.add(levelOK, "found at %s", bin)

	if v, err := queryVersion(bin); err != nil {
		c.add(levelWarn, "could not read the version: %v", err)
	} else {
		c.fact("version", v)
		c.add(levelOK, "version %s", v)
	}
	return c
}

// queryVersion returns the trimmed output of "bin --version".
func queryVersion(bin string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), versionCheckTimeout)
	defer cancel()

	out, err := process.Command(ctx, bin, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func checkPlatform() check {
	c := check{Name: "Environment"}
	c.fact("os", runtime.GOOS)
	c.fact("arch", runtime.GOARCH)
	c.add(levelOK, "platform %s/%s", runtime.GOOS, runtime.GOARCH)

	if ok, signal := hints.Container(); ok {
		c.fact("container", signal)
		c.add(levelOK, "container detected (%s)", signal)
	}
	if hints.InCI() {
		c.fact("ci", "true")
		c.add(levelOK, "CI detected")
	}
	return c
}

// checkTempDir writes and removes a scratch file the way diagram renders
// and page prints do.
func checkTempDir() check {
	c := check{Name: "System"}
	s, err := fileutil.NewScratch("doctor")
	if err != nil {
		c.add(levelError, "temp directory %s not writable: %v", os.TempDir(), err)
		return c
	}
	defer func() { _ = s.Close() }()

	if _, err := s.WriteFile("writable.txt", "ok"); err != nil {
		c.add(levelError, "temp directory %s not writable: %v", os.TempDir(), err)
		return c
	}
	c.add(levelOK, "temp directory writable")
	return c
}

func printDoctorReport(w io.Writer, r *doctorReport) {
	fmt.Fprint(w, "mdpress doctor\n\n")
	for _, c := range r.Checks {
		fmt.Fprintln(w, c.Name)
		for _, f := range c.Findings {
			fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(f.Level.String()), f.Message)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to convert")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	default:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
