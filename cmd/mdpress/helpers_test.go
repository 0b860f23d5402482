package main

// Notes:
// - Test helpers and fakes shared by the command tests.
// - mockPool and mockConverter stand in for browser-backed converters so
//   batch logic runs without Chrome.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mdpress "github.com/alnah/go-mdpress"
)

// ---------------------------------------------------------------------------
// Mock Implementations
// ---------------------------------------------------------------------------

// mockConverter records inputs and returns a fixed result.
type mockConverter struct {
	mu     sync.Mutex
	inputs []mdpress.Input
	result *mdpress.ConvertResult
	err    error
}

func (m *mockConverter) Convert(_ context.Context, input mdpress.Input) (*mdpress.ConvertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	res := &mdpress.ConvertResult{HTML: []byte("<html>mock</html>"), Encoding: "utf-8"}
	if !input.HTMLOnly {
		res.PDF = []byte("%PDF-1.4 mock")
	}
	return res, nil
}

func (m *mockConverter) calls() []mdpress.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdpress.Input(nil), m.inputs...)
}

// mockPool hands out a single shared converter and tracks how many are
// out at once.
type mockPool struct {
	mu         sync.Mutex
	conv       CLIConverter
	acquireErr error
	size       int
	opts       []mdpress.Option
	acquired   int
	released   int
	inUse      int
	peak       int
	closed     bool
}

func (p *mockPool) Acquire(context.Context) (CLIConverter, func(), error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.acquireErr != nil {
		return nil, nil, p.acquireErr
	}
	p.acquired++
	p.inUse++
	p.peak = max(p.peak, p.inUse)
	return p.conv, p.release, nil
}

func (p *mockPool) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
	p.inUse--
}

func (p *mockPool) Size() int {
	if p.size == 0 {
		return 1
	}
	return p.size
}

func (p *mockPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// fixedNow is the clock used by test environments.
var fixedNow = time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)

// testEnv returns an environment writing to buffers whose pool factory
// returns pool and records the requested size and options.
func testEnv(pool *mockPool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:       func() time.Time { return fixedNow },
		Stdout:    stdout,
		Stderr:    stderr,
		LookupEnv: func(string) (string, bool) { return "", false },
		Environ:   func() []string { return nil },
		NewPool: func(size int, opts ...mdpress.Option) Pool {
			pool.mu.Lock()
			defer pool.mu.Unlock()
			if pool.size == 0 {
				pool.size = size
			}
			pool.opts = opts
			return pool
		},
	}
	return env, stdout, stderr
}

// writeFile creates dir/name with content, making parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// mustParseFlags parses convert flags or fails the test.
func mustParseFlags(t *testing.T, args ...string) (*convertFlags, []string) {
	t.Helper()
	flags, positional, err := parseConvertFlags(args, io.Discard)
	if err != nil {
		t.Fatalf("parseConvertFlags(%v) error = %v", args, err)
	}
	return flags, positional
}
