package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdpress "github.com/alnah/go-mdpress"
	"github.com/alnah/go-mdpress/internal/fileutil"
)

// Sentinel errors for planning a batch.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrPDFOutputForDir    = errors.New("a .pdf output path needs a single input file")
	ErrOutputCollision    = errors.New("two inputs would write the same PDF")
)

// sourceExtensions are the document extensions picked up in a directory.
var sourceExtensions = []string{".md", ".markdown"}

// job is one document to convert and the PDF it produces.
type job struct {
	Source string
	PDF    string
}

// HTML is where --html and --html-only write the intermediate page.
func (j job) HTML() string {
	return strings.TrimSuffix(j.PDF, filepath.Ext(j.PDF)) + ".html"
}

// planJobs lists the documents named by input and where their PDFs go.
//
// A file input gives one job. A directory is walked in lexical order,
// skipping hidden directories, and its layout is mirrored under output.
// An empty output puts each PDF next to its source; an output ending in
// .pdf is a file name and only valid for a file input.
func planJobs(input, output string) ([]job, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if !isSourceFile(input) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(input))
		}
		return []job{{Source: input, PDF: pdfPathFor(input, "", output)}}, nil
	}
	if isPDFPath(output) {
		return nil, fmt.Errorf("%w: %s is a directory", ErrPDFOutputForDir, input)
	}

	var jobs []job
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != input && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if isSourceFile(path) {
			jobs = append(jobs, job{Source: path, PDF: pdfPathFor(path, input, output)})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return jobs, checkCollisions(jobs)
}

// pdfPathFor maps a source under root to its PDF. root is empty for a
// single-file input.
func pdfPathFor(source, root, output string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source)) + ".pdf"
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(source), name)
	case isPDFPath(output):
		return output
	case root != "":
		if rel, err := filepath.Rel(root, filepath.Dir(source)); err == nil {
			return filepath.Join(output, rel, name)
		}
	}
	return filepath.Join(output, name)
}

// checkCollisions rejects plans in which two sources share a PDF, such as
// notes.md and notes.markdown in one directory.
func checkCollisions(jobs []job) error {
	owner := make(map[string]string, len(jobs))
	for _, j := range jobs {
		key := filepath.Clean(j.PDF)
		if prev, ok := owner[key]; ok {
			return fmt.Errorf("%w: %s and %s both map to %s", ErrOutputCollision, prev, j.Source, j.PDF)
		}
		owner[key] = j.Source
	}
	return nil
}

func isSourceFile(path string) bool {
	return fileutil.HasExtension(path, sourceExtensions...)
}

// isPDFPath reports whether path names a PDF file rather than a directory.
func isPDFPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// checkWorkers accepts 0 (one per CPU) up to mdpress.MaxPoolSize.
func checkWorkers(n int) error {
	switch {
	case n < 0:
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	case n > mdpress.MaxPoolSize:
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdpress.MaxPoolSize)
	}
	return nil
}
