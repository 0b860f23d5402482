// Package yamlutil is the single importer of the YAML library.
// Config files go through DecodeStrict so misspelled keys surface as errors
// with a line and column instead of being silently ignored.
package yamlutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// MaxInputSize bounds accepted documents. Config files are a few hundred bytes.
var MaxInputSize = 1 << 20

var (
	ErrEmptyDocument  = errors.New("yamlutil: empty document")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrMultipleDocs   = errors.New("yamlutil: expected a single document")
)

// DecodeStrict decodes exactly one YAML document into v. Unknown keys are
// rejected. Syntax errors are rendered with their source position.
func DecodeStrict(data []byte, v any) error {
	if v == nil {
		return ErrNilDestination
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyDocument
		}
		return fmt.Errorf("yamlutil: %s", yaml.FormatError(err, false, true))
	}

	var extra any
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return ErrMultipleDocs
	}
	return nil
}
