// Package assets holds the stylesheets applied to rendered documents.
//
// Every document starts from the house style. A named style is layered on top
// of it, so a style only declares what it changes. Names resolve against an
// optional style directory first, then against the styles compiled into the
// binary:
//
//	{dir}/
//	└── styles/
//	    └── {name}.css
package assets

import (
	"errors"
	"fmt"
)

// HouseStyleName is the base style every document is rendered with.
const HouseStyleName = "house"

var (
	ErrStyleNotFound = errors.New("style not found")
	// No file can carry an invalid name, so it is also a missing style.
	ErrInvalidStyleName = fmt.Errorf("%w: invalid name", ErrStyleNotFound)
	ErrInvalidStyleDir  = errors.New("invalid style directory")
	ErrStyleRead        = errors.New("failed to read style")
)

// Loader returns the CSS text of a named style.
type Loader interface {
	LoadStyle(name string) (string, error)
}

// ValidateName accepts names usable as a bare file stem: ASCII letters,
// digits, '-' and '_'. Anything else, including dots and separators, is
// rejected before a file is ever opened.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidStyleName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidStyleName, name)
		}
	}
	return nil
}

// HouseStyle returns the embedded base stylesheet.
func HouseStyle() string {
	css, err := Embedded{}.LoadStyle(HouseStyleName)
	if err != nil {
		// Embedded at build time.
		panic("assets: house style missing: " + err.Error())
	}
	return css
}

// StyleNames lists the built-in style names in sorted order.
func StyleNames() []string {
	return Embedded{}.Names()
}
