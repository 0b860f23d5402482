package main

import (
	"io"
	"os"
	"time"

	mdpress "github.com/alnah/go-mdpress"
)

// Environment is what the commands read from and write to the outside
// world. Tests swap every field.
type Environment struct {
	Now       func() time.Time
	Stdout    io.Writer
	Stderr    io.Writer
	LookupEnv func(key string) (string, bool)
	Environ   func() []string
	NewPool   func(size int, opts ...mdpress.Option) Pool
}

// DefaultEnv is the process environment with browser-backed pools.
func DefaultEnv() *Environment {
	return &Environment{
		Now:       time.Now,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		LookupEnv: os.LookupEnv,
		Environ:   os.Environ,
		NewPool:   newConverterPool,
	}
}
