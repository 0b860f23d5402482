package main

import (
	"context"

	mdpress "github.com/alnah/go-mdpress"
)

// CLIConverter converts one document.
type CLIConverter interface {
	Convert(ctx context.Context, input mdpress.Input) (*mdpress.ConvertResult, error)
}

var _ CLIConverter = (*mdpress.Converter)(nil)

// Pool lends converters to batch workers. Acquire returns the function
// that gives the converter back; call it exactly once.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, func(), error)
	Size() int
	Close() error
}

type converterPool struct {
	*mdpress.ConverterPool
}

var _ Pool = converterPool{}

// newConverterPool is the production Pool. Browsers start only when a
// worker first needs one.
func newConverterPool(size int, opts ...mdpress.Option) Pool {
	return converterPool{mdpress.NewConverterPool(size, opts...)}
}

func (p converterPool) Acquire(ctx context.Context) (CLIConverter, func(), error) {
	conv, err := p.ConverterPool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	return conv, func() { p.Release(conv) }, nil
}
