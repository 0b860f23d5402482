package mdpress

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"golang.org/x/sync/semaphore"
)

const (
	MinPoolSize = 1
	// MaxPoolSize caps live browsers, each around 200MB.
	MaxPoolSize = 8

	// Half the CPUs, leaving room for Chrome and mermaid children.
	cpuDivisor = 2
)

// ErrPoolClosed is returned by Acquire after Close.
var ErrPoolClosed = errors.New("converter pool closed")

// ConverterPool lends out up to Size converters, each with its own browser.
// Converters are built on first demand and reused after Release, so a batch
// smaller than the pool never starts the extra browsers.
type ConverterPool struct {
	size    int
	opts    []Option
	newConv func(...Option) (*Converter, error)
	slots   *semaphore.Weighted

	mu     sync.Mutex
	idle   []*Converter
	built  []*Converter
	closed bool
}

// NewConverterPool returns a pool of at most n converters built with opts.
// n below 1 means 1.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	n = max(n, MinPoolSize)
	return &ConverterPool{
		size:    n,
		opts:    opts,
		newConv: NewConverter,
		slots:   semaphore.NewWeighted(int64(n)),
	}
}

// Acquire waits for a free slot, then hands out an idle converter or builds
// one. A failed build frees the slot. Waiting ends early with ctx's error.
func (p *ConverterPool) Acquire(ctx context.Context) (*Converter, error) {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.slots.Release(1)
		return nil, ErrPoolClosed
	}
	if n := len(p.idle); n > 0 {
		conv := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return conv, nil
	}
	p.mu.Unlock()

	conv, err := p.newConv(p.opts...)
	if err != nil {
		p.slots.Release(1)
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.slots.Release(1)
		return nil, errors.Join(ErrPoolClosed, conv.Close())
	}
	p.built = append(p.built, conv)
	return conv, nil
}

// Release hands conv back. After Close it only frees the slot, so waiters
// wake up and see ErrPoolClosed.
func (p *ConverterPool) Release(conv *Converter) {
	if conv == nil {
		return
	}
	p.mu.Lock()
	if !p.closed {
		p.idle = append(p.idle, conv)
	}
	p.mu.Unlock()
	p.slots.Release(1)
}

// Close shuts every browser the pool started, lent out or not, and joins
// their errors. Closing twice is a no-op.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	built := p.built
	p.built, p.idle = nil, nil
	p.mu.Unlock()

	var errs []error
	for _, conv := range built {
		errs = append(errs, conv.Close())
	}
	return errors.Join(errs...)
}

// Size is the most converters the pool will ever build.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize]. GOMAXPROCS follows the
// container CPU quota once automaxprocs has run.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}
