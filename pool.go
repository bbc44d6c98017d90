package docexport

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing bounds.
const (
	MinPoolSize = 1
	MaxPoolSize = 8 // each exporter may own a browser of ~200MB

	cpuDivisor = 2 // headroom for Chrome child processes
)

// ExporterPool hands out Exporters for parallel conversion. Each Exporter
// owns its own browser, so PDF output runs truly in parallel. The first
// Exporter is built eagerly to validate the options; the others are cloned
// from it on demand.
type ExporterPool struct {
	size int
	idle chan *Exporter

	mu     sync.Mutex
	all    []*Exporter
	closed bool
}

// NewExporterPool creates a pool of up to n Exporters built from opts.
// n below 1 is treated as 1.
func NewExporterPool(n int, opts ...Option) (*ExporterPool, error) {
	n = max(n, MinPoolSize)

	first, err := NewExporter(opts...)
	if err != nil {
		return nil, err
	}

	p := &ExporterPool{
		size: n,
		idle: make(chan *Exporter, n),
		all:  []*Exporter{first},
	}
	p.idle <- first
	return p, nil
}

// Acquire returns an idle Exporter, clones a new one while the pool is
// below capacity, or blocks until one is released.
func (p *ExporterPool) Acquire() *Exporter {
	select {
	case e := <-p.idle:
		return e
	default:
	}

	p.mu.Lock()
	if len(p.all) < p.size {
		e := p.all[0].clone()
		p.all = append(p.all, e)
		p.mu.Unlock()
		return e
	}
	p.mu.Unlock()

	return <-p.idle
}

// Release returns e to the pool. It is a no-op after Close.
func (p *ExporterPool) Release(e *Exporter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	// Never blocks: idle holds size slots and at most size Exporters exist.
	p.idle <- e
}

// Close shuts down every Exporter the pool created and joins their errors.
func (p *ExporterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.idle)
	all := p.all
	p.mu.Unlock()

	var errs []error
	for _, e := range all {
		if err := e.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ExporterPool) Size() int {
	return p.size
}

// ResolvePoolSize returns workers when positive, otherwise half of
// GOMAXPROCS clamped to [MinPoolSize, MaxPoolSize]. GOMAXPROCS already
// reflects container CPU quotas once automaxprocs has run.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}
	return min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)
}
