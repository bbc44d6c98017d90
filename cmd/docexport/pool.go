package main

import (
	"context"
	"fmt"

	docexport "github.com/alnah/go-docexport"
)

// CLIExporter is the part of docexport.Exporter the batch needs.
type CLIExporter interface {
	Export(ctx context.Context, input docexport.Input) (*docexport.Result, error)
}

// Compile-time interface implementation check.
var _ CLIExporter = (*docexport.Exporter)(nil)

// Pool abstracts exporter pool operations for testability.
type Pool interface {
	Acquire() CLIExporter
	Release(CLIExporter)
	Size() int
	Close() error
}

// poolAdapter exposes a docexport.ExporterPool as a Pool.
type poolAdapter struct {
	pool *docexport.ExporterPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// newExporterPool is the production PoolFactory.
func newExporterPool(size int, opts ...docexport.Option) (Pool, error) {
	pool, err := docexport.NewExporterPool(size, opts...)
	if err != nil {
		return nil, err
	}
	return &poolAdapter{pool: pool}, nil
}

func (a *poolAdapter) Acquire() CLIExporter {
	return a.pool.Acquire()
}

// Release panics when handed an exporter this adapter did not produce.
func (a *poolAdapter) Release(e CLIExporter) {
	exp, ok := e.(*docexport.Exporter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", e))
	}
	a.pool.Release(exp)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
