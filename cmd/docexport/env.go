package main

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	docexport "github.com/alnah/go-docexport"
)

// PoolFactory builds the exporter pool once options are resolved.
type PoolFactory func(size int, opts ...docexport.Option) (Pool, error)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, logging, and exporter pool construction.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *log.Logger // nil until flags are parsed
	NewPool PoolFactory
}

// DefaultEnv returns the production environment backed by headless Chrome.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		NewPool: newExporterPool,
	}
}

// logger returns env.Logger, or a discarding logger before flags are parsed.
func (env *Environment) logger() *log.Logger {
	if env.Logger == nil {
		return log.New(io.Discard)
	}
	return env.Logger
}
