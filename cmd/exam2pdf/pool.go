package main

import (
	"context"
	"fmt"

	exam2pdf "github.com/alnah/go-exam2pdf"
)

// CLIBuilder is the interface the CLI needs from an exam builder.
type CLIBuilder interface {
	Build(ctx context.Context, input exam2pdf.Input) (*exam2pdf.BuildResult, error)
}

// Compile-time interface implementation check.
var _ CLIBuilder = (*exam2pdf.Builder)(nil)

// Pool abstracts builder pool operations for testability.
type Pool interface {
	Acquire() (CLIBuilder, error)
	Release(CLIBuilder)
	Size() int
}

// poolAdapter adapts *exam2pdf.BuilderPool to the Pool interface.
// The library pool hands out concrete *exam2pdf.Builder instances; the
// CLI works against CLIBuilder so tests can substitute mocks.
type poolAdapter struct {
	pool *exam2pdf.BuilderPool
}

// Compile-time check that poolAdapter implements Pool.
var _ Pool = (*poolAdapter)(nil)

// Acquire gets a builder from the underlying pool.
func (a *poolAdapter) Acquire() (CLIBuilder, error) {
	return a.pool.Acquire()
}

// Release returns a builder to the underlying pool.
// Panics if b is not *exam2pdf.Builder: the adapter only hands out
// builders from its own pool, so any other type is a programmer error.
func (a *poolAdapter) Release(b CLIBuilder) {
	builder, ok := b.(*exam2pdf.Builder)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", b))
	}
	a.pool.Release(builder)
}

// Size returns the underlying pool capacity.
func (a *poolAdapter) Size() int {
	return a.pool.Size()
}
