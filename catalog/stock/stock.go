// Package stock reads and computes the available-copy counter of books.
//
// The Manager never writes. The counter is written by the circulation coordinator with a
// guarded compare-and-set in the same batch as the borrow records, so a value computed
// here is only persisted if nobody changed the counter in between.
package stock

import (
	"context"

	"github.com/AntonStoeckl/library-views-go/catalog"
)

// Reader is the part of the view store the Manager reads from.
type Reader interface {
	ReadAvailableCopies(ctx context.Context, isbn string) (int, bool, error)
}

// Manager reads stock counters and computes their next value on borrow and return.
type Manager struct {
	reader        Reader
	clampOnReturn bool
	logger        catalog.Logger
}

// Option defines a functional option for configuring a Manager.
type Option func(*Manager)

// WithoutClamp lets a return raise the counter above the book's total copies.
func WithoutClamp() Option {
	return func(m *Manager) {
		m.clampOnReturn = false
	}
}

// WithClampOnReturn sets whether a return is capped at the book's total copies.
func WithClampOnReturn(clamp bool) Option {
	return func(m *Manager) {
		m.clampOnReturn = clamp
	}
}

// WithLogger sets the logger for the Manager.
func WithLogger(logger catalog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager. Returns are clamped to total copies unless WithoutClamp is given.
func NewManager(reader Reader, options ...Option) *Manager {
	m := &Manager{
		reader:        reader,
		clampOnReturn: true,
	}

	for _, option := range options {
		option(m)
	}

	return m
}

// ReadAvailable reads the current counter. A missing book yields catalog.ErrNotFound.
func (m *Manager) ReadAvailable(ctx context.Context, isbn string) (int, error) {
	available, found, err := m.reader.ReadAvailableCopies(ctx, isbn)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, catalog.ErrNotFound
	}

	return available, nil
}

// ComputeNextOnBorrow returns current-1, or catalog.ErrInsufficientStock if no copy is left.
func (m *Manager) ComputeNextOnBorrow(current int) (int, error) {
	if current <= 0 {
		return 0, catalog.ErrInsufficientStock
	}

	return current - 1, nil
}

// ComputeNextOnReturn returns current+1, capped at total unless the Manager was built WithoutClamp.
func (m *Manager) ComputeNextOnReturn(current, total int) int {
	next := current + 1

	if m.clampOnReturn && next > total {
		if m.logger != nil {
			m.logger.Warn("stock clamped on return", "current", current, "total_copies", total)
		}

		return total
	}

	return next
}

// ClampsOnReturn reports the return policy.
func (m *Manager) ClampsOnReturn() bool {
	return m.clampOnReturn
}
