package syringe

import (
	"context"
	"sync"
)

// Disposable is implemented by instances that hold resources.
// A container closes the Disposable instances it built when it is disposed.
//
// Example:
//
//	type DatabaseConnection struct {
//	    conn *sql.DB
//	}
//
//	func (dc *DatabaseConnection) Close() error {
//	    return dc.conn.Close()
//	}
type Disposable interface {
	Close() error
}

// DisposableWithContext allows disposal with context for graceful shutdown.
// Implementations should respect context cancellation.
type DisposableWithContext interface {
	Close(ctx context.Context) error
}

// lifecycleManager tracks disposable instances built by a container
type lifecycleManager struct {
	disposables []any
	mu          sync.Mutex
}

// newLifecycleManager creates a new lifecycle manager
func newLifecycleManager() *lifecycleManager {
	return &lifecycleManager{}
}

// track records the instance when it can be disposed and reports whether it did
func (m *lifecycleManager) track(instance any) bool {
	switch instance.(type) {
	case Disposable, DisposableWithContext:
		m.mu.Lock()
		defer m.mu.Unlock()
		m.disposables = append(m.disposables, instance)
		return true
	}
	return false
}

// untrack forgets the most recent record of instance
func (m *lifecycleManager) untrack(instance any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.disposables) - 1; i >= 0; i-- {
		if sameInstance(m.disposables[i], instance) {
			m.disposables = append(m.disposables[:i], m.disposables[i+1:]...)
			return
		}
	}
}

// len returns the number of tracked instances
func (m *lifecycleManager) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.disposables)
}

// dispose closes all tracked instances in reverse order and returns every failure
func (m *lifecycleManager) dispose(ctx context.Context) []error {
	m.mu.Lock()
	disposables := m.disposables
	m.disposables = nil
	m.mu.Unlock()

	var errs []error

	// Dispose in reverse order (LIFO)
	for i := len(disposables) - 1; i >= 0; i-- {
		var err error
		switch d := disposables[i].(type) {
		case DisposableWithContext:
			err = d.Close(ctx)
		case Disposable:
			err = d.Close()
		}

		if err != nil {
			errs = append(errs, err)
		}
	}

	return errs
}

// clear removes all tracked instances without disposing them
func (m *lifecycleManager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposables = nil
}
