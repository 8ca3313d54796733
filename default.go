package syringe

import "sync"

var (
	defaultOnce      sync.Once
	defaultContainer *Container
)

// Default returns the process-wide root container. It is created on first use
// with default options and lives for the rest of the process. Tests that share
// it should call Default().Reset() between cases.
func Default() *Container {
	defaultOnce.Do(func() {
		defaultContainer = New()
	})

	return defaultContainer
}
