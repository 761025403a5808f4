package interfaces

import (
	"context"
	"io"
)

// Provider answers whether the keyphrase has appeared in its data source.
type Provider interface {
	Name() string
	Check(ctx context.Context) (bool, error)
}

// Notifier is implemented by providers that can tell an operator where to send the trigger.
type Notifier interface {
	Notify(ctx context.Context, out io.Writer) error
}

// StatusReporter exposes provider specific fields for the status endpoint.
type StatusReporter interface {
	Status() map[string]string
}
