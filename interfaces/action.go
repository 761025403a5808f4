package interfaces

import "context"

type ActionRunner interface {
	// Run executes the command once and returns its combined output.
	Run(ctx context.Context, action string) (string, error)
}
