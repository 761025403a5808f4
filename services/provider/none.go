package provider

import (
	"context"

	sleepererrors "github.com/customeros/sleeper/internal/errors"
)

// NoProvider stands in when no provider was configured. Every check fails.
type NoProvider struct{}

func (NoProvider) Name() string {
	return NameNone
}

func (NoProvider) Check(context.Context) (bool, error) {
	return false, sleepererrors.Configuration("provider", sleepererrors.ErrNoProvider)
}
