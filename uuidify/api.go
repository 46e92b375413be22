package uuidify

import (
	"context"
)

// API defines the interface for uuidify operations
type API interface {
	// Generate requests count identifiers of the given kind
	Generate(ctx context.Context, kind Kind, count int) (Result, error)

	// GenerateBatch runs several independent requests concurrently
	GenerateBatch(ctx context.Context, requests []Request) ([]Result, error)
}

var _ API = (*Client)(nil)
