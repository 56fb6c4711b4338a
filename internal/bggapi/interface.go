package bggapi

import (
	"context"

	"github.com/beevik/etree"
)

// ClientInterface defines the BGG API operations the services depend on.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	FetchCollection(ctx context.Context, q CollectionQuery) (*etree.Document, error)
}

// Ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)
