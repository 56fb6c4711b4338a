package mocks

import (
	"context"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/mock"
	"github.com/vytor/bggcollect/internal/bggapi"
)

// MockBGGClient is a mock implementation of bggapi.ClientInterface
type MockBGGClient struct {
	mock.Mock
}

func (m *MockBGGClient) FetchCollection(ctx context.Context, q bggapi.CollectionQuery) (*etree.Document, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*etree.Document), args.Error(1)
}
