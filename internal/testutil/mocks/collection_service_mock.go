package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vytor/bggcollect/internal/models"
	"github.com/vytor/bggcollect/internal/services"
)

// MockCollectionService is a mock implementation of services.CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) Collection(ctx context.Context, username string, opts services.CollectionOptions) (*models.Collection, error) {
	args := m.Called(ctx, username, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}
