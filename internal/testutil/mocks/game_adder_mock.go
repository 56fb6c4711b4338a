package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/bggcollect/internal/models"
)

// MockGameAdder is a mock implementation of loader.GameAdder
type MockGameAdder struct {
	mock.Mock
}

func (m *MockGameAdder) AddGame(data models.ItemData) error {
	args := m.Called(data)
	return args.Error(0)
}

// Added returns the ItemData of every AddGame call, in call order.
func (m *MockGameAdder) Added() []models.ItemData {
	var out []models.ItemData
	for _, c := range m.Calls {
		if c.Method == "AddGame" {
			out = append(out, c.Arguments.Get(0).(models.ItemData))
		}
	}
	return out
}
