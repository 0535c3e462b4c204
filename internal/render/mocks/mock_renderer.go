package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, templateID, apiKey string, fields map[string]string) ([]byte, error) {
	args := m.Called(ctx, templateID, apiKey, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
