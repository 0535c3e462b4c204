package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tratativas/internal/model"
	"tratativas/internal/service"
)

type MockTratativaService struct {
	mock.Mock
}

func (m *MockTratativaService) Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tratativa), args.Error(1)
}

func (m *MockTratativaService) List(ctx context.Context, limit, offset int) (*service.TratativaListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TratativaListResult), args.Error(1)
}

func (m *MockTratativaService) ListPending(ctx context.Context, limit, offset int) (*service.TratativaListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TratativaListResult), args.Error(1)
}

func (m *MockTratativaService) Get(ctx context.Context, id string) (*model.Tratativa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tratativa), args.Error(1)
}

func (m *MockTratativaService) GenerateDocument(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
