package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tratativas/internal/model"
	"tratativas/internal/repository"
)

type MockTratativaRepository struct {
	mock.Mock
}

func (m *MockTratativaRepository) Create(ctx context.Context, t *model.Tratativa) (*model.Tratativa, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tratativa), args.Error(1)
}

func (m *MockTratativaRepository) FindByID(ctx context.Context, id string) (*model.Tratativa, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tratativa), args.Error(1)
}

func (m *MockTratativaRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Tratativa], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Tratativa]), args.Error(1)
}

func (m *MockTratativaRepository) ListPending(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Tratativa], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Tratativa]), args.Error(1)
}

func (m *MockTratativaRepository) SetDocumentURL(ctx context.Context, id, url string) (*model.Tratativa, error) {
	args := m.Called(ctx, id, url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tratativa), args.Error(1)
}
