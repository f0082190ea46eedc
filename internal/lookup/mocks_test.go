package lookup

import (
	"context"

	"github.com/stretchr/testify/mock"

	"obsdb/internal/field"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Resolve(ctx context.Context, name, callback string) (*Result, error) {
	args := m.Called(ctx, name, callback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Result), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type mockFieldSearcher struct {
	mock.Mock
}

func (m *mockFieldSearcher) Search(ctx context.Context, ra, dec, radius float64, limit, offset int) ([]field.Field, int, error) {
	args := m.Called(ctx, ra, dec, radius, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]field.Field), args.Int(1), args.Error(2)
}
