package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MediaStore struct {
	mock.Mock
}

func (m *MediaStore) Archive(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}
