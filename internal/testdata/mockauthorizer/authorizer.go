package mockauthorizer

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type Authorizer struct {
	mock.Mock
}

func (m *Authorizer) Authorize(ctx context.Context, workspaceID string) error {
	args := m.Called(ctx, workspaceID)
	return args.Error(0)
}
