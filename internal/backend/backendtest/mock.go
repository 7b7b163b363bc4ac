// Package backendtest provides a testify mock of backend.Client.
package backendtest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ykvlv/autopilot-dashboard/internal/domain"
)

// MockClient is a mock implementation of the backend.Client interface.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) FetchProfile(ctx context.Context, handle string) (domain.UserProfile, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(domain.UserProfile), args.Error(1)
}

func (m *MockClient) SetActive(ctx context.Context, handle string, active bool) error {
	args := m.Called(ctx, handle, active)
	return args.Error(0)
}

func (m *MockClient) SetFrequency(ctx context.Context, handle string, f domain.Frequency) error {
	args := m.Called(ctx, handle, f)
	return args.Error(0)
}

func (m *MockClient) ActivationURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
