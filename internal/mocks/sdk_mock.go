package mocks

import (
	"context"

	"github.com/SimpnicServerTeam/line-profile-viewer/internal/models"
	"github.com/SimpnicServerTeam/line-profile-viewer/internal/sdk"
	"github.com/stretchr/testify/mock"
)

// MockSDK is a mock implementation of the sdk.SDK interface.
type MockSDK struct {
	mock.Mock
}

func (m *MockSDK) Init(ctx context.Context, cfg sdk.Config) (sdk.Client, error) {
	args := m.Called(ctx, cfg)
	client, _ := args.Get(0).(sdk.Client) // Handle nil return
	return client, args.Error(1)
}

// MockClient is a mock implementation of the sdk.Client interface (the SDK handle).
type MockClient struct {
	mock.Mock
}

func (m *MockClient) IsLoggedIn() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockClient) Login() {
	m.Called()
}

func (m *MockClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	args := m.Called(ctx)
	profile, _ := args.Get(0).(*models.Profile)
	return profile, args.Error(1)
}
