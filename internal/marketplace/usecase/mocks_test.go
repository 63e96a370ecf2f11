package usecase

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/driaaomar7-tech/maghrebcar/internal/marketplace/domain"
)

type MockAdRepository struct{ mock.Mock }

func (m *MockAdRepository) FindAll(ctx context.Context) ([]*domain.VehicleAd, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VehicleAd), args.Error(1)
}
func (m *MockAdRepository) Create(ctx context.Context, ad *domain.VehicleAd) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}
func (m *MockAdRepository) Update(ctx context.Context, ad *domain.VehicleAd) error {
	args := m.Called(ctx, ad)
	return args.Error(0)
}
func (m *MockAdRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProfileRepository struct{ mock.Mock }

func (m *MockProfileRepository) FindAll(ctx context.Context) ([]*domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Profile), args.Error(1)
}
func (m *MockProfileRepository) FindByID(ctx context.Context, id string) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}
func (m *MockProfileRepository) Create(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepository) Update(ctx context.Context, p *domain.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProfileRepository) UpdateFavorites(ctx context.Context, id string, favorites []int64) error {
	args := m.Called(ctx, id, favorites)
	return args.Error(0)
}

type MockFileStorage struct{ mock.Mock }

func (m *MockFileStorage) Upload(ctx context.Context, bucket, ownerID, filename string, data []byte) (string, error) {
	args := m.Called(ctx, bucket, ownerID, filename, data)
	return args.String(0), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockAuthGateway struct{ mock.Mock }

func (m *MockAuthGateway) SignOut(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// recordingAlerts captures alerts instead of logging them.
type recordingAlerts struct {
	mu       sync.Mutex
	messages []string
}

func (a *recordingAlerts) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

func (a *recordingAlerts) all() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.messages...)
}
