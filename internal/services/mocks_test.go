package services

import (
	"context"
	"time"

	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClothesRepository struct {
	mock.Mock
}

func (m *MockClothesRepository) Create(ctx context.Context, clothes *models.Clothes) error {
	args := m.Called(ctx, clothes)
	return args.Error(0)
}

func (m *MockClothesRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clothes), args.Error(1)
}

func (m *MockClothesRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Clothes, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.Clothes), args.Error(1)
}

func (m *MockClothesRepository) Update(ctx context.Context, clothes *models.Clothes) error {
	args := m.Called(ctx, clothes)
	return args.Error(0)
}

func (m *MockClothesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClothesRepository) List(ctx context.Context) ([]*models.Clothes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clothes), args.Error(1)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, order *models.RentalOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockRentalRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalOrder), args.Error(1)
}

func (m *MockRentalRepository) List(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalOrder), args.Error(1)
}

func (m *MockRentalRepository) ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalOrder), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetClothes(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clothes), args.Error(1)
}

func (m *MockCacheService) SetClothes(ctx context.Context, clothes *models.Clothes, ttl time.Duration) error {
	args := m.Called(ctx, clothes, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteClothes(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCacheService) GetClothesList(ctx context.Context) ([]*models.Clothes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clothes), args.Error(1)
}

func (m *MockCacheService) SetClothesList(ctx context.Context, clothes []*models.Clothes, ttl time.Duration) error {
	args := m.Called(ctx, clothes, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateClothesList(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) Save(ctx context.Context, namespace string, upload *models.FileUpload) (string, error) {
	args := m.Called(ctx, namespace, upload)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, mediaPath string) error {
	args := m.Called(ctx, mediaPath)
	return args.Error(0)
}

func (m *MockMediaStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockMediaStore) Backend() string {
	return "mock"
}
