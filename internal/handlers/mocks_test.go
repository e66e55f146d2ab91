package handlers

import (
	"context"
	"time"

	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockClothesService struct {
	mock.Mock
}

func (m *MockClothesService) List(ctx context.Context) ([]*models.Clothes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clothes), args.Error(1)
}

func (m *MockClothesService) Create(ctx context.Context, input *models.CreateClothesInput, image *models.FileUpload) (*models.Clothes, error) {
	args := m.Called(ctx, input, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clothes), args.Error(1)
}

func (m *MockClothesService) Update(ctx context.Context, id uuid.UUID, input *models.UpdateClothesInput, image *models.FileUpload) (*models.Clothes, error) {
	args := m.Called(ctx, id, input, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clothes), args.Error(1)
}

func (m *MockClothesService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClothesService) GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Clothes), args.Error(1)
}

func (m *MockClothesService) Detail(ctx context.Context, id uuid.UUID) (*models.ClothesDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClothesDetail), args.Error(1)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) CreateRental(ctx context.Context, input *models.CreateRentalInput) (*models.RentalOrder, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalOrder), args.Error(1)
}

func (m *MockRentalService) GetRental(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalOrder), args.Error(1)
}

func (m *MockRentalService) ListRentals(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalOrder), args.Error(1)
}

func (m *MockRentalService) ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RentalOrder), args.Error(1)
}

type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) RentalSlip(ctx context.Context, rentalID uuid.UUID) ([]byte, error) {
	args := m.Called(ctx, rentalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockRentalRepository struct {
	mock.Mock
}

func (m *MockRentalRepository) Create(ctx context.Context, order *models.RentalOrder) error {
	return m.Called(ctx, order).Error(0)
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

type MockClothesRepository struct {
	mock.Mock
}

func (m *MockClothesRepository) Create(ctx context.Context, clothes *models.Clothes) error {
	return m.Called(ctx, clothes).Error(0)
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
	return m.Called(ctx, clothes).Error(0)
}

func (m *MockClothesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockClothesRepository) List(ctx context.Context) ([]*models.Clothes, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Clothes), args.Error(1)
}
