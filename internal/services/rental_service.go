package services

import (
	"context"
	"math"
	"strings"
	"time"

	"closetrent/internal/common"
	"closetrent/internal/metrics"
	"closetrent/internal/models"
	"closetrent/internal/repositories"
	"closetrent/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// totalTolerance is the largest accepted difference between the
	// client-side total and the recomputed one.
	totalTolerance = 0.01

	// MaxQuantity caps a single order line.
	MaxQuantity = 1000
	// maxOrderTotal is the largest total rental_orders.total_amount can hold.
	maxOrderTotal = 999999999999.99

	MsgMissingFields    = "missing required fields"
	MsgInvalidSelection = "invalid item selection"
	msgDateOrder        = "return date must not be before rent date"
	msgTotalMismatch    = "total amount does not match selected items"
)

type RentalService interface {
	CreateRental(ctx context.Context, input *models.CreateRentalInput) (*models.RentalOrder, error)
	GetRental(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	ListRentals(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error)
}

type rentalService struct {
	rentalRepo  repositories.RentalRepository
	clothesRepo repositories.ClothesRepository
	media       MediaStore
	log         *logrus.Entry
}

func NewRentalService(rentalRepo repositories.RentalRepository, clothesRepo repositories.ClothesRepository, media MediaStore) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		clothesRepo: clothesRepo,
		media:       media,
		log:         logger.WithComponent("rental_service"),
	}
}

// CreateRental validates the request, prices it from the inventory, stores
// the identity document and persists the order. If the order cannot be
// persisted the stored document is deleted again.
func (s *rentalService) CreateRental(ctx context.Context, input *models.CreateRentalInput) (*models.RentalOrder, error) {
	order, err := s.prepareOrder(ctx, input)
	if err != nil {
		if common.IsValidationError(err) {
			metrics.RentalsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.RentalsTotal.WithLabelValues("failed").Inc()
		}
		return nil, err
	}

	if input.IdentityDocument != nil {
		identityPath, err := s.media.Save(ctx, NamespaceIdentity, input.IdentityDocument)
		if err != nil {
			metrics.RentalsTotal.WithLabelValues("failed").Inc()
			return nil, common.NewStorageError("store identity document", err)
		}
		order.IdentityImage = identityPath
	}

	if err := s.rentalRepo.Create(ctx, order); err != nil {
		metrics.RentalsTotal.WithLabelValues("failed").Inc()
		if order.IdentityImage != "" {
			s.compensate(ctx, order.IdentityImage)
		}
		return nil, common.NewStorageError("create rental", err)
	}

	metrics.RentalsTotal.WithLabelValues("created").Inc()
	s.log.WithFields(logrus.Fields{
		"rental_id":    order.ID,
		"items":        len(order.Items),
		"total_amount": order.TotalAmount,
	}).Info("Rental created")
	return order, nil
}

// prepareOrder runs every check that must pass before a side effect happens
// and returns the priced order. The first violated rule wins.
func (s *rentalService) prepareOrder(ctx context.Context, input *models.CreateRentalInput) (*models.RentalOrder, error) {
	if input == nil || strings.TrimSpace(input.CustomerName) == "" || len(input.Items) == 0 ||
		input.RentDate == nil || input.ReturnDate == nil {
		return nil, common.NewValidationError(MsgMissingFields)
	}

	for _, sel := range input.Items {
		if strings.TrimSpace(sel.ClothesID) == "" || sel.Quantity < 1 || sel.Quantity > MaxQuantity {
			return nil, common.NewValidationError(MsgInvalidSelection)
		}
	}

	if input.ReturnDate.Before(*input.RentDate) {
		return nil, common.NewFieldValidationError("returnDate", msgDateOrder)
	}

	ids := make([]uuid.UUID, len(input.Items))
	unique := make([]uuid.UUID, 0, len(input.Items))
	seen := make(map[uuid.UUID]bool, len(input.Items))
	for i, sel := range input.Items {
		id, err := uuid.Parse(strings.TrimSpace(sel.ClothesID))
		if err != nil {
			return nil, common.NewValidationError(MsgInvalidSelection)
		}
		ids[i] = id
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	inventory, err := s.clothesRepo.GetByIDs(ctx, unique)
	if err != nil {
		return nil, common.NewStorageError("load selected clothes", err)
	}

	items := make([]models.RentalItem, len(input.Items))
	for i, sel := range input.Items {
		clothes, ok := inventory[ids[i]]
		if !ok {
			return nil, common.NewValidationError(MsgInvalidSelection)
		}
		items[i] = models.RentalItem{
			Position:  i,
			ClothesID: clothes.ID,
			Quantity:  sel.Quantity,
			UnitPrice: clothes.RentalPrice,
		}
	}

	total := ComputeTotal(items)
	if total > maxOrderTotal {
		return nil, common.NewValidationError(MsgInvalidSelection)
	}
	if input.TotalAmount != nil && math.Abs(*input.TotalAmount-total) > totalTolerance {
		s.log.WithFields(logrus.Fields{
			"submitted": *input.TotalAmount,
			"computed":  total,
		}).Info("Rejected rental with mismatched total")
		return nil, common.NewFieldValidationError("totalAmount", msgTotalMismatch)
	}

	return &models.RentalOrder{
		ID:           uuid.New(),
		CustomerName: strings.TrimSpace(input.CustomerName),
		Items:        items,
		RentDate:     *input.RentDate,
		ReturnDate:   *input.ReturnDate,
		IsPaid:       input.IsPaid,
		TotalAmount:  total,
	}, nil
}

// ComputeTotal returns the sum of unit price times quantity, rounded to cents.
func ComputeTotal(items []models.RentalItem) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return math.Round(total*100) / 100
}

// compensate removes an identity document whose order was never persisted.
func (s *rentalService) compensate(ctx context.Context, identityPath string) {
	entry := s.log.WithField("identity_image", identityPath)
	if err := s.media.Delete(context.WithoutCancel(ctx), identityPath); err != nil {
		entry.WithError(err).Error("Failed to delete identity document after rental failure")
		return
	}
	entry.Info("Deleted identity document after rental failure")
}

func (s *rentalService) GetRental(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	order, err := s.rentalRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure("get rental", err)
	}
	return order, nil
}

func (s *rentalService) ListRentals(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	orders, err := s.rentalRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, storageFailure("list rentals", err)
	}
	return orders, nil
}

func (s *rentalService) ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error) {
	orders, err := s.rentalRepo.ListOverdue(ctx, now)
	if err != nil {
		return nil, storageFailure("list overdue rentals", err)
	}
	return orders, nil
}
