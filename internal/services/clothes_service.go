package services

import (
	"context"
	"time"

	"closetrent/internal/caching"
	"closetrent/internal/common"
	"closetrent/internal/models"
	"closetrent/internal/repositories"
	"closetrent/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type ClothesService interface {
	List(ctx context.Context) ([]*models.Clothes, error)
	Create(ctx context.Context, input *models.CreateClothesInput, image *models.FileUpload) (*models.Clothes, error)
	Update(ctx context.Context, id uuid.UUID, input *models.UpdateClothesInput, image *models.FileUpload) (*models.Clothes, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error)
	Detail(ctx context.Context, id uuid.UUID) (*models.ClothesDetail, error)
}

type clothesService struct {
	clothesRepo  repositories.ClothesRepository
	media        MediaStore
	cacheService caching.CacheService
	cacheTTL     time.Duration
	log          *logrus.Entry
}

func NewClothesService(clothesRepo repositories.ClothesRepository, media MediaStore, cacheService caching.CacheService, cacheTTL time.Duration) ClothesService {
	return &clothesService{
		clothesRepo:  clothesRepo,
		media:        media,
		cacheService: cacheService,
		cacheTTL:     cacheTTL,
		log:          logger.WithComponent("clothes_service"),
	}
}

// storageFailure passes lookup errors through and wraps everything else as
// a storage error.
func storageFailure(op string, err error) error {
	if common.IsNotFoundError(err) || common.IsValidationError(err) {
		return err
	}
	return common.NewStorageError(op, err)
}

func (s *clothesService) List(ctx context.Context) ([]*models.Clothes, error) {
	if cached, err := s.cacheService.GetClothesList(ctx); cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).Warn("Cache error for clothes list")
	}

	clothes, err := s.clothesRepo.List(ctx)
	if err != nil {
		return nil, storageFailure("list clothes", err)
	}

	if cacheErr := s.cacheService.SetClothesList(ctx, clothes, s.cacheTTL); cacheErr != nil {
		s.log.WithError(cacheErr).Warn("Failed to cache clothes list")
	}
	return clothes, nil
}

func (s *clothesService) Create(ctx context.Context, input *models.CreateClothesInput, image *models.FileUpload) (*models.Clothes, error) {
	if image == nil {
		return nil, common.NewFieldValidationError("image", "image file is required")
	}
	if err := common.ValidateStruct(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = models.ClothesStatusAvailable
	}

	imagePath, err := s.media.Save(ctx, NamespaceClothes, image)
	if err != nil {
		return nil, common.NewStorageError("store clothes image", err)
	}

	clothes := &models.Clothes{
		ID:          uuid.New(),
		Name:        input.Name,
		OwnerName:   input.OwnerName,
		RentalPrice: input.RentalPrice,
		Description: input.Description,
		Status:      status,
		Image:       imagePath,
	}

	if err := s.clothesRepo.Create(ctx, clothes); err != nil {
		s.discardMedia(ctx, imagePath, "create failed")
		return nil, storageFailure("create clothes", err)
	}

	s.invalidate(ctx, uuid.Nil)
	s.log.WithFields(logrus.Fields{"clothes_id": clothes.ID, "image": clothes.Image}).Info("Clothes created")
	return clothes, nil
}

// Update applies the supplied fields. With a new image the new file is
// stored first, the row updated next, and only then the old file removed, so
// the row always references a file that exists.
func (s *clothesService) Update(ctx context.Context, id uuid.UUID, input *models.UpdateClothesInput, image *models.FileUpload) (*models.Clothes, error) {
	if err := common.ValidateStruct(input); err != nil {
		return nil, err
	}

	clothes, err := s.clothesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure("get clothes", err)
	}

	input.Apply(clothes)
	oldImage := clothes.Image

	var newImage string
	if image != nil {
		newImage, err = s.media.Save(ctx, NamespaceClothes, image)
		if err != nil {
			return nil, common.NewStorageError("store clothes image", err)
		}
		clothes.Image = newImage
	}

	if err := s.clothesRepo.Update(ctx, clothes); err != nil {
		if newImage != "" {
			s.discardMedia(ctx, newImage, "update failed")
		}
		return nil, storageFailure("update clothes", err)
	}

	if newImage != "" && oldImage != "" && oldImage != newImage {
		if delErr := s.media.Delete(ctx, oldImage); delErr != nil {
			s.log.WithError(delErr).WithField("image", oldImage).Warn("Failed to delete replaced clothes image")
		}
	}

	s.invalidate(ctx, id)
	return clothes, nil
}

// Delete removes the row only. The image file is left in place.
func (s *clothesService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.clothesRepo.Delete(ctx, id); err != nil {
		return storageFailure("delete clothes", err)
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *clothesService) GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	if cached, err := s.cacheService.GetClothes(ctx, id); cached != nil {
		return cached, nil
	} else if err != nil {
		s.log.WithError(err).WithField("clothes_id", id).Warn("Cache error for clothes")
	}

	clothes, err := s.clothesRepo.GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure("get clothes", err)
	}

	if cacheErr := s.cacheService.SetClothes(ctx, clothes, s.cacheTTL); cacheErr != nil {
		s.log.WithError(cacheErr).WithField("clothes_id", id).Warn("Failed to cache clothes")
	}
	return clothes, nil
}

func (s *clothesService) Detail(ctx context.Context, id uuid.UUID) (*models.ClothesDetail, error) {
	clothes, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return clothes.Detail(), nil
}

func (s *clothesService) invalidate(ctx context.Context, id uuid.UUID) {
	if id != uuid.Nil {
		if err := s.cacheService.DeleteClothes(ctx, id); err != nil {
			s.log.WithError(err).WithField("clothes_id", id).Warn("Failed to invalidate clothes cache")
		}
	}
	if err := s.cacheService.InvalidateClothesList(ctx); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate clothes list cache")
	}
}

// discardMedia deletes a file stored earlier in a failed operation. It runs
// even if the request context was cancelled.
func (s *clothesService) discardMedia(ctx context.Context, mediaPath, reason string) {
	if err := s.media.Delete(context.WithoutCancel(ctx), mediaPath); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"image": mediaPath, "reason": reason}).Error("Failed to delete orphaned upload")
	}
}
