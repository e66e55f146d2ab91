package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"closetrent/internal/common"
	"closetrent/internal/models"
	"closetrent/internal/services"
	"closetrent/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ClothesHandlers handles HTTP requests for the inventory
type ClothesHandlers struct {
	clothesService services.ClothesService
	publicURL      string
	maxUploadSize  int64
	log            *logrus.Entry
}

// NewClothesHandlers creates a new clothes handlers instance
func NewClothesHandlers(clothesService services.ClothesService, publicURL string, maxUploadSize int64) *ClothesHandlers {
	return &ClothesHandlers{
		clothesService: clothesService,
		publicURL:      publicURL,
		maxUploadSize:  maxUploadSize,
		log:            logger.WithComponent("clothes_handlers"),
	}
}

// Register mounts the inventory routes on g.
func (h *ClothesHandlers) Register(g *echo.Group) {
	g.GET("", h.ListClothes)
	g.POST("", h.CreateClothes)
	g.GET("/:id", h.GetClothesDetail)
	g.PUT("/:id", h.UpdateClothes)
	g.DELETE("/:id", h.DeleteClothes)
}

// ListClothes handles GET /api/clothes
//
//	@Summary	List inventory items, newest first
//	@Tags		clothes
//	@Produce	json
//	@Success	200	{array}	models.Clothes
//	@Router		/api/clothes [get]
func (h *ClothesHandlers) ListClothes(c echo.Context) error {
	clothes, err := h.clothesService.List(c.Request().Context())
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, clothes)
}

// CreateClothes handles POST /api/clothes
//
//	@Summary	Add an inventory item with its image
//	@Tags		clothes
//	@Accept		mpfd
//	@Produce	json
//	@Param		name		formData	string	true	"Item name"
//	@Param		ownerName	formData	string	false	"Owner"
//	@Param		rentalPrice	formData	number	false	"Rental price"
//	@Param		description	formData	string	false	"Description"
//	@Param		status		formData	string	false	"available or rented"
//	@Param		image		formData	file	true	"Item image"
//	@Success	201	{object}	models.Clothes
//	@Failure	400	{object}	common.ErrorResponse
//	@Router		/api/clothes [post]
func (h *ClothesHandlers) CreateClothes(c echo.Context) error {
	input := &models.CreateClothesInput{
		Name:        strings.TrimSpace(c.FormValue("name")),
		OwnerName:   strings.TrimSpace(c.FormValue("ownerName")),
		Description: c.FormValue("description"),
		Status:      strings.TrimSpace(c.FormValue("status")),
	}
	if raw, ok := formValue(c, "rentalPrice"); ok && strings.TrimSpace(raw) != "" {
		price, err := parsePrice(raw)
		if err != nil {
			return common.SendError(c, h.log, err)
		}
		input.RentalPrice = price
	}

	image, err := readImageUpload(c, "image", h.maxUploadSize)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	defer image.Close()

	clothes, err := h.clothesService.Create(c.Request().Context(), input, image.Upload())
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, clothes.WithAbsoluteImage(h.publicURL))
}

// UpdateClothes handles PUT /api/clothes/:id
//
//	@Summary	Update an inventory item, optionally replacing its image
//	@Tags		clothes
//	@Accept		mpfd
//	@Produce	json
//	@Param		id	path	string	true	"Clothes ID"
//	@Success	200	{object}	models.Clothes
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/clothes/{id} [put]
func (h *ClothesHandlers) UpdateClothes(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "clothes")
	if err != nil {
		return common.SendError(c, h.log, err)
	}

	input := &models.UpdateClothesInput{}
	if v, ok := formValue(c, "name"); ok {
		v = strings.TrimSpace(v)
		input.Name = &v
	}
	if v, ok := formValue(c, "ownerName"); ok {
		v = strings.TrimSpace(v)
		input.OwnerName = &v
	}
	if v, ok := formValue(c, "description"); ok {
		input.Description = &v
	}
	if v, ok := formValue(c, "status"); ok && strings.TrimSpace(v) != "" {
		v = strings.TrimSpace(v)
		input.Status = &v
	}
	if v, ok := formValue(c, "rentalPrice"); ok && strings.TrimSpace(v) != "" {
		price, err := parsePrice(v)
		if err != nil {
			return common.SendError(c, h.log, err)
		}
		input.RentalPrice = &price
	}

	image, err := readImageUpload(c, "image", h.maxUploadSize)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	defer image.Close()

	clothes, err := h.clothesService.Update(c.Request().Context(), id, input, image.Upload())
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, clothes)
}

// DeleteClothes handles DELETE /api/clothes/:id
//
//	@Summary	Delete an inventory item
//	@Tags		clothes
//	@Param		id	path	string	true	"Clothes ID"
//	@Success	200	{object}	common.MessageResponse
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/clothes/{id} [delete]
func (h *ClothesHandlers) DeleteClothes(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "clothes")
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	if err := h.clothesService.Delete(c.Request().Context(), id); err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, common.MessageResponse{Message: "Clothes deleted successfully"})
}

// GetClothesDetail handles GET /api/clothes/:id
//
//	@Summary	Get the display view of an inventory item
//	@Tags		clothes
//	@Produce	json
//	@Param		id	path	string	true	"Clothes ID"
//	@Success	200	{object}	models.ClothesDetail
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/clothes/{id} [get]
func (h *ClothesHandlers) GetClothesDetail(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "clothes")
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	detail, err := h.clothesService.Detail(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, common.NewFieldValidationError("rentalPrice", "rentalPrice must be a number")
	}
	return price, nil
}
