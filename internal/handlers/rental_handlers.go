package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"closetrent/internal/common"
	"closetrent/internal/models"
	"closetrent/internal/services"
	"closetrent/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RentalHandlers handles HTTP requests for rental orders
type RentalHandlers struct {
	rentalService  services.RentalService
	receiptService services.ReceiptService
	maxUploadSize  int64
	log            *logrus.Entry
}

// NewRentalHandlers creates a new rental handlers instance
func NewRentalHandlers(rentalService services.RentalService, receiptService services.ReceiptService, maxUploadSize int64) *RentalHandlers {
	return &RentalHandlers{
		rentalService:  rentalService,
		receiptService: receiptService,
		maxUploadSize:  maxUploadSize,
		log:            logger.WithComponent("rental_handlers"),
	}
}

// Register mounts the rental routes on g.
func (h *RentalHandlers) Register(g *echo.Group) {
	g.POST("", h.CreateRental)
	g.GET("", h.ListRentals)
	g.GET("/:id", h.GetRental)
	g.GET("/:id/slip", h.GetRentalSlip)
}

// CreateRental handles POST /api/rentals
//
//	@Summary	Create a rental order
//	@Tags		rentals
//	@Accept		mpfd
//	@Produce	json
//	@Param		customerName	formData	string	true	"Customer name"
//	@Param		clothesIds		formData	string	true	"JSON array of clothes ids"
//	@Param		quantities		formData	string	true	"JSON array of quantities, same length as clothesIds"
//	@Param		rentDate		formData	string	true	"RFC3339 timestamp or YYYY-MM-DD"
//	@Param		returnDate		formData	string	true	"RFC3339 timestamp or YYYY-MM-DD"
//	@Param		isPaid			formData	boolean	false	"Paid flag"
//	@Param		totalAmount		formData	number	false	"Client-side total"
//	@Param		identityCard	formData	file	false	"Identity document image"
//	@Success	201	{object}	models.RentalOrder
//	@Failure	400	{object}	common.ErrorResponse
//	@Failure	500	{object}	common.ErrorResponse
//	@Router		/api/rentals [post]
func (h *RentalHandlers) CreateRental(c echo.Context) error {
	form, err := c.FormParams()
	if err != nil {
		return common.SendError(c, h.log, common.NewValidationError("invalid form data"))
	}

	input, err := ParseRentalForm(form)
	if err != nil {
		return common.SendError(c, h.log, err)
	}

	identity, err := readImageUpload(c, "identityCard", h.maxUploadSize)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	defer identity.Close()
	input.IdentityDocument = identity.Upload()

	order, err := h.rentalService.CreateRental(c.Request().Context(), input)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListRentals handles GET /api/rentals
//
//	@Summary	List rental orders, newest first
//	@Tags		rentals
//	@Produce	json
//	@Param		limit	query	int	false	"Page size (default 50, max 500)"
//	@Param		offset	query	int	false	"Offset"
//	@Success	200	{array}	models.RentalOrder
//	@Router		/api/rentals [get]
func (h *RentalHandlers) ListRentals(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	orders, err := h.rentalService.ListRentals(c.Request().Context(), limit, offset)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetRental handles GET /api/rentals/:id
//
//	@Summary	Get a rental order
//	@Tags		rentals
//	@Produce	json
//	@Param		id	path	string	true	"Rental ID"
//	@Success	200	{object}	models.RentalOrder
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/rentals/{id} [get]
func (h *RentalHandlers) GetRental(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "rental")
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	order, err := h.rentalService.GetRental(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, order)
}

// GetRentalSlip handles GET /api/rentals/:id/slip
//
//	@Summary	Download the rental confirmation slip
//	@Tags		rentals
//	@Produce	application/pdf
//	@Param		id	path	string	true	"Rental ID"
//	@Success	200	{file}	binary
//	@Failure	404	{object}	common.ErrorResponse
//	@Router		/api/rentals/{id}/slip [get]
func (h *RentalHandlers) GetRentalSlip(c echo.Context) error {
	id, err := common.ParseID(c.Param("id"), "rental")
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	pdf, err := h.receiptService.RentalSlip(c.Request().Context(), id)
	if err != nil {
		return common.SendError(c, h.log, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=rental-%s.pdf", id))
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// ParseRentalForm converts the submitted rental form into service input.
// Missing required fields are reported before any field is parsed, so a
// form with several problems fails on the same rule the service checks
// first. Fields that are present but malformed are rejected here.
func ParseRentalForm(form url.Values) (*models.CreateRentalInput, error) {
	input := &models.CreateRentalInput{
		CustomerName: strings.TrimSpace(form.Get("customerName")),
	}

	if input.CustomerName == "" || blank(form, "clothesIds") || blank(form, "rentDate") || blank(form, "returnDate") {
		return nil, common.NewValidationError(services.MsgMissingFields)
	}

	items, err := parseSelections(form.Get("clothesIds"), form.Get("quantities"))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.NewValidationError(services.MsgMissingFields)
	}
	input.Items = items

	if input.RentDate, err = parseFormDate("rentDate", form.Get("rentDate")); err != nil {
		return nil, err
	}
	if input.ReturnDate, err = parseFormDate("returnDate", form.Get("returnDate")); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(form.Get("isPaid")); raw != "" {
		paid, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, common.NewFieldValidationError("isPaid", "isPaid must be true or false")
		}
		input.IsPaid = paid
	}

	if raw := strings.TrimSpace(form.Get("totalAmount")); raw != "" {
		total, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(total) || math.IsInf(total, 0) {
			return nil, common.NewFieldValidationError("totalAmount", "totalAmount must be a number")
		}
		input.TotalAmount = &total
	}

	return input, nil
}

func blank(form url.Values, field string) bool {
	return strings.TrimSpace(form.Get(field)) == ""
}

// parseSelections pairs the JSON id and quantity arrays. An empty id list
// yields no selections.
func parseSelections(rawIDs, rawQuantities string) ([]models.RentalSelection, error) {
	var ids []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(rawIDs)), &ids); err != nil {
		return nil, common.NewFieldValidationError("clothesIds", services.MsgInvalidSelection)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var quantities []int
	if err := json.Unmarshal([]byte(strings.TrimSpace(rawQuantities)), &quantities); err != nil {
		return nil, common.NewFieldValidationError("quantities", services.MsgInvalidSelection)
	}
	if len(ids) != len(quantities) {
		return nil, common.NewFieldValidationError("quantities", services.MsgInvalidSelection)
	}

	items := make([]models.RentalSelection, len(ids))
	for i := range ids {
		items[i] = models.RentalSelection{ClothesID: ids[i], Quantity: quantities[i]}
	}
	return items, nil
}

var formDateLayouts = []string{time.RFC3339Nano, "2006-01-02"}

func parseFormDate(field, raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range formDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, common.NewFieldValidationError(field, field+" must be an RFC3339 timestamp or a YYYY-MM-DD date")
}
