package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ClothesStatusAvailable = "available"
	ClothesStatusRented    = "rented"

	defaultDescription = "No description yet"
)

// DisplaySizes is the fixed size set shown on the detail view.
var DisplaySizes = []string{"S", "M", "L"}

type Clothes struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	OwnerName   string    `json:"ownerName" db:"owner_name"`
	RentalPrice float64   `json:"rentalPrice" db:"rental_price"`
	Description string    `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	Image       string    `json:"image" db:"image"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// ClothesDetail is the denormalized product view used by the detail page
type ClothesDetail struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice float64   `json:"originalPrice"`
	Images        []string  `json:"images"`
	Sizes         []string  `json:"sizes"`
	Description   string    `json:"description"`
	SKU           string    `json:"sku"`
}

// Detail builds the display view. originalPrice is a fixed 2x markup.
func (c *Clothes) Detail() *ClothesDetail {
	description := c.Description
	if strings.TrimSpace(description) == "" {
		description = defaultDescription
	}
	sizes := make([]string, len(DisplaySizes))
	copy(sizes, DisplaySizes)

	return &ClothesDetail{
		ID:            c.ID,
		Name:          c.Name,
		Price:         c.RentalPrice,
		OriginalPrice: c.RentalPrice * 2,
		Images:        []string{c.Image},
		Sizes:         sizes,
		Description:   description,
		SKU:           "SP" + c.ID.String(),
	}
}

// WithAbsoluteImage returns a copy whose image is prefixed with baseURL.
func (c *Clothes) WithAbsoluteImage(baseURL string) *Clothes {
	out := *c
	if out.Image != "" && !strings.HasPrefix(out.Image, "http://") && !strings.HasPrefix(out.Image, "https://") {
		out.Image = strings.TrimRight(baseURL, "/") + out.Image
	}
	return &out
}

// CreateClothesInput holds the fields accepted when adding an inventory item
type CreateClothesInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	OwnerName   string  `json:"ownerName" validate:"max=255"`
	RentalPrice float64 `json:"rentalPrice" validate:"gte=0,lte=9999999999.99"`
	Description string  `json:"description" validate:"max=5000"`
	Status      string  `json:"status" validate:"omitempty,oneof=available rented"`
}

// UpdateClothesInput holds a partial update; nil fields are left unchanged
type UpdateClothesInput struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	OwnerName   *string  `json:"ownerName" validate:"omitempty,max=255"`
	RentalPrice *float64 `json:"rentalPrice" validate:"omitempty,gte=0,lte=9999999999.99"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Status      *string  `json:"status" validate:"omitempty,oneof=available rented"`
}

// Apply copies the supplied fields onto c.
func (in *UpdateClothesInput) Apply(c *Clothes) {
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.OwnerName != nil {
		c.OwnerName = *in.OwnerName
	}
	if in.RentalPrice != nil {
		c.RentalPrice = *in.RentalPrice
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
}
