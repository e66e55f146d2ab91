package models

import (
	"time"

	"github.com/google/uuid"
)

type RentalOrder struct {
	ID            uuid.UUID    `json:"id" db:"id"`
	CustomerName  string       `json:"customerName" db:"customer_name"`
	Items         []RentalItem `json:"items"`
	IdentityImage string       `json:"identityImage" db:"identity_image"`
	RentDate      time.Time    `json:"rentDate" db:"rent_date"`
	ReturnDate    time.Time    `json:"returnDate" db:"return_date"`
	IsPaid        bool         `json:"isPaid" db:"is_paid"`
	TotalAmount   float64      `json:"totalAmount" db:"total_amount"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
}

// RentalItem is one selected inventory item on an order. UnitPrice is the
// rental price captured when the order was placed.
type RentalItem struct {
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	Position  int       `json:"position" db:"position"`
	ClothesID uuid.UUID `json:"clothesId" db:"clothes_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unitPrice" db:"unit_price"`
}

// LineTotal returns the item's contribution to the order total.
func (i RentalItem) LineTotal() float64 {
	return i.UnitPrice * float64(i.Quantity)
}

// ClothesIDs returns the selected item ids in input order.
func (o *RentalOrder) ClothesIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Items))
	for i, item := range o.Items {
		ids[i] = item.ClothesID
	}
	return ids
}

// IsOverdue reports whether the order is unpaid past its return date.
func (o *RentalOrder) IsOverdue(now time.Time) bool {
	return !o.IsPaid && o.ReturnDate.Before(now)
}

// RentalSelection is a requested (item, quantity) pair before it is resolved
// against the inventory.
type RentalSelection struct {
	ClothesID string `json:"clothesId"`
	Quantity  int    `json:"quantity"`
}

// CreateRentalInput is the parsed rental request
type CreateRentalInput struct {
	CustomerName     string
	Items            []RentalSelection
	RentDate         *time.Time
	ReturnDate       *time.Time
	IsPaid           bool
	TotalAmount      *float64 // client-side figure, checked against the server total
	IdentityDocument *FileUpload
}
