package services

import (
	"bytes"
	"context"
	"fmt"

	"closetrent/internal/common"
	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// ReceiptService renders rental confirmation slips.
type ReceiptService interface {
	RentalSlip(ctx context.Context, rentalID uuid.UUID) ([]byte, error)
}

type receiptService struct {
	rentals RentalService
	clothes ClothesService
	shop    string
}

func NewReceiptService(rentals RentalService, clothes ClothesService, shopName string) ReceiptService {
	if shopName == "" {
		shopName = "CLOSETRENT"
	}
	return &receiptService{rentals: rentals, clothes: clothes, shop: shopName}
}

func (s *receiptService) RentalSlip(ctx context.Context, rentalID uuid.UUID) ([]byte, error) {
	order, err := s.rentals.GetRental(ctx, rentalID)
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(order.Items))
	for _, item := range order.Items {
		if _, ok := names[item.ClothesID]; ok {
			continue
		}
		c, err := s.clothes.GetByID(ctx, item.ClothesID)
		switch {
		case err == nil:
			names[item.ClothesID] = c.Name
		case common.IsNotFoundError(err):
			// items can outlive their inventory row
			names[item.ClothesID] = "Item " + item.ClothesID.String()[:8]
		default:
			return nil, err
		}
	}

	return renderRentalSlip(s.shop, order, names)
}

func renderRentalSlip(shop string, order *models.RentalOrder, names map[uuid.UUID]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, tr(shop+" RENTAL SLIP"))
	pdf.Ln(15)

	pdf.SetFont("Arial", "", 11)
	lines := []string{
		fmt.Sprintf("Rental: %s", order.ID.String()),
		fmt.Sprintf("Customer: %s", order.CustomerName),
		fmt.Sprintf("Rent date: %s", order.RentDate.Format("02-Jan-2006")),
		fmt.Sprintf("Return date: %s", order.ReturnDate.Format("02-Jan-2006")),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, tr(line))
		pdf.Ln(7)
	}
	pdf.Ln(5)

	headers := []string{"#", "Item", "Qty", "Price", "Amount"}
	colWidths := []float64{10, 80, 20, 30, 30}

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	for i, item := range order.Items {
		pdf.CellFormat(colWidths[0], 8, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, tr(names[item.ClothesID]), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(colWidths[3], 8, fmt.Sprintf("%.2f", item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[4], 8, fmt.Sprintf("%.2f", item.LineTotal()), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 8, "TOTAL:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.TotalAmount), "", 0, "R", false, 0, "")
	pdf.Ln(8)

	status := "UNPAID"
	if order.IsPaid {
		status = "PAID"
	}
	pdf.CellFormat(140, 8, "Payment:", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, status, "", 0, "R", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "Please return all items by the return date shown above.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render rental slip: %w", err)
	}
	return buf.Bytes(), nil
}
