package jobs

import (
	"context"
	"time"

	"closetrent/internal/metrics"
	"closetrent/internal/models"
	"closetrent/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// OverdueLister is implemented by services.RentalService.
type OverdueLister interface {
	ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error)
}

type OverdueReportService struct {
	rentals OverdueLister
	now     func() time.Time
	log     *logrus.Entry
}

type OverdueRental struct {
	RentalID     uuid.UUID
	CustomerName string
	ReturnDate   time.Time
	DaysOverdue  int
	TotalAmount  float64
}

func NewOverdueReportService(rentals OverdueLister) *OverdueReportService {
	return &OverdueReportService{
		rentals: rentals,
		now:     time.Now,
		log:     logger.WithComponent("overdue_report"),
	}
}

// CheckOverdue lists unpaid rentals whose return date has passed.
func (o *OverdueReportService) CheckOverdue(ctx context.Context) ([]OverdueRental, error) {
	now := o.now().UTC()
	orders, err := o.rentals.ListOverdue(ctx, now)
	if err != nil {
		return nil, err
	}

	overdue := make([]OverdueRental, 0, len(orders))
	for _, order := range orders {
		if !order.IsOverdue(now) {
			continue
		}
		overdue = append(overdue, OverdueRental{
			RentalID:     order.ID,
			CustomerName: order.CustomerName,
			ReturnDate:   order.ReturnDate,
			DaysOverdue:  int(now.Sub(order.ReturnDate).Hours() / 24),
			TotalAmount:  order.TotalAmount,
		})
	}
	return overdue, nil
}

// Run checks for overdue rentals, logs them and publishes the count. It
// never changes an order.
func (o *OverdueReportService) Run(ctx context.Context) error {
	overdue, err := o.CheckOverdue(ctx)
	if err != nil {
		o.log.WithError(err).Error("Failed to check overdue rentals")
		return err
	}

	metrics.OverdueRentals.Set(float64(len(overdue)))
	if len(overdue) == 0 {
		o.log.Debug("No overdue rentals")
		return nil
	}

	for _, r := range overdue {
		o.log.WithFields(logrus.Fields{
			"rental_id":    r.RentalID,
			"customer":     r.CustomerName,
			"return_date":  r.ReturnDate.Format(time.DateOnly),
			"days_overdue": r.DaysOverdue,
			"total_amount": r.TotalAmount,
		}).Warn("Rental overdue")
	}
	o.log.WithField("count", len(overdue)).Info("Overdue rental check finished")
	return nil
}
