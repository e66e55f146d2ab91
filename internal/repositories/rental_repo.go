package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"closetrent/internal/common"
	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RentalRepository interface {
	// Create inserts the order and its items in one transaction.
	Create(ctx context.Context, order *models.RentalOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error)
	List(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error)
	ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error)
}

type rentalRepo struct {
	db DB
}

func NewRentalRepo(db DB) RentalRepository {
	return &rentalRepo{db: db}
}

const rentalColumns = `id, customer_name, identity_image, rent_date, return_date, is_paid, total_amount, created_at`

func (r *rentalRepo) Create(ctx context.Context, order *models.RentalOrder) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin rental transaction: %w", err)
	}

	if err := insertRental(ctx, tx, order); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit rental: %w", err)
	}
	return nil
}

func insertRental(ctx context.Context, tx pgx.Tx, order *models.RentalOrder) error {
	query := `
		INSERT INTO rental_orders (id, customer_name, identity_image, rent_date, return_date, is_paid, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING created_at
	`
	err := tx.QueryRow(ctx, query, order.ID, order.CustomerName, order.IdentityImage, order.RentDate, order.ReturnDate, order.IsPaid, order.TotalAmount).
		Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rental order: %w", err)
	}

	itemQuery := `
		INSERT INTO rental_order_items (order_id, position, clothes_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		item.Position = i
		if _, err := tx.Exec(ctx, itemQuery, order.ID, item.Position, item.ClothesID, item.Quantity, item.UnitPrice); err != nil {
			return fmt.Errorf("insert rental item %d: %w", i, err)
		}
	}
	return nil
}

func (r *rentalRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RentalOrder, error) {
	query := `SELECT ` + rentalColumns + ` FROM rental_orders WHERE id = $1`
	order := &models.RentalOrder{}
	err := r.db.QueryRow(ctx, query, id).Scan(&order.ID, &order.CustomerName, &order.IdentityImage, &order.RentDate, &order.ReturnDate, &order.IsPaid, &order.TotalAmount, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("rental", id.String())
		}
		return nil, fmt.Errorf("get rental: %w", err)
	}

	if err := r.attachItems(ctx, []*models.RentalOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *rentalRepo) List(ctx context.Context, limit, offset int) ([]*models.RentalOrder, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rental_orders
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryOrders(ctx, query, limit, offset)
}

func (r *rentalRepo) ListOverdue(ctx context.Context, now time.Time) ([]*models.RentalOrder, error) {
	query := `
		SELECT ` + rentalColumns + `
		FROM rental_orders
		WHERE is_paid = FALSE AND return_date < $1
		ORDER BY return_date ASC
	`
	return r.queryOrders(ctx, query, now)
}

func (r *rentalRepo) queryOrders(ctx context.Context, query string, args ...interface{}) ([]*models.RentalOrder, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrders(rows pgx.Rows) ([]*models.RentalOrder, error) {
	defer rows.Close()

	orders := make([]*models.RentalOrder, 0)
	for rows.Next() {
		order := &models.RentalOrder{}
		if err := rows.Scan(&order.ID, &order.CustomerName, &order.IdentityImage, &order.RentDate, &order.ReturnDate, &order.IsPaid, &order.TotalAmount, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rental: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list rentals: %w", err)
	}
	return orders, nil
}

// attachItems loads the items of all given orders with a single query.
func (r *rentalRepo) attachItems(ctx context.Context, orders []*models.RentalOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.RentalOrder, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = make([]models.RentalItem, 0)
	}

	query := `
		SELECT order_id, position, clothes_id, quantity, unit_price
		FROM rental_order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list rental items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.RentalItem
		if err := rows.Scan(&item.OrderID, &item.Position, &item.ClothesID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scan rental item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("list rental items: %w", err)
	}
	return nil
}
