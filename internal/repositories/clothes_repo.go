package repositories

import (
	"context"
	"errors"
	"fmt"

	"closetrent/internal/common"
	"closetrent/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClothesRepository interface {
	Create(ctx context.Context, clothes *models.Clothes) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Clothes, error)
	Update(ctx context.Context, clothes *models.Clothes) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*models.Clothes, error)
}

type clothesRepo struct {
	db DB
}

func NewClothesRepo(db DB) ClothesRepository {
	return &clothesRepo{db: db}
}

const clothesColumns = `id, name, owner_name, rental_price, description, status, image, created_at, updated_at`

func scanClothes(row pgx.Row) (*models.Clothes, error) {
	c := &models.Clothes{}
	err := row.Scan(&c.ID, &c.Name, &c.OwnerName, &c.RentalPrice, &c.Description, &c.Status, &c.Image, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *clothesRepo) Create(ctx context.Context, clothes *models.Clothes) error {
	query := `
		INSERT INTO clothes (id, name, owner_name, rental_price, description, status, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, clothes.ID, clothes.Name, clothes.OwnerName, clothes.RentalPrice, clothes.Description, clothes.Status, clothes.Image).
		Scan(&clothes.CreatedAt, &clothes.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert clothes: %w", err)
	}
	return nil
}

func (r *clothesRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Clothes, error) {
	query := `SELECT ` + clothesColumns + ` FROM clothes WHERE id = $1`
	c, err := scanClothes(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("clothes", id.String())
		}
		return nil, fmt.Errorf("get clothes: %w", err)
	}
	return c, nil
}

// GetByIDs loads every listed item that exists. Missing ids are simply
// absent from the result.
func (r *clothesRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Clothes, error) {
	result := make(map[uuid.UUID]*models.Clothes, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + clothesColumns + ` FROM clothes WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get clothes by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanClothes(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clothes: %w", err)
		}
		result[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get clothes by ids: %w", err)
	}
	return result, nil
}

func (r *clothesRepo) Update(ctx context.Context, clothes *models.Clothes) error {
	query := `
		UPDATE clothes
		SET name = $1, owner_name = $2, rental_price = $3, description = $4, status = $5, image = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, clothes.Name, clothes.OwnerName, clothes.RentalPrice, clothes.Description, clothes.Status, clothes.Image, clothes.ID).
		Scan(&clothes.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.NewNotFoundError("clothes", clothes.ID.String())
		}
		return fmt.Errorf("update clothes: %w", err)
	}
	return nil
}

func (r *clothesRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clothes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete clothes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("clothes", id.String())
	}
	return nil
}

func (r *clothesRepo) List(ctx context.Context) ([]*models.Clothes, error) {
	query := `SELECT ` + clothesColumns + ` FROM clothes ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clothes: %w", err)
	}
	defer rows.Close()

	clothes := make([]*models.Clothes, 0)
	for rows.Next() {
		c, err := scanClothes(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clothes: %w", err)
		}
		clothes = append(clothes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clothes: %w", err)
	}
	return clothes, nil
}
