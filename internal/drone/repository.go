package drone

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = `id, name, model, max_weight_kg, max_range_km, speed_kmh, battery_life, description, rate_per_km, categories, status, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, d *Drone) error
	GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Drone, error)
	Update(ctx context.Context, ext sqlx.ExtContext, d *Drone) error
	ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*Drone, error)
	ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, page, limit int) ([]*Drone, int, error)
}

type droneRepository struct{}

func NewRepository() Repository {
	return &droneRepository{}
}

func (r *droneRepository) Create(ctx context.Context, ext sqlx.ExtContext, d *Drone) error {
	const query = `INSERT INTO drones (id, name, model, max_weight_kg, max_range_km, speed_kmh, battery_life, description, rate_per_km, categories, status, created_at, updated_at)
		VALUES (:id, :name, :model, :max_weight_kg, :max_range_km, :speed_kmh, :battery_life, :description, :rate_per_km, :categories, :status, :created_at, :updated_at)`

	_, err := sqlx.NamedExecContext(ctx, ext, query, d)
	return err
}

func (r *droneRepository) GetByID(ctx context.Context, ext sqlx.ExtContext, id uuid.UUID) (*Drone, error) {
	var d Drone
	query := fmt.Sprintf(`SELECT %s FROM drones WHERE id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &d, query, id); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *droneRepository) Update(ctx context.Context, ext sqlx.ExtContext, d *Drone) error {
	const query = `UPDATE drones SET status = :status, rate_per_km = :rate_per_km, categories = :categories, updated_at = :updated_at WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, d)
	return err
}

func (r *droneRepository) ListByStatus(ctx context.Context, ext sqlx.ExtContext, status Status) ([]*Drone, error) {
	var drones []*Drone
	query := fmt.Sprintf(`SELECT %s FROM drones WHERE status = $1 ORDER BY created_at ASC`, columns)
	if err := sqlx.SelectContext(ctx, ext, &drones, query, status); err != nil {
		return nil, err
	}
	return drones, nil
}

func (r *droneRepository) ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, page, limit int) ([]*Drone, int, error) {
	offset := (page - 1) * limit
	args := []any{}
	argIdx := 1

	where := ""
	if status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM drones%s`, where)
	if err := sqlx.GetContext(ctx, ext, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	dataQuery := fmt.Sprintf(`SELECT %s FROM drones%s ORDER BY created_at ASC LIMIT $%d OFFSET $%d`, columns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	var drones []*Drone
	if err := sqlx.SelectContext(ctx, ext, &drones, dataQuery, args...); err != nil {
		return nil, 0, err
	}

	return drones, total, nil
}
