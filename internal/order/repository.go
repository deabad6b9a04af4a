package order

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const columns = `id, order_id, parcel_title, parcel_category, parcel_weight_kg, parcel_description,
	pickup_address, pickup_lat, pickup_lng, delivery_address, delivery_lat, delivery_lng,
	drone_id, pickup_mode, scheduled_at, distance_km,
	base_fare, distance_fare, pickup_fee, total_fare,
	status, drone_lat, drone_lng, estimated_minutes, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, ext sqlx.ExtContext, o *Order) error
	GetByToken(ctx context.Context, ext sqlx.ExtContext, orderID string) (*Order, error)
	Update(ctx context.Context, ext sqlx.ExtContext, o *Order) error
	UpdatePosition(ctx context.Context, ext sqlx.ExtContext, orderID string, lat, lng float64) error
	GetStatus(ctx context.Context, ext sqlx.ExtContext, orderID string) (Status, error)
	ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, page, limit int) ([]*Order, int, error)
}

type orderRepository struct{}

func NewRepository() Repository {
	return &orderRepository{}
}

func (r *orderRepository) Create(ctx context.Context, ext sqlx.ExtContext, o *Order) error {
	const query = `INSERT INTO orders (id, order_id, parcel_title, parcel_category, parcel_weight_kg, parcel_description,
		pickup_address, pickup_lat, pickup_lng, delivery_address, delivery_lat, delivery_lng,
		drone_id, pickup_mode, scheduled_at, distance_km,
		base_fare, distance_fare, pickup_fee, total_fare,
		status, drone_lat, drone_lng, estimated_minutes, created_at, updated_at)
	VALUES (:id, :order_id, :parcel_title, :parcel_category, :parcel_weight_kg, :parcel_description,
		:pickup_address, :pickup_lat, :pickup_lng, :delivery_address, :delivery_lat, :delivery_lng,
		:drone_id, :pickup_mode, :scheduled_at, :distance_km,
		:base_fare, :distance_fare, :pickup_fee, :total_fare,
		:status, :drone_lat, :drone_lng, :estimated_minutes, :created_at, :updated_at)`

	_, err := sqlx.NamedExecContext(ctx, ext, query, o)
	return err
}

func (r *orderRepository) GetByToken(ctx context.Context, ext sqlx.ExtContext, orderID string) (*Order, error) {
	var o Order
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE order_id = $1`, columns)
	if err := sqlx.GetContext(ctx, ext, &o, query, orderID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Update(ctx context.Context, ext sqlx.ExtContext, o *Order) error {
	const query = `UPDATE orders SET status = :status, drone_lat = :drone_lat, drone_lng = :drone_lng,
		estimated_minutes = :estimated_minutes, updated_at = :updated_at WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, ext, query, o)
	return err
}

func (r *orderRepository) UpdatePosition(ctx context.Context, ext sqlx.ExtContext, orderID string, lat, lng float64) error {
	const query = `UPDATE orders SET drone_lat = $2, drone_lng = $3, updated_at = NOW() WHERE order_id = $1`
	res, err := ext.ExecContext(ctx, query, orderID, lat, lng)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("order %s not found", orderID)
	}
	return nil
}

func (r *orderRepository) GetStatus(ctx context.Context, ext sqlx.ExtContext, orderID string) (Status, error) {
	var status Status
	if err := sqlx.GetContext(ctx, ext, &status, `SELECT status FROM orders WHERE order_id = $1`, orderID); err != nil {
		return "", err
	}
	return status, nil
}

func (r *orderRepository) ListAll(ctx context.Context, ext sqlx.ExtContext, status *Status, page, limit int) ([]*Order, int, error) {
	offset := (page - 1) * limit
	args := []any{}
	argIdx := 1

	where := ""
	if status != nil {
		where = fmt.Sprintf(" WHERE status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	// Total count.
	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM orders%s`, where)
	if err := sqlx.GetContext(ctx, ext, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	// Page results.
	dataQuery := fmt.Sprintf(`SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, columns, where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	var orders []*Order
	if err := sqlx.SelectContext(ctx, ext, &orders, dataQuery, args...); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}
