package delivery

import (
	"context"

	"github.com/jmoiron/sqlx"

	"skyparcel/internal/order"
)

type Service interface {
	CreateOrderAndReserveDrone(ctx context.Context, o *order.Order) error
	CompleteAndRelease(ctx context.Context, o *order.Order) error
	CancelAndRelease(ctx context.Context, o *order.Order) error
}

type service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) CreateOrderAndReserveDrone(ctx context.Context, o *order.Order) error {
	return s.repo.CreateOrderAndReserveDrone(ctx, s.db, o)
}

func (s *service) CompleteAndRelease(ctx context.Context, o *order.Order) error {
	return s.repo.CompleteAndRelease(ctx, s.db, o)
}

func (s *service) CancelAndRelease(ctx context.Context, o *order.Order) error {
	return s.repo.CancelAndRelease(ctx, s.db, o)
}
