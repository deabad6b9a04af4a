package delivery

import (
	"context"

	"github.com/jmoiron/sqlx"

	"skyparcel/internal/drone"
	domainerrors "skyparcel/internal/errors"
	"skyparcel/internal/order"
)

type Repository interface {
	CreateOrderAndReserveDrone(ctx context.Context, db *sqlx.DB, o *order.Order) error
	CompleteAndRelease(ctx context.Context, db *sqlx.DB, o *order.Order) error
	CancelAndRelease(ctx context.Context, db *sqlx.DB, o *order.Order) error
}

type repo struct {
	orderRepo order.Repository
	droneRepo drone.Repository
}

func NewRepository(orderRepo order.Repository, droneRepo drone.Repository) Repository {
	return &repo{orderRepo: orderRepo, droneRepo: droneRepo}
}

// --------------------------------------------------------------
// CreateOrderAndReserveDrone persists the order and takes its drone out of
// the catalog in one transaction, so a drone can never be recommended while
// it is flying this order.
func (r *repo) CreateOrderAndReserveDrone(ctx context.Context, db *sqlx.DB, o *order.Order) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	d, err := r.droneRepo.GetByID(ctx, tx, o.DroneID)
	if err != nil {
		return domainerrors.DroneNotFound(o.DroneID.String())
	}
	if err := d.Reserve(); err != nil {
		return err
	}
	if err := r.droneRepo.Update(ctx, tx, d); err != nil {
		return domainerrors.NewInternal("failed to reserve drone", err)
	}

	if err := r.orderRepo.Create(ctx, tx, o); err != nil {
		return domainerrors.NewInternal("failed to create order", err)
	}

	return tx.Commit()
}

// --------------------------------------------------------------
// CompleteAndRelease records the delivered order and returns the drone to the
// catalog in one transaction.
func (r *repo) CompleteAndRelease(ctx context.Context, db *sqlx.DB, o *order.Order) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := r.orderRepo.Update(ctx, tx, o); err != nil {
		return domainerrors.NewPersistence("failed to update order", err)
	}

	if err := r.releaseDrone(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit()
}

// --------------------------------------------------------------
// CancelAndRelease records the cancelled order and frees its drone.
func (r *repo) CancelAndRelease(ctx context.Context, db *sqlx.DB, o *order.Order) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return domainerrors.NewInternal("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if err := r.orderRepo.Update(ctx, tx, o); err != nil {
		return domainerrors.NewInternal("failed to cancel order", err)
	}

	if err := r.releaseDrone(ctx, tx, o); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *repo) releaseDrone(ctx context.Context, tx sqlx.ExtContext, o *order.Order) error {
	d, err := r.droneRepo.GetByID(ctx, tx, o.DroneID)
	if err != nil {
		return domainerrors.DroneNotFound(o.DroneID.String())
	}
	// A drone moved to maintenance mid-delivery stays there.
	if d.Status != drone.StatusInUse {
		return nil
	}
	if err := d.Release(); err != nil {
		return err
	}
	if err := r.droneRepo.Update(ctx, tx, d); err != nil {
		return domainerrors.NewInternal("failed to release drone", err)
	}
	return nil
}
