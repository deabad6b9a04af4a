package drone

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	domainerrors "skyparcel/internal/errors"
	"skyparcel/internal/redis"
)

type Service interface {
	ListAvailable(ctx context.Context) ([]*Drone, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Drone, error)
	ListAll(ctx context.Context, status *Status, page, limit int) ([]*Drone, int, error)
	SetOperationalStatus(ctx context.Context, id uuid.UUID, status Status) (*Drone, error)
}

type service struct {
	repo  Repository
	db    *sqlx.DB
	cache *redis.CatalogCache
}

func NewDroneService(repo Repository, db *sqlx.DB, cache *redis.CatalogCache) Service {
	return &service{repo: repo, db: db, cache: cache}
}

// ListAvailable reads the available fleet through the catalog cache. A cache
// miss or error falls back to Postgres and repopulates the cache best-effort.
func (s *service) ListAvailable(ctx context.Context) ([]*Drone, error) {
	var cached []*Drone
	if found, err := s.cache.Get(ctx, &cached); err == nil && found {
		return cached, nil
	}

	drones, err := s.repo.ListByStatus(ctx, s.db, StatusAvailable)
	if err != nil {
		return nil, domainerrors.NewInternal("failed to list available drones", err)
	}

	_ = s.cache.Set(ctx, drones)

	return drones, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*Drone, error) {
	d, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		return nil, domainerrors.DroneNotFound(id.String())
	}
	return d, nil
}

func (s *service) ListAll(ctx context.Context, status *Status, page, limit int) ([]*Drone, int, error) {
	return s.repo.ListAll(ctx, s.db, status, page, limit)
}

func (s *service) SetOperationalStatus(ctx context.Context, id uuid.UUID, status Status) (*Drone, error) {
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.SetOperationalStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, s.db, d); err != nil {
		return nil, domainerrors.NewInternal("failed to update drone status", err)
	}

	// Fleet composition changed; drop the cached catalog.
	_ = s.cache.Invalidate(ctx)

	return d, nil
}
