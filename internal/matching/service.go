package matching

import (
	"context"

	"skyparcel/internal/drone"
)

type Service interface {
	Recommend(ctx context.Context, req Request) (*Match, error)
}

type service struct {
	drones drone.Service
}

func NewService(drones drone.Service) Service {
	return &service{drones: drones}
}

// Recommend is one catalog read plus pure computation.
func (s *service) Recommend(ctx context.Context, req Request) (*Match, error) {
	catalog, err := s.drones.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}
	return Recommend(req, catalog)
}
