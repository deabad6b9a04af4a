package admin

import (
	"context"

	"github.com/google/uuid"

	"skyparcel/internal/drone"
	"skyparcel/internal/order"
)

type Service interface {
	ListOrders(ctx context.Context, status *order.Status, page, limit int) ([]*order.Order, int, error)
	ListDrones(ctx context.Context, status *drone.Status, page, limit int) ([]*drone.Drone, int, error)
	UpdateDroneStatus(ctx context.Context, droneID uuid.UUID, status drone.Status) (*drone.Drone, error)
}

type service struct {
	orderService order.Service
	droneService drone.Service
}

func NewService(orderService order.Service, droneService drone.Service) Service {
	return &service{orderService: orderService, droneService: droneService}
}

func (s *service) ListOrders(ctx context.Context, status *order.Status, page, limit int) ([]*order.Order, int, error) {
	return s.orderService.ListAll(ctx, status, page, limit)
}

func (s *service) ListDrones(ctx context.Context, status *drone.Status, page, limit int) ([]*drone.Drone, int, error) {
	return s.droneService.ListAll(ctx, status, page, limit)
}

func (s *service) UpdateDroneStatus(ctx context.Context, droneID uuid.UUID, status drone.Status) (*drone.Drone, error) {
	return s.droneService.SetOperationalStatus(ctx, droneID, status)
}
