package vehicle

import (
	"context"
	"fmt"

	"fleetflow-service/internal/domain/vehicle"

	"go.uber.org/zap"
)

type VehicleService struct {
	vehicleRepo vehicle.Repository
	logger      *zap.Logger
}

func NewVehicleService(vehicleRepo vehicle.Repository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo, logger: logger}
}

// Create registers a vehicle. New vehicles always start AVAILABLE; status is
// only ever moved by trip and maintenance transitions afterwards.
func (s *VehicleService) Create(ctx context.Context, req *vehicle.CreateVehicleRequest) (*vehicle.Vehicle, error) {
	v := &vehicle.Vehicle{
		Name:            req.Name,
		Model:           req.Model,
		LicensePlate:    req.LicensePlate,
		Type:            req.Type,
		MaxLoadCapacity: req.MaxLoadCapacity,
		Odometer:        req.Odometer,
		Status:          vehicle.StatusAvailable,
		Tags:            req.Tags,
	}
	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		s.logger.Error("failed to create vehicle", zap.Error(err))
		return nil, err
	}

	s.logger.Info("vehicle created", zap.Int64("vehicle_id", v.ID), zap.String("plate", v.LicensePlate))
	return v, nil
}

func (s *VehicleService) Get(ctx context.Context, id int64) (*vehicle.Vehicle, error) {
	return s.vehicleRepo.FindByID(ctx, id)
}

func (s *VehicleService) Update(ctx context.Context, id int64, req *vehicle.UpdateVehicleRequest) (*vehicle.Vehicle, error) {
	v, err := s.vehicleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Model != nil {
		v.Model = *req.Model
	}
	if req.LicensePlate != nil {
		v.LicensePlate = *req.LicensePlate
	}
	if req.Type != nil {
		v.Type = *req.Type
	}
	if req.MaxLoadCapacity != nil {
		v.MaxLoadCapacity = *req.MaxLoadCapacity
	}
	if req.Odometer != nil {
		v.Odometer = *req.Odometer
	}
	if req.Tags != nil {
		v.Tags = req.Tags
	}

	if err := s.vehicleRepo.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}
	return v, nil
}

func (s *VehicleService) Delete(ctx context.Context, id int64) error {
	if err := s.vehicleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("vehicle deleted", zap.Int64("vehicle_id", id))
	return nil
}

func (s *VehicleService) List(ctx context.Context, search string) ([]vehicle.Vehicle, error) {
	return s.vehicleRepo.List(ctx, search)
}
