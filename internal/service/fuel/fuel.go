package fuel

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/vehicle"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type FuelService struct {
	fuelRepo    fuel.Repository
	vehicleRepo vehicle.Repository
	logger      *zap.Logger
}

func NewFuelService(fuelRepo fuel.Repository, vehicleRepo vehicle.Repository, logger *zap.Logger) *FuelService {
	return &FuelService{fuelRepo: fuelRepo, vehicleRepo: vehicleRepo, logger: logger}
}

// Create records a fill. TotalCost is always recomputed from liters and
// cost-per-liter; a client-supplied total is ignored so the stored value
// cannot drift from its factors.
func (s *FuelService) Create(ctx context.Context, req *fuel.CreateLogRequest) (*fuel.Log, error) {
	if _, err := s.vehicleRepo.FindByID(ctx, req.VehicleID); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.Validationf("vehicle %d does not exist", req.VehicleID)
		}
		return nil, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	l := &fuel.Log{
		VehicleID:    req.VehicleID,
		DriverID:     req.DriverID,
		Liters:       req.Liters,
		CostPerLiter: req.CostPerLiter,
		TotalCost:    req.Liters * req.CostPerLiter,
		Odometer:     req.Odometer,
		Date:         date,
	}
	if err := s.fuelRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create fuel log", zap.Error(err))
		return nil, fmt.Errorf("failed to create fuel log: %w", err)
	}

	s.logger.Info("fuel log created",
		zap.Int64("fuel_log_id", l.ID),
		zap.Int64("vehicle_id", l.VehicleID),
		zap.Float64("total_cost", l.TotalCost),
	)
	return l, nil
}

func (s *FuelService) Get(ctx context.Context, id int64) (*fuel.Log, error) {
	return s.fuelRepo.FindByID(ctx, id)
}

func (s *FuelService) Update(ctx context.Context, id int64, req *fuel.UpdateLogRequest) (*fuel.Log, error) {
	l, err := s.fuelRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.VehicleID != l.VehicleID {
		if _, err := s.vehicleRepo.FindByID(ctx, req.VehicleID); err != nil {
			if xerrors.Is(err, xerrors.ErrNotFound) {
				return nil, xerrors.Validationf("vehicle %d does not exist", req.VehicleID)
			}
			return nil, err
		}
	}
	date := l.Date
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return nil, err
		}
	}

	l.VehicleID = req.VehicleID
	l.DriverID = req.DriverID
	l.Liters = req.Liters
	l.CostPerLiter = req.CostPerLiter
	l.TotalCost = req.Liters * req.CostPerLiter
	l.Odometer = req.Odometer
	l.Date = date

	if err := s.fuelRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update fuel log: %w", err)
	}
	return l, nil
}

func (s *FuelService) Delete(ctx context.Context, id int64) error {
	return s.fuelRepo.Delete(ctx, id)
}

func (s *FuelService) List(ctx context.Context) ([]fuel.Info, error) {
	return s.fuelRepo.List(ctx)
}

// parseDate accepts YYYY-MM-DD, defaulting to today when empty.
func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Now().Truncate(24 * time.Hour), nil
	}
	d, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, xerrors.Validationf("date must be YYYY-MM-DD")
	}
	return d, nil
}
