package maintenance

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/vehicle"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type MaintenanceService struct {
	maintRepo   maintenance.Repository
	vehicleRepo vehicle.Repository
	logger      *zap.Logger
}

func NewMaintenanceService(maintRepo maintenance.Repository, vehicleRepo vehicle.Repository, logger *zap.Logger) *MaintenanceService {
	return &MaintenanceService{maintRepo: maintRepo, vehicleRepo: vehicleRepo, logger: logger}
}

// Create opens a shop visit and pulls the vehicle into IN_SHOP. The pull is
// unconditional: an active trip does not keep a vehicle out of the shop.
func (s *MaintenanceService) Create(ctx context.Context, createdByID int64, req *maintenance.CreateLogRequest) (*maintenance.Log, error) {
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

	l := &maintenance.Log{
		VehicleID:   req.VehicleID,
		Issue:       req.Issue,
		Service:     req.Service,
		Cost:        req.Cost,
		Date:        date,
		CreatedByID: createdByID,
	}
	// The repo inserts the log and pulls the vehicle IN_SHOP in one tx.
	if err := s.maintRepo.Create(ctx, l); err != nil {
		s.logger.Error("failed to create maintenance log", zap.Error(err))
		return nil, fmt.Errorf("failed to create maintenance log: %w", err)
	}

	s.logger.Info("maintenance log created",
		zap.Int64("maintenance_log_id", l.ID),
		zap.Int64("vehicle_id", l.VehicleID),
	)
	return l, nil
}

func (s *MaintenanceService) Get(ctx context.Context, id int64) (*maintenance.Log, error) {
	return s.maintRepo.FindByID(ctx, id)
}

func (s *MaintenanceService) Update(ctx context.Context, id int64, req *maintenance.UpdateLogRequest) (*maintenance.Log, error) {
	l, err := s.maintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	date := l.Date
	if req.Date != "" {
		if date, err = parseDate(req.Date); err != nil {
			return nil, err
		}
	}

	l.VehicleID = req.VehicleID
	l.Issue = req.Issue
	l.Service = req.Service
	l.Cost = req.Cost
	l.Date = date

	if err := s.maintRepo.Update(ctx, l); err != nil {
		return nil, fmt.Errorf("failed to update maintenance log: %w", err)
	}
	return l, nil
}

// Complete closes a shop visit. The vehicle is released back to AVAILABLE
// only once no other open log holds it.
func (s *MaintenanceService) Complete(ctx context.Context, id int64) (*maintenance.Log, error) {
	l, err := s.maintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.Completed {
		return l, nil
	}

	// Close and, when this was the last open log, release the vehicle in one tx.
	released, err := s.maintRepo.Complete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete maintenance log: %w", err)
	}
	l.Completed = true

	s.logger.Info("maintenance log completed",
		zap.Int64("maintenance_log_id", l.ID),
		zap.Int64("vehicle_id", l.VehicleID),
		zap.Bool("vehicle_released", released),
	)
	return l, nil
}

func (s *MaintenanceService) Delete(ctx context.Context, id int64) error {
	return s.maintRepo.Delete(ctx, id)
}

func (s *MaintenanceService) List(ctx context.Context) ([]maintenance.Info, error) {
	return s.maintRepo.List(ctx)
}

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
