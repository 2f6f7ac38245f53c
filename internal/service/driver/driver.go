package driver

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/user"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type DriverService struct {
	userRepo user.Repository
	logger   *zap.Logger
}

func NewDriverService(userRepo user.Repository, logger *zap.Logger) *DriverService {
	return &DriverService{userRepo: userRepo, logger: logger}
}

func (s *DriverService) List(ctx context.Context, search string) ([]user.DriverInfo, error) {
	return s.userRepo.ListDrivers(ctx, search)
}

func (s *DriverService) Get(ctx context.Context, id int64) (*user.DriverInfo, error) {
	info, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if info.Role != user.RoleDriver {
		return nil, xerrors.ErrNotFound
	}
	return info, nil
}

// Update edits the driver profile: license details, safety score and duty
// status. Account fields (name, email) are not editable here.
func (s *DriverService) Update(ctx context.Context, id int64, req *user.UpdateDriverRequest) (*user.DriverInfo, error) {
	if req.LicenseExpiry != nil {
		if _, err := time.Parse("2006-01-02", *req.LicenseExpiry); err != nil {
			return nil, xerrors.Validationf("license_expiry must be YYYY-MM-DD")
		}
	}

	if err := s.userRepo.UpdateDriverProfile(ctx, id, req); err != nil {
		return nil, fmt.Errorf("failed to update driver: %w", err)
	}
	return s.userRepo.FindByID(ctx, id)
}

func (s *DriverService) Delete(ctx context.Context, id int64) error {
	info, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if info.Role != user.RoleDriver {
		return xerrors.ErrNotFound
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("driver deleted", zap.Int64("user_id", id))
	return nil
}
