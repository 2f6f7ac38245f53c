package dispatcher

import (
	"context"
	"fmt"

	"fleetflow-service/internal/domain/dispatcher"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// DispatcherService manages a fleet manager's dispatcher contact book.
// Every record is scoped to the manager who created it.
type DispatcherService struct {
	dispatcherRepo dispatcher.Repository
	logger         *zap.Logger
}

func NewDispatcherService(dispatcherRepo dispatcher.Repository, logger *zap.Logger) *DispatcherService {
	return &DispatcherService{dispatcherRepo: dispatcherRepo, logger: logger}
}

func (s *DispatcherService) Create(ctx context.Context, managerID int64, req *dispatcher.CreateDispatcherRequest) (*dispatcher.Dispatcher, error) {
	exists, err := s.dispatcherRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check dispatcher email: %w", err)
	}
	if exists {
		return nil, xerrors.Wrap(xerrors.ErrConflict, "a dispatcher with that email already exists")
	}

	d := &dispatcher.Dispatcher{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		ManagerID: managerID,
	}
	if err := s.dispatcherRepo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create dispatcher", zap.Error(err))
		return nil, fmt.Errorf("failed to create dispatcher: %w", err)
	}

	s.logger.Info("dispatcher created", zap.Int64("dispatcher_id", d.ID), zap.Int64("manager_id", managerID))
	return d, nil
}

func (s *DispatcherService) Update(ctx context.Context, managerID, id int64, req *dispatcher.UpdateDispatcherRequest) (*dispatcher.Dispatcher, error) {
	d, err := s.owned(ctx, managerID, id)
	if err != nil {
		return nil, err
	}

	d.Name = req.Name
	d.Email = req.Email
	d.Phone = req.Phone

	if err := s.dispatcherRepo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update dispatcher: %w", err)
	}
	return d, nil
}

func (s *DispatcherService) Delete(ctx context.Context, managerID, id int64) error {
	if _, err := s.owned(ctx, managerID, id); err != nil {
		return err
	}
	if err := s.dispatcherRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("dispatcher deleted", zap.Int64("dispatcher_id", id))
	return nil
}

func (s *DispatcherService) List(ctx context.Context, managerID int64, search string) ([]dispatcher.Info, error) {
	return s.dispatcherRepo.List(ctx, &managerID, search)
}

func (s *DispatcherService) owned(ctx context.Context, managerID, id int64) (*dispatcher.Dispatcher, error) {
	d, err := s.dispatcherRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.ManagerID != managerID {
		return nil, xerrors.Forbiddenf("dispatcher belongs to another manager")
	}
	return d, nil
}
