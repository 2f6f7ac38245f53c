package trip

import (
	"context"
	"fmt"
	"time"

	"fleetflow-service/internal/domain/analytics"
	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"
	xerrors "fleetflow-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// TripService owns the trip lifecycle: creation, field edits, status
// transitions and their side effects on vehicles and drivers.
type TripService struct {
	tripRepo    trip.Repository
	vehicleRepo vehicle.Repository
	maintRepo   maintenance.Repository
	expenseRepo expense.Repository
	fuelRepo    fuel.Repository
	logger      *zap.Logger
	now         func() time.Time
}

func NewTripService(
	tripRepo trip.Repository,
	vehicleRepo vehicle.Repository,
	maintRepo maintenance.Repository,
	expenseRepo expense.Repository,
	fuelRepo fuel.Repository,
	logger *zap.Logger,
) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		vehicleRepo: vehicleRepo,
		maintRepo:   maintRepo,
		expenseRepo: expenseRepo,
		fuelRepo:    fuelRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// newReference mints a sortable external trip id.
func newReference() string {
	return "TRP-" + ulid.Make().String()
}

// Create registers a trip. It is born DISPATCHED when both a vehicle and a
// driver are assigned up front, DRAFT otherwise.
func (s *TripService) Create(ctx context.Context, actor trip.Actor, req *trip.CreateTripRequest) (*trip.Trip, error) {
	if !user.IsStaff(actor.Role) {
		return nil, xerrors.Forbiddenf("only managers and dispatchers may create trips")
	}

	if req.VehicleID != nil {
		if err := s.checkCapacity(ctx, *req.VehicleID, req.CargoWeight); err != nil {
			return nil, err
		}
	}

	status := trip.StatusDraft
	if req.VehicleID != nil && req.DriverID != nil {
		status = trip.StatusDispatched
	}

	t := &trip.Trip{
		Reference:     newReference(),
		TripType:      req.TripType,
		Origin:        req.Origin,
		Destination:   req.Destination,
		CargoWeight:   req.CargoWeight,
		EstimatedFuel: req.EstimatedFuel,
		VehicleID:     req.VehicleID,
		DriverID:      req.DriverID,
		CreatedByID:   actor.ID,
		Status:        status,
	}
	var effects *trip.TransitionEffects
	if status == trip.StatusDispatched {
		effects = &trip.TransitionEffects{}
		if err := s.addVehicleEffect(ctx, effects, *t.VehicleID, vehicle.StatusInUse); err != nil {
			return nil, err
		}
	}
	if err := s.tripRepo.Create(ctx, t, effects); err != nil {
		s.logger.Error("failed to create trip", zap.Error(err))
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	s.logger.Info("trip created",
		zap.Int64("trip_id", t.ID),
		zap.String("reference", t.Reference),
		zap.String("status", string(t.Status)),
	)
	return t, nil
}

// Get returns a trip with its derived cost breakdown.
func (s *TripService) Get(ctx context.Context, actor trip.Actor, id int64) (*trip.Info, error) {
	t, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleDriver && t.DriverID != nil && *t.DriverID != actor.ID {
		return nil, xerrors.Forbiddenf("not your trip")
	}

	info := &trip.Info{Trip: *t}
	if t.VehicleID != nil {
		if v, err := s.vehicleRepo.FindByID(ctx, *t.VehicleID); err == nil {
			info.Vehicle = v
		}
	}

	linked, err := s.expenseRepo.ListByTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip expenses: %w", err)
	}
	fuelLogs, err := s.fuelRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fuel logs: %w", err)
	}
	maintLogs, err := s.maintRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance logs: %w", err)
	}

	info.Expenses = linked
	cost := analytics.ComputeTripCost(t, linked, fuelLogs, maintLogs, s.now())
	info.TotalExpense = cost.Total
	return info, nil
}

// Cost returns just the derived cost breakdown of a trip.
func (s *TripService) Cost(ctx context.Context, id int64) (*analytics.TripCost, error) {
	t, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	linked, err := s.expenseRepo.ListByTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load trip expenses: %w", err)
	}
	fuelLogs, err := s.fuelRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fuel logs: %w", err)
	}
	maintLogs, err := s.maintRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance logs: %w", err)
	}
	cost := analytics.ComputeTripCost(t, linked, fuelLogs, maintLogs, s.now())
	return &cost, nil
}

// List returns trips visible to the actor, each with its derived total
// expense. Drivers see their own trips plus unassigned drafts they could
// accept.
func (s *TripService) List(ctx context.Context, actor trip.Actor, search string) ([]trip.Info, error) {
	var driverID *int64
	if actor.Role == user.RoleDriver {
		driverID = &actor.ID
	}

	infos, err := s.tripRepo.List(ctx, driverID, search)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return infos, nil
	}

	expenses, err := s.expenseRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	fuelLogs, err := s.fuelRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load fuel logs: %w", err)
	}
	maintLogs, err := s.maintRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load maintenance logs: %w", err)
	}

	byTrip := make(map[int64][]expense.Expense)
	for _, e := range expenses {
		if e.TripID != nil {
			byTrip[*e.TripID] = append(byTrip[*e.TripID], e)
		}
	}

	now := s.now()
	for i := range infos {
		cost := analytics.ComputeTripCost(&infos[i].Trip, byTrip[infos[i].ID], fuelLogs, maintLogs, now)
		infos[i].TotalExpense = cost.Total
	}
	return infos, nil
}

// Update applies field edits and/or a status transition. Drivers may only
// move status; every other field is staff-only. The whole request is
// validated before anything persists: a rejected transition leaves the field
// edits unapplied too.
func (s *TripService) Update(ctx context.Context, actor trip.Actor, id int64, req *trip.UpdateTripRequest) (*trip.Trip, error) {
	t, err := s.tripRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	edits := req.HasFieldEdits()
	if edits {
		if !user.IsStaff(actor.Role) {
			return nil, xerrors.Forbiddenf("drivers may not edit trip details")
		}
		if t.Status.IsTerminal() {
			return nil, xerrors.Validationf("cannot edit a %s trip", t.Status)
		}
		if err := s.applyFieldEdits(ctx, t, req); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := s.authorizeTransition(actor, t, *req.Status); err != nil {
			return nil, err
		}
		if !trip.CanTransition(t.Status, *req.Status) {
			return nil, xerrors.Validationf("invalid trip status transition: %s -> %s", t.Status, *req.Status)
		}
	}

	if edits {
		if err := s.tripRepo.UpdateFields(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to update trip: %w", err)
		}
	}
	if req.Status != nil {
		if err := s.applyTransition(ctx, actor, t, *req.Status); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Delete removes a trip. Staff only.
func (s *TripService) Delete(ctx context.Context, actor trip.Actor, id int64) error {
	if !user.IsStaff(actor.Role) {
		return xerrors.Forbiddenf("only managers and dispatchers may delete trips")
	}
	if err := s.tripRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("trip deleted", zap.Int64("trip_id", id))
	return nil
}

func (s *TripService) applyFieldEdits(ctx context.Context, t *trip.Trip, req *trip.UpdateTripRequest) error {
	if req.TripType != nil {
		t.TripType = *req.TripType
	}
	if req.Origin != nil {
		t.Origin = *req.Origin
	}
	if req.Destination != nil {
		t.Destination = *req.Destination
	}
	if req.CargoWeight != nil {
		t.CargoWeight = *req.CargoWeight
	}
	if req.EstimatedFuel != nil {
		t.EstimatedFuel = req.EstimatedFuel
	}
	if req.VehicleID != nil {
		t.VehicleID = req.VehicleID
	}
	if req.DriverID != nil {
		t.DriverID = req.DriverID
	}

	if t.VehicleID != nil && (req.VehicleID != nil || req.CargoWeight != nil) {
		return s.checkCapacity(ctx, *t.VehicleID, t.CargoWeight)
	}
	return nil
}

// authorizeTransition checks who may perform the lifecycle step. A driver
// taking an unassigned trip becomes its assignee here, in memory; nothing is
// persisted until the transition as a whole goes through.
func (s *TripService) authorizeTransition(actor trip.Actor, t *trip.Trip, to trip.Status) error {
	isDriver := actor.Role == user.RoleDriver

	switch to {
	case trip.StatusDispatched:
		if isDriver {
			// A driver accepting an unassigned draft becomes its assignee.
			if t.DriverID != nil && *t.DriverID != actor.ID {
				return xerrors.Forbiddenf("not your trip")
			}
			if t.DriverID == nil {
				id := actor.ID
				t.DriverID = &id
			}
		} else if !user.IsStaff(actor.Role) {
			return xerrors.Forbiddenf("role %s may not dispatch trips", actor.Role)
		}
		if t.DriverID == nil {
			return xerrors.Validationf("a trip needs an assigned driver before dispatch")
		}
	case trip.StatusInProgress:
		if !isDriver {
			return xerrors.Forbiddenf("only drivers start trips")
		}
		if t.DriverID != nil && *t.DriverID != actor.ID {
			return xerrors.Forbiddenf("not your trip")
		}
		if t.DriverID == nil {
			id := actor.ID
			t.DriverID = &id
		}
	case trip.StatusCompleted:
		if !isDriver {
			return xerrors.Forbiddenf("only the assigned driver completes a trip")
		}
		if t.DriverID == nil || *t.DriverID != actor.ID {
			return xerrors.Forbiddenf("not your trip")
		}
	case trip.StatusCancelled:
		if !user.IsStaff(actor.Role) {
			return xerrors.Forbiddenf("only managers and dispatchers may cancel trips")
		}
	default:
		return xerrors.Validationf("unknown trip status: %s", to)
	}
	return nil
}

// applyTransition runs the state machine and persists the trip with its side
// effects atomically.
func (s *TripService) applyTransition(ctx context.Context, actor trip.Actor, t *trip.Trip, to trip.Status) error {
	if err := trip.ApplyTransition(t, to, s.now()); err != nil {
		return err
	}

	effects := &trip.TransitionEffects{}
	if t.VehicleID != nil {
		switch to {
		case trip.StatusDispatched, trip.StatusInProgress:
			if err := s.addVehicleEffect(ctx, effects, *t.VehicleID, vehicle.StatusInUse); err != nil {
				return err
			}
		case trip.StatusCompleted:
			if err := s.addVehicleEffect(ctx, effects, *t.VehicleID, vehicle.StatusAvailable); err != nil {
				return err
			}
		}
	}
	if to == trip.StatusCompleted && t.DriverID != nil {
		effects.CompletedDriverID = t.DriverID
	}

	if err := s.tripRepo.ApplyTransition(ctx, t, effects); err != nil {
		s.logger.Error("failed to apply trip transition",
			zap.Int64("trip_id", t.ID),
			zap.String("to", string(to)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to apply trip transition: %w", err)
	}

	s.logger.Info("trip transitioned",
		zap.Int64("trip_id", t.ID),
		zap.String("status", string(t.Status)),
		zap.Int64("actor_id", actor.ID),
	)
	return nil
}

// addVehicleEffect stages a vehicle status write unless the vehicle is held
// in the shop by an open maintenance log, which outranks the trip lifecycle.
// An inconclusive check fails the whole mutation: committing a trip status
// without its vehicle effect would strand the vehicle in its old state.
func (s *TripService) addVehicleEffect(ctx context.Context, effects *trip.TransitionEffects, vehicleID int64, status vehicle.Status) error {
	open, err := s.maintRepo.HasOpenForVehicle(ctx, vehicleID)
	if err != nil {
		return fmt.Errorf("failed to check open maintenance: %w", err)
	}
	if open {
		return nil
	}
	effects.VehicleID = &vehicleID
	effects.VehicleStatus = &status
	return nil
}

func (s *TripService) checkCapacity(ctx context.Context, vehicleID int64, cargoWeight float64) error {
	v, err := s.vehicleRepo.FindByID(ctx, vehicleID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			return xerrors.Validationf("vehicle %d does not exist", vehicleID)
		}
		return err
	}
	if cargoWeight > v.MaxLoadCapacity {
		return xerrors.Validationf("Cargo weight (%g kg) exceeds vehicle max load capacity (%g kg)",
			cargoWeight, v.MaxLoadCapacity)
	}
	return nil
}
