package trip

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/domain/user"
	"fleetflow-service/internal/domain/vehicle"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// ---- in-memory fakes ----

type fakeTripRepo struct {
	trips  map[int64]*trip.Trip
	nextID int64
	// vehicles receives the staged status writes, mimicking the repo tx
	vehicles *fakeVehicleRepo
	// failEffects makes any mutation carrying a vehicle effect fail whole,
	// as a rolled-back transaction would
	failEffects error
	// effects recorded by the last ApplyTransition call
	lastEffects *trip.TransitionEffects
}

func newFakeTripRepo() *fakeTripRepo {
	return &fakeTripRepo{trips: make(map[int64]*trip.Trip), nextID: 1}
}

func (r *fakeTripRepo) applyEffects(effects *trip.TransitionEffects) error {
	if effects == nil || effects.VehicleID == nil {
		return nil
	}
	if r.failEffects != nil {
		return r.failEffects
	}
	if r.vehicles != nil {
		r.vehicles.vehicles[*effects.VehicleID].Status = *effects.VehicleStatus
	}
	return nil
}

func (r *fakeTripRepo) Create(_ context.Context, t *trip.Trip, effects *trip.TransitionEffects) error {
	// effects fail before the trip row lands, like a single transaction
	if err := r.applyEffects(effects); err != nil {
		return err
	}
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

func (r *fakeTripRepo) FindByID(_ context.Context, id int64) (*trip.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTripRepo) UpdateFields(_ context.Context, t *trip.Trip) error {
	if _, ok := r.trips[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *t
	r.trips[t.ID] = &cp
	return nil
}

func (r *fakeTripRepo) ApplyTransition(_ context.Context, t *trip.Trip, effects *trip.TransitionEffects) error {
	if _, ok := r.trips[t.ID]; !ok {
		return xerrors.ErrNotFound
	}
	if err := r.applyEffects(effects); err != nil {
		return err
	}
	cp := *t
	r.trips[t.ID] = &cp
	r.lastEffects = effects
	return nil
}

func (r *fakeTripRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.trips[id]; !ok {
		return xerrors.ErrNotFound
	}
	delete(r.trips, id)
	return nil
}

func (r *fakeTripRepo) List(_ context.Context, driverID *int64, _ string) ([]trip.Info, error) {
	var out []trip.Info
	for _, t := range r.trips {
		if driverID != nil {
			mine := t.DriverID != nil && *t.DriverID == *driverID
			openDraft := t.Status == trip.StatusDraft && t.DriverID == nil
			if !mine && !openDraft {
				continue
			}
		}
		out = append(out, trip.Info{Trip: *t})
	}
	return out, nil
}

func (r *fakeTripRepo) ListAll(_ context.Context) ([]trip.Trip, error) {
	var out []trip.Trip
	for _, t := range r.trips {
		out = append(out, *t)
	}
	return out, nil
}

type fakeVehicleRepo struct {
	vehicles map[int64]*vehicle.Vehicle
}

func newFakeVehicleRepo(vs ...*vehicle.Vehicle) *fakeVehicleRepo {
	r := &fakeVehicleRepo{vehicles: make(map[int64]*vehicle.Vehicle)}
	for _, v := range vs {
		r.vehicles[v.ID] = v
	}
	return r
}

func (r *fakeVehicleRepo) Create(_ context.Context, v *vehicle.Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id int64) (*vehicle.Vehicle, error) {
	v, ok := r.vehicles[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicle.Vehicle) error {
	r.vehicles[v.ID] = v
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id int64) error {
	delete(r.vehicles, id)
	return nil
}

func (r *fakeVehicleRepo) List(_ context.Context, _ string) ([]vehicle.Vehicle, error) {
	var out []vehicle.Vehicle
	for _, v := range r.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVehicleRepo) UpdateStatus(_ context.Context, id int64, status vehicle.Status) error {
	v, ok := r.vehicles[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	v.Status = status
	return nil
}

type fakeMaintRepo struct {
	open map[int64]bool // vehicleID -> has open log
	err  error          // returned by HasOpenForVehicle when set
}

func (r *fakeMaintRepo) Create(_ context.Context, _ *maintenance.Log) error { return nil }
func (r *fakeMaintRepo) FindByID(_ context.Context, _ int64) (*maintenance.Log, error) {
	return nil, xerrors.ErrNotFound
}
func (r *fakeMaintRepo) Update(_ context.Context, _ *maintenance.Log) error     { return nil }
func (r *fakeMaintRepo) Complete(_ context.Context, _ int64) (bool, error)      { return false, nil }
func (r *fakeMaintRepo) Delete(_ context.Context, _ int64) error                { return nil }
func (r *fakeMaintRepo) List(_ context.Context) ([]maintenance.Info, error)     { return nil, nil }
func (r *fakeMaintRepo) ListAll(_ context.Context) ([]maintenance.Log, error) {
	return nil, nil
}
func (r *fakeMaintRepo) HasOpenForVehicle(_ context.Context, vehicleID int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return r.open[vehicleID], nil
}

type fakeExpenseRepo struct {
	expenses []expense.Expense
}

func (r *fakeExpenseRepo) Create(_ context.Context, _ *expense.Expense) error { return nil }
func (r *fakeExpenseRepo) FindByID(_ context.Context, _ int64) (*expense.Expense, error) {
	return nil, xerrors.ErrNotFound
}
func (r *fakeExpenseRepo) Update(_ context.Context, _ *expense.Expense) error { return nil }
func (r *fakeExpenseRepo) Delete(_ context.Context, _ int64) error            { return nil }
func (r *fakeExpenseRepo) List(_ context.Context) ([]expense.Info, error)     { return nil, nil }
func (r *fakeExpenseRepo) ListAll(_ context.Context) ([]expense.Expense, error) {
	return r.expenses, nil
}
func (r *fakeExpenseRepo) ListByTrip(_ context.Context, tripID int64) ([]expense.Expense, error) {
	var out []expense.Expense
	for _, e := range r.expenses {
		if e.TripID != nil && *e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeFuelRepo struct {
	logs []fuel.Log
}

func (r *fakeFuelRepo) Create(_ context.Context, _ *fuel.Log) error { return nil }
func (r *fakeFuelRepo) FindByID(_ context.Context, _ int64) (*fuel.Log, error) {
	return nil, xerrors.ErrNotFound
}
func (r *fakeFuelRepo) Update(_ context.Context, _ *fuel.Log) error   { return nil }
func (r *fakeFuelRepo) Delete(_ context.Context, _ int64) error       { return nil }
func (r *fakeFuelRepo) List(_ context.Context) ([]fuel.Info, error)   { return nil, nil }
func (r *fakeFuelRepo) ListAll(_ context.Context) ([]fuel.Log, error) { return r.logs, nil }

// ---- helpers ----

func newService(tr *fakeTripRepo, vr *fakeVehicleRepo, mr *fakeMaintRepo) *TripService {
	if mr == nil {
		mr = &fakeMaintRepo{}
	}
	tr.vehicles = vr
	return NewTripService(tr, vr, mr, &fakeExpenseRepo{}, &fakeFuelRepo{}, zap.NewNop())
}

func truck(id int64, capacity float64) *vehicle.Vehicle {
	return &vehicle.Vehicle{
		ID:              id,
		Name:            "Test Truck",
		MaxLoadCapacity: capacity,
		Status:          vehicle.StatusAvailable,
	}
}

var (
	manager = trip.Actor{ID: 1, Role: user.RoleFleetManager}
	driverA = trip.Actor{ID: 7, Role: user.RoleDriver}
	driverB = trip.Actor{ID: 8, Role: user.RoleDriver}
)

func ptr[T any](v T) *T { return &v }

// ---- tests ----

func TestCreateRejectsOverCapacity(t *testing.T) {
	svc := newService(newFakeTripRepo(), newFakeVehicleRepo(truck(1, 750)), nil)

	_, err := svc.Create(context.Background(), manager, &trip.CreateTripRequest{
		Origin:      "Nairobi",
		Destination: "Mombasa",
		CargoWeight: 800,
		VehicleID:   ptr(int64(1)),
	})
	if err == nil {
		t.Fatal("expected capacity error")
	}
	if !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "750") {
		t.Fatalf("error must name the capacity, got %q", err.Error())
	}
}

func TestCreateFullyAssignedIsDispatched(t *testing.T) {
	vr := newFakeVehicleRepo(truck(1, 750))
	svc := newService(newFakeTripRepo(), vr, nil)

	created, err := svc.Create(context.Background(), manager, &trip.CreateTripRequest{
		Origin:      "Nairobi",
		Destination: "Mombasa",
		CargoWeight: 600,
		VehicleID:   ptr(int64(1)),
		DriverID:    ptr(driverA.ID),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != trip.StatusDispatched {
		t.Fatalf("want DISPATCHED, got %s", created.Status)
	}
	if !strings.HasPrefix(created.Reference, "TRP-") {
		t.Fatalf("want TRP- reference, got %q", created.Reference)
	}
	if vr.vehicles[1].Status != vehicle.StatusInUse {
		t.Fatalf("want vehicle IN_USE, got %s", vr.vehicles[1].Status)
	}
}

func TestCreateWithoutDriverStaysDraft(t *testing.T) {
	vr := newFakeVehicleRepo(truck(1, 750))
	svc := newService(newFakeTripRepo(), vr, nil)

	created, err := svc.Create(context.Background(), manager, &trip.CreateTripRequest{
		Origin:      "Kisumu",
		Destination: "Nakuru",
		CargoWeight: 100,
		VehicleID:   ptr(int64(1)),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != trip.StatusDraft {
		t.Fatalf("want DRAFT, got %s", created.Status)
	}
	if vr.vehicles[1].Status != vehicle.StatusAvailable {
		t.Fatalf("draft must not touch the vehicle, got %s", vr.vehicles[1].Status)
	}
}

func TestCreateRequiresStaff(t *testing.T) {
	svc := newService(newFakeTripRepo(), newFakeVehicleRepo(), nil)

	_, err := svc.Create(context.Background(), driverA, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 1,
	})
	if !xerrors.Is(err, xerrors.ErrForbidden) {
		t.Fatalf("want forbidden, got %v", err)
	}
}

func TestDriverAcceptStartComplete(t *testing.T) {
	tr := newFakeTripRepo()
	vr := newFakeVehicleRepo(truck(1, 750))
	svc := newService(tr, vr, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100, VehicleID: ptr(int64(1)),
	})
	if err != nil {
		t.Fatal(err)
	}

	// accept
	updated, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusDispatched)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Status != trip.StatusDispatched {
		t.Fatalf("want DISPATCHED, got %s", updated.Status)
	}
	if updated.DriverID == nil || *updated.DriverID != driverA.ID {
		t.Fatal("accepting a draft must assign the driver")
	}

	// another driver cannot start it
	if _, err := svc.Update(ctx, driverB, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); !xerrors.Is(err, xerrors.ErrForbidden) {
		t.Fatalf("want forbidden for foreign driver, got %v", err)
	}

	// start
	updated, err = svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.StartedAt == nil {
		t.Fatal("startedAt must be set on IN_PROGRESS")
	}
	if tr.lastEffects == nil || tr.lastEffects.VehicleStatus == nil || *tr.lastEffects.VehicleStatus != vehicle.StatusInUse {
		t.Fatal("starting must stage a vehicle IN_USE effect")
	}

	// complete
	updated, err = svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusCompleted)})
	if err != nil {
		t.Fatal(err)
	}
	if updated.CompletedAt == nil {
		t.Fatal("completedAt must be set on COMPLETED")
	}
	if tr.lastEffects.VehicleStatus == nil || *tr.lastEffects.VehicleStatus != vehicle.StatusAvailable {
		t.Fatal("completing must stage a vehicle AVAILABLE effect")
	}
	if tr.lastEffects.CompletedDriverID == nil || *tr.lastEffects.CompletedDriverID != driverA.ID {
		t.Fatal("completing must stage the driver counter increment")
	}
}

func TestRepeatStartIsRejected(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
		VehicleID: ptr(int64(1)), DriverID: ptr(driverA.ID),
	})
	if _, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("repeat IN_PROGRESS must be rejected, got %v", err)
	}
}

func TestTerminalTripRejectsTransitions(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
	})
	if _, err := svc.Update(ctx, manager, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusCancelled)}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, manager, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusDispatched)}); !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("cancelled trip must reject transitions, got %v", err)
	}
}

func TestDriverCannotEditFields(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100, DriverID: ptr(driverA.ID),
	})
	_, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Origin: ptr("Elsewhere")})
	if !xerrors.Is(err, xerrors.ErrForbidden) {
		t.Fatalf("driver field edit must be forbidden, got %v", err)
	}
}

func TestDispatchRequiresDriver(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	created, _ := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100, VehicleID: ptr(int64(1)),
	})
	_, err := svc.Update(ctx, manager, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusDispatched)})
	if !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("dispatch without driver must be rejected, got %v", err)
	}
}

func TestOpenMaintenanceBlocksVehicleEffect(t *testing.T) {
	tr := newFakeTripRepo()
	vr := newFakeVehicleRepo(truck(1, 750))
	vr.vehicles[1].Status = vehicle.StatusInShop
	mr := &fakeMaintRepo{open: map[int64]bool{1: true}}
	svc := newService(tr, vr, mr)
	ctx := context.Background()

	created, err := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
		VehicleID: ptr(int64(1)), DriverID: ptr(driverA.ID),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != trip.StatusDispatched {
		t.Fatalf("want DISPATCHED, got %s", created.Status)
	}
	// the shop holds the vehicle
	if vr.vehicles[1].Status != vehicle.StatusInShop {
		t.Fatalf("open maintenance must keep the vehicle IN_SHOP, got %s", vr.vehicles[1].Status)
	}

	if _, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); err != nil {
		t.Fatal(err)
	}
	if tr.lastEffects.VehicleID != nil {
		t.Fatal("no vehicle effect may be staged while maintenance is open")
	}
}

func TestCreateVehicleWriteFailureLeavesNoTrip(t *testing.T) {
	tr := newFakeTripRepo()
	vr := newFakeVehicleRepo(truck(1, 750))
	svc := newService(tr, vr, nil)
	tr.failEffects = errors.New("store unavailable")

	_, err := svc.Create(context.Background(), manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
		VehicleID: ptr(int64(1)), DriverID: ptr(driverA.ID),
	})
	if err == nil {
		t.Fatal("expected create to fail")
	}
	if len(tr.trips) != 0 {
		t.Fatalf("failed create must leave no trip row, found %d", len(tr.trips))
	}
	if vr.vehicles[1].Status != vehicle.StatusAvailable {
		t.Fatalf("vehicle must be untouched, got %s", vr.vehicles[1].Status)
	}
}

func TestMaintenanceCheckFailureFailsTransition(t *testing.T) {
	tr := newFakeTripRepo()
	vr := newFakeVehicleRepo(truck(1, 750))
	mr := &fakeMaintRepo{}
	svc := newService(tr, vr, mr)
	ctx := context.Background()

	created, err := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
		VehicleID: ptr(int64(1)), DriverID: ptr(driverA.ID),
	})
	if err != nil {
		t.Fatal(err)
	}

	mr.err = errors.New("store unavailable")
	if _, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); err == nil {
		t.Fatal("an inconclusive maintenance check must fail the transition")
	}
	stored, _ := tr.FindByID(ctx, created.ID)
	if stored.Status != trip.StatusDispatched {
		t.Fatalf("trip must keep its status, got %s", stored.Status)
	}
	if tr.lastEffects != nil {
		t.Fatal("nothing may be persisted when the check fails")
	}
}

func TestRejectedTransitionLeavesEditsUnapplied(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, manager, &trip.CreateTripRequest{
		Origin: "A", Destination: "B", CargoWeight: 100,
		VehicleID: ptr(int64(1)), DriverID: ptr(driverA.ID),
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Update(ctx, driverA, created.ID, &trip.UpdateTripRequest{Status: ptr(trip.StatusInProgress)}); err != nil {
		t.Fatal(err)
	}

	// Edits combined with an illegal transition must be rejected whole.
	_, err = svc.Update(ctx, manager, created.ID, &trip.UpdateTripRequest{
		Origin: ptr("Elsewhere"),
		Status: ptr(trip.StatusDispatched),
	})
	if !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	stored, _ := tr.FindByID(ctx, created.ID)
	if stored.Origin != "A" {
		t.Fatalf("rejected request must not persist edits, origin = %q", stored.Origin)
	}
	if stored.Status != trip.StatusInProgress {
		t.Fatalf("status must be unchanged, got %s", stored.Status)
	}
}

func TestDriverListScoping(t *testing.T) {
	tr := newFakeTripRepo()
	svc := newService(tr, newFakeVehicleRepo(truck(1, 750)), nil)
	ctx := context.Background()

	svc.Create(ctx, manager, &trip.CreateTripRequest{Origin: "A", Destination: "B", CargoWeight: 1})                            // open draft
	svc.Create(ctx, manager, &trip.CreateTripRequest{Origin: "C", Destination: "D", CargoWeight: 1, DriverID: ptr(driverA.ID)}) // driver A's
	svc.Create(ctx, manager, &trip.CreateTripRequest{Origin: "E", Destination: "F", CargoWeight: 1, DriverID: ptr(driverB.ID)}) // driver B's

	trips, err := svc.List(ctx, driverA, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(trips) != 2 {
		t.Fatalf("driver must see own trips plus open drafts, got %d", len(trips))
	}
	for _, ti := range trips {
		if ti.DriverID != nil && *ti.DriverID == driverB.ID {
			t.Fatal("driver must not see another driver's trip")
		}
	}
}
