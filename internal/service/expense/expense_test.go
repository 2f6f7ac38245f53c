package expense

import (
	"context"
	"testing"
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/trip"
	xerrors "fleetflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

type fakeExpenseRepo struct {
	expenses map[int64]*expense.Expense
	nextID   int64
}

func newFakeExpenseRepo() *fakeExpenseRepo {
	return &fakeExpenseRepo{expenses: make(map[int64]*expense.Expense), nextID: 1}
}

func (r *fakeExpenseRepo) Create(_ context.Context, e *expense.Expense) error {
	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func (r *fakeExpenseRepo) FindByID(_ context.Context, id int64) (*expense.Expense, error) {
	e, ok := r.expenses[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (r *fakeExpenseRepo) Update(_ context.Context, e *expense.Expense) error {
	if _, ok := r.expenses[e.ID]; !ok {
		return xerrors.ErrNotFound
	}
	cp := *e
	r.expenses[e.ID] = &cp
	return nil
}

func (r *fakeExpenseRepo) Delete(_ context.Context, id int64) error {
	delete(r.expenses, id)
	return nil
}

func (r *fakeExpenseRepo) List(_ context.Context) ([]expense.Info, error) {
	out := make([]expense.Info, 0, len(r.expenses))
	for _, e := range r.expenses {
		out = append(out, expense.Info{Expense: *e})
	}
	return out, nil
}

func (r *fakeExpenseRepo) ListAll(_ context.Context) ([]expense.Expense, error) { return nil, nil }
func (r *fakeExpenseRepo) ListByTrip(_ context.Context, _ int64) ([]expense.Expense, error) {
	return nil, nil
}

type fakeFuelRepo struct {
	infos []fuel.Info
}

func (r *fakeFuelRepo) Create(_ context.Context, _ *fuel.Log) error { return nil }
func (r *fakeFuelRepo) FindByID(_ context.Context, _ int64) (*fuel.Log, error) {
	return nil, xerrors.ErrNotFound
}
func (r *fakeFuelRepo) Update(_ context.Context, _ *fuel.Log) error   { return nil }
func (r *fakeFuelRepo) Delete(_ context.Context, _ int64) error       { return nil }
func (r *fakeFuelRepo) List(_ context.Context) ([]fuel.Info, error)   { return r.infos, nil }
func (r *fakeFuelRepo) ListAll(_ context.Context) ([]fuel.Log, error) { return nil, nil }

type fakeTripRepo struct {
	trips map[int64]*trip.Trip
}

func (r *fakeTripRepo) Create(_ context.Context, _ *trip.Trip, _ *trip.TransitionEffects) error {
	return nil
}
func (r *fakeTripRepo) FindByID(_ context.Context, id int64) (*trip.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	return t, nil
}
func (r *fakeTripRepo) UpdateFields(_ context.Context, _ *trip.Trip) error { return nil }
func (r *fakeTripRepo) ApplyTransition(_ context.Context, _ *trip.Trip, _ *trip.TransitionEffects) error {
	return nil
}
func (r *fakeTripRepo) Delete(_ context.Context, _ int64) error { return nil }
func (r *fakeTripRepo) List(_ context.Context, _ *int64, _ string) ([]trip.Info, error) {
	return nil, nil
}
func (r *fakeTripRepo) ListAll(_ context.Context) ([]trip.Trip, error) { return nil, nil }

func newService() (*ExpenseService, *fakeExpenseRepo, *fakeFuelRepo) {
	expenses := newFakeExpenseRepo()
	fuelRepo := &fakeFuelRepo{}
	trips := &fakeTripRepo{trips: map[int64]*trip.Trip{
		10: {ID: 10, Origin: "Nairobi", Destination: "Mombasa"},
	}}
	return NewExpenseService(expenses, fuelRepo, trips, zap.NewNop()), expenses, fuelRepo
}

func TestCreateValidatesCategoryAndTrip(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, &expense.CreateExpenseRequest{
		Category: "Snacks", Amount: 5,
	})
	if !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("unknown category: want validation error, got %v", err)
	}

	_, err = svc.Create(ctx, 1, &expense.CreateExpenseRequest{
		TripID: ptr(int64(404)), Category: expense.CategoryToll, Amount: 5,
	})
	if !xerrors.Is(err, xerrors.ErrValidation) {
		t.Fatalf("missing trip: want validation error, got %v", err)
	}

	e, err := svc.Create(ctx, 1, &expense.CreateExpenseRequest{
		TripID: ptr(int64(10)), Category: expense.CategoryToll, Amount: 5, Date: "2024-12-01",
	})
	if err != nil {
		t.Fatal(err)
	}
	if e.ID == 0 || e.CreatedByID != 1 {
		t.Fatalf("bad expense: %+v", e)
	}
}

func TestCombinedMergesFuelRows(t *testing.T) {
	svc, expenses, fuelRepo := newService()
	ctx := context.Background()

	expenses.expenses[1] = &expense.Expense{
		ID: 1, Category: expense.CategoryToll, Amount: 25, Date: date(2024, 12, 1),
	}
	expenses.expenses[2] = &expense.Expense{
		ID: 2, Category: expense.CategoryParking, Amount: 10, Date: date(2024, 12, 5),
	}
	fuelRepo.infos = []fuel.Info{
		{
			Log:         fuel.Log{ID: 7, VehicleID: 1, Liters: 42.5, TotalCost: 85, Date: date(2024, 12, 3)},
			VehicleName: "Truck A",
		},
	}

	entries, err := svc.Combined(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("want 3 entries, got %d", len(entries))
	}

	// Newest first: Dec 5 parking, Dec 3 fuel, Dec 1 toll.
	if entries[0].ID != "2" || entries[0].Source != expense.SourceDirect {
		t.Fatalf("entries[0] = %+v", entries[0])
	}
	fuelEntry := entries[1]
	if fuelEntry.ID != "fuel-7" {
		t.Fatalf("fuel pseudo id = %q, want fuel-7", fuelEntry.ID)
	}
	if fuelEntry.Source != expense.SourceFuelDerived || fuelEntry.Category != expense.CategoryFuel {
		t.Fatalf("fuel entry = %+v", fuelEntry)
	}
	if fuelEntry.Amount != 85 {
		t.Fatalf("fuel amount = %v, want 85", fuelEntry.Amount)
	}
	if fuelEntry.Description != "Fuel - Truck A (42.5 L)" {
		t.Fatalf("fuel description = %q", fuelEntry.Description)
	}
	if entries[2].ID != "1" {
		t.Fatalf("entries[2] = %+v", entries[2])
	}
}

func TestCombinedEmpty(t *testing.T) {
	svc, _, _ := newService()

	entries, err := svc.Combined(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("want empty list, got %d entries", len(entries))
	}
}
