package analytics

import (
	"reflect"
	"testing"
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/domain/vehicle"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func TestComputeTripCostWindow(t *testing.T) {
	started := date(2024, 12, 1)
	completed := date(2024, 12, 3)
	tr := &trip.Trip{
		ID:          1,
		VehicleID:   ptr(int64(5)),
		Status:      trip.StatusCompleted,
		StartedAt:   &started,
		CompletedAt: &completed,
	}

	fuelLogs := []fuel.Log{
		{VehicleID: 5, TotalCost: 4297.5, Date: date(2024, 12, 2)},  // inside
		{VehicleID: 5, TotalCost: 1000, Date: date(2024, 12, 10)},   // after
		{VehicleID: 9, TotalCost: 99, Date: date(2024, 12, 2)},      // other vehicle
	}
	maintLogs := []maintenance.Log{
		{VehicleID: 5, Cost: 200, Date: date(2024, 12, 3)},  // boundary, inside
		{VehicleID: 5, Cost: 500, Date: date(2024, 11, 30)}, // before
	}
	linked := []expense.Expense{
		{TripID: ptr(int64(1)), Amount: 150},
	}

	cost := ComputeTripCost(tr, linked, fuelLogs, maintLogs, date(2025, 1, 1))
	if cost.DirectExpenses != 150 {
		t.Fatalf("direct = %v, want 150", cost.DirectExpenses)
	}
	if cost.FuelCost != 4297.5 {
		t.Fatalf("fuel = %v, want 4297.5", cost.FuelCost)
	}
	if cost.MaintenanceCost != 200 {
		t.Fatalf("maintenance = %v, want 200", cost.MaintenanceCost)
	}
	if cost.Total != 150+4297.5+200 {
		t.Fatalf("total = %v", cost.Total)
	}
}

func TestComputeTripCostNeverStarted(t *testing.T) {
	tr := &trip.Trip{ID: 1, VehicleID: ptr(int64(5)), Status: trip.StatusDraft}
	fuelLogs := []fuel.Log{{VehicleID: 5, TotalCost: 300, Date: date(2024, 6, 1)}}
	linked := []expense.Expense{{TripID: ptr(int64(1)), Amount: 40}}

	cost := ComputeTripCost(tr, linked, fuelLogs, nil, date(2024, 7, 1))
	if cost.FuelCost != 0 || cost.MaintenanceCost != 0 {
		t.Fatal("unstarted trip attracts no window costs")
	}
	if cost.Total != 40 {
		t.Fatalf("total = %v, want 40", cost.Total)
	}
}

func TestComputeTripCostOpenWindow(t *testing.T) {
	started := date(2024, 12, 1)
	tr := &trip.Trip{ID: 1, VehicleID: ptr(int64(5)), Status: trip.StatusInProgress, StartedAt: &started}
	fuelLogs := []fuel.Log{{VehicleID: 5, TotalCost: 100, Date: date(2024, 12, 20)}}

	// Window runs through "now" while the trip is unfinished.
	cost := ComputeTripCost(tr, nil, fuelLogs, nil, date(2024, 12, 25))
	if cost.FuelCost != 100 {
		t.Fatalf("fuel = %v, want 100", cost.FuelCost)
	}
	cost = ComputeTripCost(tr, nil, fuelLogs, nil, date(2024, 12, 15))
	if cost.FuelCost != 0 {
		t.Fatalf("fuel = %v, want 0 before the log date", cost.FuelCost)
	}
}

func TestComputeTripCostDeterministic(t *testing.T) {
	started := date(2024, 3, 1)
	completed := date(2024, 3, 5)
	tr := &trip.Trip{ID: 2, VehicleID: ptr(int64(1)), StartedAt: &started, CompletedAt: &completed}
	fuelLogs := []fuel.Log{{VehicleID: 1, TotalCost: 12.5, Date: date(2024, 3, 2)}}
	now := date(2024, 4, 1)

	a := ComputeTripCost(tr, nil, fuelLogs, nil, now)
	b := ComputeTripCost(tr, nil, fuelLogs, nil, now)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same snapshot must yield identical results")
	}
}

func TestMonthlySummaryShape(t *testing.T) {
	completedMar := date(2024, 3, 15)
	completedJul := date(2024, 7, 1)
	trips := []trip.Trip{
		{ID: 1, CargoWeight: 500, Status: trip.StatusCompleted, CompletedAt: &completedMar},
		{ID: 2, CargoWeight: 200, Status: trip.StatusCompleted, CompletedAt: &completedJul},
		{ID: 3, CargoWeight: 900, Status: trip.StatusInProgress}, // no revenue
	}
	fuelLogs := []fuel.Log{
		{VehicleID: 1, TotalCost: 100, Date: date(2024, 3, 10)},
		{VehicleID: 1, TotalCost: 50, Date: date(2023, 3, 10)}, // other year
	}
	maintLogs := []maintenance.Log{{VehicleID: 1, Cost: 80, Date: date(2024, 7, 2)}}
	expenses := []expense.Expense{
		{Category: expense.CategoryFuel, Amount: 20, Date: date(2024, 3, 11)},
		{Category: expense.CategoryToll, Amount: 30, Date: date(2024, 3, 12)},
	}

	rows := ComputeMonthlySummary(2024, trips, fuelLogs, maintLogs, expenses)
	if len(rows) != 12 {
		t.Fatalf("want 12 rows, got %d", len(rows))
	}

	mar := rows[2]
	if mar.Revenue != 5000 {
		t.Fatalf("march revenue = %v, want 5000", mar.Revenue)
	}
	if mar.FuelCost != 120 {
		t.Fatalf("march fuel = %v, want 120", mar.FuelCost)
	}
	if mar.OtherExpenses != 30 {
		t.Fatalf("march other = %v, want 30", mar.OtherExpenses)
	}
	if mar.NetProfit != 5000-120-30 {
		t.Fatalf("march net = %v", mar.NetProfit)
	}
	if rows[6].Revenue != 2000 || rows[6].Maintenance != 80 {
		t.Fatalf("july row wrong: %+v", rows[6])
	}

	// Yearly totals are the sum of the monthly rows.
	var revenue, fuelCost, maint, other float64
	for _, r := range rows {
		revenue += r.Revenue
		fuelCost += r.FuelCost
		maint += r.Maintenance
		other += r.OtherExpenses
	}
	if revenue != 7000 || fuelCost != 120 || maint != 80 || other != 30 {
		t.Fatalf("yearly sums wrong: %v %v %v %v", revenue, fuelCost, maint, other)
	}
}

func TestMonthlySummaryEmptyYear(t *testing.T) {
	rows := ComputeMonthlySummary(2020, nil, nil, nil, nil)
	if len(rows) != 12 {
		t.Fatalf("want 12 rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.Revenue != 0 || r.NetProfit != 0 {
			t.Fatalf("empty year must be all zeros: %+v", r)
		}
	}
}

func TestVehicleCostRouting(t *testing.T) {
	vehicles := []vehicle.Vehicle{
		{ID: 1, Name: "Truck A"},
		{ID: 2, Name: "Truck B"},
	}
	trips := []trip.Trip{
		{ID: 10, VehicleID: ptr(int64(1))},
		{ID: 11}, // no vehicle
	}
	fuelLogs := []fuel.Log{{VehicleID: 1, TotalCost: 500, Date: date(2024, 5, 1)}}
	maintLogs := []maintenance.Log{{VehicleID: 2, Cost: 300, Date: date(2024, 5, 1)}}
	expenses := []expense.Expense{
		{TripID: ptr(int64(10)), Category: expense.CategoryFuel, Amount: 50, Date: date(2024, 5, 2)},
		{TripID: ptr(int64(10)), Category: expense.CategoryToll, Amount: 25, Date: date(2024, 5, 2)},
		{TripID: ptr(int64(11)), Category: expense.CategoryFuel, Amount: 999, Date: date(2024, 5, 2)}, // unroutable
		{Category: expense.CategoryParking, Amount: 10, Date: date(2024, 5, 3)},                       // no trip
	}

	costs := ComputeVehicleCosts(2024, vehicles, trips, fuelLogs, maintLogs, expenses)
	if len(costs) != 2 {
		t.Fatalf("want 2 rows, got %d", len(costs))
	}
	a := costs[0]
	if a.Fuel != 550 || a.Other != 25 || a.Total != 575 {
		t.Fatalf("truck A wrong: %+v", a)
	}
	b := costs[1]
	if b.Maintenance != 300 || b.Total != 300 {
		t.Fatalf("truck B wrong: %+v", b)
	}
}

func TestUtilization(t *testing.T) {
	if got := ComputeUtilization(nil); got != 0 {
		t.Fatalf("empty fleet = %d, want 0", got)
	}
	fleet := []vehicle.Vehicle{
		{Status: vehicle.StatusInUse},
		{Status: vehicle.StatusAvailable},
		{Status: vehicle.StatusInShop},
	}
	if got := ComputeUtilization(fleet); got != 33 {
		t.Fatalf("utilization = %d, want 33", got)
	}
	fleet = append(fleet, vehicle.Vehicle{Status: vehicle.StatusInUse})
	if got := ComputeUtilization(fleet); got != 50 {
		t.Fatalf("utilization = %d, want 50", got)
	}
}
