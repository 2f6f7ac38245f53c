package analytics

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

	"go.uber.org/zap"
)

// AnalyticsService computes the financial and operational rollups. It only
// ever reads; every number is re-derived from the store on each call.
type AnalyticsService struct {
	vehicleRepo vehicle.Repository
	tripRepo    trip.Repository
	fuelRepo    fuel.Repository
	maintRepo   maintenance.Repository
	expenseRepo expense.Repository
	userRepo    user.Repository
	logger      *zap.Logger
	now         func() time.Time
}

func NewAnalyticsService(
	vehicleRepo vehicle.Repository,
	tripRepo trip.Repository,
	fuelRepo fuel.Repository,
	maintRepo maintenance.Repository,
	expenseRepo expense.Repository,
	userRepo user.Repository,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		fuelRepo:    fuelRepo,
		maintRepo:   maintRepo,
		expenseRepo: expenseRepo,
		userRepo:    userRepo,
		logger:      logger,
		now:         time.Now,
	}
}

type snapshot struct {
	vehicles []vehicle.Vehicle
	trips    []trip.Trip
	fuelLogs []fuel.Log
	maint    []maintenance.Log
	expenses []expense.Expense
	drivers  int64
}

func (s *AnalyticsService) load(ctx context.Context) (*snapshot, error) {
	var (
		snap snapshot
		err  error
	)
	if snap.vehicles, err = s.vehicleRepo.List(ctx, ""); err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}
	if snap.trips, err = s.tripRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}
	if snap.fuelLogs, err = s.fuelRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load fuel logs: %w", err)
	}
	if snap.maint, err = s.maintRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load maintenance logs: %w", err)
	}
	if snap.expenses, err = s.expenseRepo.ListAll(ctx); err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}
	if snap.drivers, err = s.userRepo.CountDrivers(ctx); err != nil {
		return nil, fmt.Errorf("failed to count drivers: %w", err)
	}
	return &snap, nil
}

// Report builds the analytics payload for one calendar year. A zero year
// means the current one.
func (s *AnalyticsService) Report(ctx context.Context, year int) (*analytics.Report, error) {
	if year == 0 {
		year = s.now().Year()
	}
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	monthly := analytics.ComputeMonthlySummary(year, snap.trips, snap.fuelLogs, snap.maint, snap.expenses)
	vehicleCosts := analytics.ComputeVehicleCosts(year, snap.vehicles, snap.trips, snap.fuelLogs, snap.maint, snap.expenses)

	sum := analytics.Summary{
		TotalVehicles:   int64(len(snap.vehicles)),
		TotalDrivers:    snap.drivers,
		TotalTrips:      int64(len(snap.trips)),
		UtilizationRate: analytics.ComputeUtilization(snap.vehicles),
	}
	for _, v := range snap.vehicles {
		switch v.Status {
		case vehicle.StatusInUse:
			sum.ActiveVehicles++
		case vehicle.StatusInShop:
			sum.InShop++
		}
	}
	for _, t := range snap.trips {
		if t.Status == trip.StatusCompleted {
			sum.CompletedTrips++
		}
	}
	for _, f := range snap.fuelLogs {
		if f.Date.Year() == year {
			sum.TotalLiters += f.Liters
		}
	}
	// Yearly money totals are the sum of the twelve monthly rows.
	for _, row := range monthly {
		sum.TotalRevenue += row.Revenue
		sum.TotalFuelCost += row.FuelCost
		sum.TotalMaintenanceCost += row.Maintenance
		sum.TotalOtherExpenses += row.OtherExpenses
	}
	sum.OperationalCost = sum.TotalFuelCost + sum.TotalMaintenanceCost + sum.TotalOtherExpenses
	sum.NetProfit = sum.TotalRevenue - sum.OperationalCost

	return &analytics.Report{
		Summary:        sum,
		VehicleCosts:   vehicleCosts,
		MonthlySummary: monthly,
	}, nil
}

// KPIs returns the dashboard headline numbers for the current year.
func (s *AnalyticsService) KPIs(ctx context.Context) (*analytics.KPIs, error) {
	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	year := s.now().Year()

	k := &analytics.KPIs{
		TotalVehicles:   int64(len(snap.vehicles)),
		TotalDrivers:    snap.drivers,
		UtilizationRate: analytics.ComputeUtilization(snap.vehicles),
	}
	for _, v := range snap.vehicles {
		switch v.Status {
		case vehicle.StatusInUse:
			k.ActiveFleet++
		case vehicle.StatusInShop:
			k.InMaintenance++
		}
	}
	for _, t := range snap.trips {
		if t.Status == trip.StatusDraft || t.Status == trip.StatusDispatched {
			k.PendingShipments++
		}
	}

	monthly := analytics.ComputeMonthlySummary(year, snap.trips, snap.fuelLogs, snap.maint, snap.expenses)
	for _, row := range monthly {
		k.OperationalCost += row.FuelCost + row.Maintenance + row.OtherExpenses
	}

	recent, err := s.tripRepo.List(ctx, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load recent trips: %w", err)
	}
	if len(recent) > 10 {
		recent = recent[:10]
	}
	k.RecentTrips = recent
	return k, nil
}
