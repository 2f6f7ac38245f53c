package analytics

import (
	"math"
	"time"

	"fleetflow-service/internal/domain/expense"
	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/domain/vehicle"
)

// The functions in this file are deterministic folds over store snapshots.
// They never mutate their inputs; every read path recomputes from scratch.

// tripWindow returns the [start, end] attribution window of a trip. A trip
// that never started has no window. An unfinished trip's window is open
// through now, so fuel bought on the vehicle after an abandoned trip still
// attributes to it. That matches the books as operators expect them, even
// though it can double-count when a vehicle is reused before the first trip
// is closed out.
func tripWindow(t *trip.Trip, now time.Time) (time.Time, time.Time, bool) {
	if t.StartedAt == nil {
		return time.Time{}, time.Time{}, false
	}
	end := now
	if t.CompletedAt != nil {
		end = *t.CompletedAt
	}
	return *t.StartedAt, end, true
}

func inWindow(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// ComputeTripCost derives a trip's cost breakdown: directly linked expenses,
// plus fuel and maintenance logged on the trip's vehicle inside its active
// window.
func ComputeTripCost(
	t *trip.Trip,
	linked []expense.Expense,
	fuelLogs []fuel.Log,
	maintLogs []maintenance.Log,
	now time.Time,
) TripCost {
	var c TripCost
	for _, e := range linked {
		c.DirectExpenses += e.Amount
	}

	if start, end, ok := tripWindow(t, now); ok && t.VehicleID != nil {
		for _, f := range fuelLogs {
			if f.VehicleID == *t.VehicleID && inWindow(f.Date, start, end) {
				c.FuelCost += f.TotalCost
			}
		}
		for _, m := range maintLogs {
			if m.VehicleID == *t.VehicleID && inWindow(m.Date, start, end) {
				c.MaintenanceCost += m.Cost
			}
		}
	}

	c.Total = c.DirectExpenses + c.FuelCost + c.MaintenanceCost
	return c
}

// ComputeMonthlySummary returns exactly twelve rows for the given calendar
// year. Revenue is bucketed by the month a trip completed in, at the fixed
// per-kilogram rate.
func ComputeMonthlySummary(
	year int,
	trips []trip.Trip,
	fuelLogs []fuel.Log,
	maintLogs []maintenance.Log,
	expenses []expense.Expense,
) []MonthlyRow {
	rows := make([]MonthlyRow, 12)
	for i := range rows {
		rows[i].Month = time.Month(i + 1).String()[:3]
	}

	monthOf := func(d time.Time) (int, bool) {
		if d.Year() != year {
			return 0, false
		}
		return int(d.Month()) - 1, true
	}

	for _, t := range trips {
		if t.Status != trip.StatusCompleted || t.CompletedAt == nil {
			continue
		}
		if m, ok := monthOf(*t.CompletedAt); ok {
			rows[m].Revenue += t.CargoWeight * RevenuePerKg
		}
	}
	for _, f := range fuelLogs {
		if m, ok := monthOf(f.Date); ok {
			rows[m].FuelCost += f.TotalCost
		}
	}
	for _, l := range maintLogs {
		if m, ok := monthOf(l.Date); ok {
			rows[m].Maintenance += l.Cost
		}
	}
	for _, e := range expenses {
		m, ok := monthOf(e.Date)
		if !ok {
			continue
		}
		switch e.Category {
		case expense.CategoryFuel:
			rows[m].FuelCost += e.Amount
		case expense.CategoryMaintenance:
			rows[m].Maintenance += e.Amount
		default:
			rows[m].OtherExpenses += e.Amount
		}
	}

	for i := range rows {
		rows[i].NetProfit = rows[i].Revenue - rows[i].FuelCost - rows[i].Maintenance - rows[i].OtherExpenses
	}
	return rows
}

// ComputeVehicleCosts breaks the year's fuel and maintenance spend down per
// vehicle. Direct expenses route to a vehicle through their linked trip;
// expenses with no trip, or on a trip with no vehicle, are left out here and
// only show up in the monthly aggregates.
func ComputeVehicleCosts(
	year int,
	vehicles []vehicle.Vehicle,
	trips []trip.Trip,
	fuelLogs []fuel.Log,
	maintLogs []maintenance.Log,
	expenses []expense.Expense,
) []VehicleCost {
	tripVehicle := make(map[int64]int64, len(trips))
	for _, t := range trips {
		if t.VehicleID != nil {
			tripVehicle[t.ID] = *t.VehicleID
		}
	}

	byVehicle := make(map[int64]*VehicleCost, len(vehicles))
	costs := make([]VehicleCost, len(vehicles))
	for i, v := range vehicles {
		costs[i] = VehicleCost{VehicleID: v.ID, Vehicle: v.Name}
		byVehicle[v.ID] = &costs[i]
	}

	for _, f := range fuelLogs {
		if f.Date.Year() != year {
			continue
		}
		if c, ok := byVehicle[f.VehicleID]; ok {
			c.Fuel += f.TotalCost
		}
	}
	for _, l := range maintLogs {
		if l.Date.Year() != year {
			continue
		}
		if c, ok := byVehicle[l.VehicleID]; ok {
			c.Maintenance += l.Cost
		}
	}
	for _, e := range expenses {
		if e.Date.Year() != year || e.TripID == nil {
			continue
		}
		vid, ok := tripVehicle[*e.TripID]
		if !ok {
			continue
		}
		c, ok := byVehicle[vid]
		if !ok {
			continue
		}
		switch e.Category {
		case expense.CategoryFuel:
			c.Fuel += e.Amount
		case expense.CategoryMaintenance:
			c.Maintenance += e.Amount
		default:
			c.Other += e.Amount
		}
	}

	for i := range costs {
		costs[i].Total = costs[i].Fuel + costs[i].Maintenance + costs[i].Other
	}
	return costs
}

// ComputeUtilization is the share of the fleet currently IN_USE, rounded to
// a whole percent. An empty fleet reads as zero, not a division error.
func ComputeUtilization(vehicles []vehicle.Vehicle) int {
	if len(vehicles) == 0 {
		return 0
	}
	var inUse int
	for _, v := range vehicles {
		if v.Status == vehicle.StatusInUse {
			inUse++
		}
	}
	return int(math.Round(100 * float64(inUse) / float64(len(vehicles))))
}
