package analytics

import "fleetflow-service/internal/domain/trip"

// RevenuePerKg is the fixed per-kilogram rate used for trip revenue.
const RevenuePerKg = 10.0

// TripCost is the derived cost breakdown of a single trip.
type TripCost struct {
	DirectExpenses  float64 `json:"direct_expenses"`
	FuelCost        float64 `json:"fuel_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	Total           float64 `json:"total"`
}

// MonthlyRow is one calendar month of the yearly financial summary.
type MonthlyRow struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	FuelCost      float64 `json:"fuel_cost"`
	Maintenance   float64 `json:"maintenance"`
	OtherExpenses float64 `json:"other_expenses"`
	NetProfit     float64 `json:"net_profit"`
}

// VehicleCost is the per-vehicle yearly cost breakdown.
type VehicleCost struct {
	VehicleID   int64   `json:"vehicle_id"`
	Vehicle     string  `json:"vehicle"`
	Fuel        float64 `json:"cost"`
	Maintenance float64 `json:"maintenance"`
	Other       float64 `json:"other"`
	Total       float64 `json:"total_cost"`
}

// Summary is the year-to-date roll-up shown on the analytics page.
type Summary struct {
	TotalVehicles        int64   `json:"total_vehicles"`
	ActiveVehicles       int64   `json:"active_vehicles"`
	InShop               int64   `json:"in_shop"`
	TotalDrivers         int64   `json:"total_drivers"`
	TotalTrips           int64   `json:"total_trips"`
	CompletedTrips       int64   `json:"completed_trips"`
	TotalFuelCost        float64 `json:"total_fuel_cost"`
	TotalMaintenanceCost float64 `json:"total_maintenance_cost"`
	TotalOtherExpenses   float64 `json:"total_other_expenses"`
	OperationalCost      float64 `json:"operational_cost"`
	TotalRevenue         float64 `json:"total_revenue"`
	NetProfit            float64 `json:"net_profit"`
	TotalLiters          float64 `json:"total_liters"`
	UtilizationRate      int     `json:"utilization_rate"`
}

// Report is the full analytics payload.
type Report struct {
	Summary        Summary       `json:"summary"`
	VehicleCosts   []VehicleCost `json:"fuel_efficiency"`
	MonthlySummary []MonthlyRow  `json:"monthly_summary"`
}

// KPIs are the dashboard headline numbers plus the latest trips.
type KPIs struct {
	ActiveFleet      int64       `json:"active_fleet"`
	InMaintenance    int64       `json:"in_maintenance"`
	UtilizationRate  int         `json:"utilization_rate"`
	PendingShipments int64       `json:"pending_shipments"`
	OperationalCost  float64     `json:"operational_cost"`
	TotalDrivers     int64       `json:"total_drivers"`
	TotalVehicles    int64       `json:"total_vehicles"`
	RecentTrips      []trip.Info `json:"recent_trips"`
}
