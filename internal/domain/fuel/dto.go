package fuel

type CreateLogRequest struct {
	VehicleID    int64   `json:"vehicle_id" binding:"required"`
	DriverID     *int64  `json:"driver_id"`
	Liters       float64 `json:"liters" binding:"required,gt=0"`
	CostPerLiter float64 `json:"cost_per_liter" binding:"required,gt=0"`
	Odometer     float64 `json:"odometer" binding:"omitempty,min=0"`
	Date         string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type UpdateLogRequest struct {
	VehicleID    int64   `json:"vehicle_id" binding:"required"`
	DriverID     *int64  `json:"driver_id"`
	Liters       float64 `json:"liters" binding:"required,gt=0"`
	CostPerLiter float64 `json:"cost_per_liter" binding:"required,gt=0"`
	Odometer     float64 `json:"odometer" binding:"omitempty,min=0"`
	Date         string  `json:"date"`
}
