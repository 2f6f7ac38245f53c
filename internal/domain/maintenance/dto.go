package maintenance

type CreateLogRequest struct {
	VehicleID int64   `json:"vehicle_id" binding:"required"`
	Issue     string  `json:"issue" binding:"required,max=512"`
	Service   string  `json:"service" binding:"required,max=255"`
	Cost      float64 `json:"cost" binding:"omitempty,min=0"`
	Date      string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type UpdateLogRequest struct {
	VehicleID int64   `json:"vehicle_id" binding:"required"`
	Issue     string  `json:"issue" binding:"required,max=512"`
	Service   string  `json:"service" binding:"required,max=255"`
	Cost      float64 `json:"cost" binding:"omitempty,min=0"`
	Date      string  `json:"date"`
}
