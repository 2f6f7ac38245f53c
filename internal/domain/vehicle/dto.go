package vehicle

type CreateVehicleRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	Model           string   `json:"model" binding:"required,max=64"`
	LicensePlate    string   `json:"license_plate" binding:"required,max=32"`
	Type            string   `json:"type" binding:"max=64"`
	MaxLoadCapacity float64  `json:"max_load_capacity" binding:"required,gt=0"`
	Odometer        float64  `json:"odometer" binding:"omitempty,min=0"`
	Tags            []string `json:"tags"`
}

type UpdateVehicleRequest struct {
	Name            *string  `json:"name" binding:"omitempty,max=255"`
	Model           *string  `json:"model" binding:"omitempty,max=64"`
	LicensePlate    *string  `json:"license_plate" binding:"omitempty,max=32"`
	Type            *string  `json:"type" binding:"omitempty,max=64"`
	MaxLoadCapacity *float64 `json:"max_load_capacity" binding:"omitempty,gt=0"`
	Odometer        *float64 `json:"odometer" binding:"omitempty,min=0"`
	Tags            []string `json:"tags"`
}
