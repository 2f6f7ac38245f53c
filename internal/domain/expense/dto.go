package expense

type CreateExpenseRequest struct {
	TripID      *int64   `json:"trip_id"`
	Category    Category `json:"category" binding:"required"`
	Amount      float64  `json:"amount" binding:"required,gt=0"`
	Description string   `json:"description" binding:"max=512"`
	Date        string   `json:"date"` // YYYY-MM-DD, defaults to today
}

type UpdateExpenseRequest struct {
	TripID      *int64   `json:"trip_id"`
	Category    Category `json:"category" binding:"required"`
	Amount      float64  `json:"amount" binding:"required,gt=0"`
	Description string   `json:"description" binding:"max=512"`
	Date        string   `json:"date"`
}
