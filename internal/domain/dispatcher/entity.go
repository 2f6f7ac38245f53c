package dispatcher

import (
	"time"

	"fleetflow-service/internal/domain/user"
)

// Dispatcher is a contact record scoped to the fleet manager who created it.
type Dispatcher struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	ManagerID int64     `json:"manager_id" db:"manager_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Info joins a dispatcher with its manager for list views.
type Info struct {
	Dispatcher
	Manager *user.Ref `json:"manager,omitempty"`
}

type CreateDispatcherRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"required,max=20"`
}

type UpdateDispatcherRequest struct {
	Name  string `json:"name" binding:"required,max=255"`
	Email string `json:"email" binding:"required,email,max=255"`
	Phone string `json:"phone" binding:"required,max=20"`
}
