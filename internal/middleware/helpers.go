package middleware

import (
	"fleetflow-service/internal/domain/trip"

	"github.com/gin-gonic/gin"
)

// UserID returns the authenticated user's id. Zero when unauthenticated.
func UserID(c *gin.Context) int64 {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}

// Role returns the authenticated user's role, empty when unauthenticated.
func Role(c *gin.Context) string {
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

// Actor bundles the caller's identity for the trip lifecycle.
func Actor(c *gin.Context) trip.Actor {
	return trip.Actor{ID: UserID(c), Role: Role(c)}
}
