package trip

import (
	"net/http"
	"strconv"

	"fleetflow-service/internal/domain/trip"
	"fleetflow-service/internal/middleware"
	"fleetflow-service/internal/pkg/response"
	service "fleetflow-service/internal/service/trip"
	"fleetflow-service/internal/ws"

	"github.com/gin-gonic/gin"
)

type TripHandler struct {
	tripService *service.TripService
	hub         *ws.Hub
}

func NewTripHandler(tripService *service.TripService, hub *ws.Hub) *TripHandler {
	return &TripHandler{tripService: tripService, hub: hub}
}

func (h *TripHandler) Create(c *gin.Context) {
	var req trip.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.tripService.Create(c.Request.Context(), middleware.Actor(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.hub.Publish(ws.EventTripCreated, t)
	response.Success(c, http.StatusCreated, "trip created", t)
}

func (h *TripHandler) List(c *gin.Context) {
	trips, err := h.tripService.List(c.Request.Context(), middleware.Actor(c), c.Query("search"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "trips", trips)
}

func (h *TripHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip ID", err)
		return
	}

	info, err := h.tripService.Get(c.Request.Context(), middleware.Actor(c), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "trip", info)
}

// Cost returns the derived cost breakdown of one trip.
func (h *TripHandler) Cost(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip ID", err)
		return
	}

	cost, err := h.tripService.Cost(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "trip cost", cost)
}

// Update applies field edits and/or a lifecycle transition.
func (h *TripHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip ID", err)
		return
	}

	var req trip.UpdateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	t, err := h.tripService.Update(c.Request.Context(), middleware.Actor(c), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	if req.Status != nil {
		h.hub.Publish(ws.EventTripTransitioned, t)
	}
	response.Success(c, http.StatusOK, "trip updated", t)
}

func (h *TripHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid trip ID", err)
		return
	}

	if err := h.tripService.Delete(c.Request.Context(), middleware.Actor(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "trip deleted", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
