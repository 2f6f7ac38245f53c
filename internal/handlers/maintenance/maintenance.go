package maintenance

import (
	"net/http"
	"strconv"

	"fleetflow-service/internal/domain/maintenance"
	"fleetflow-service/internal/middleware"
	"fleetflow-service/internal/pkg/response"
	service "fleetflow-service/internal/service/maintenance"
	"fleetflow-service/internal/ws"

	"github.com/gin-gonic/gin"
)

type MaintenanceHandler struct {
	maintService *service.MaintenanceService
	hub          *ws.Hub
}

func NewMaintenanceHandler(maintService *service.MaintenanceService, hub *ws.Hub) *MaintenanceHandler {
	return &MaintenanceHandler{maintService: maintService, hub: hub}
}

func (h *MaintenanceHandler) Create(c *gin.Context) {
	var req maintenance.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	l, err := h.maintService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.hub.Publish(ws.EventMaintenanceOpened, l)
	response.Success(c, http.StatusCreated, "maintenance log created", l)
}

func (h *MaintenanceHandler) List(c *gin.Context) {
	logs, err := h.maintService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "maintenance logs", logs)
}

func (h *MaintenanceHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid maintenance log ID", err)
		return
	}

	l, err := h.maintService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "maintenance log", l)
}

func (h *MaintenanceHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid maintenance log ID", err)
		return
	}

	var req maintenance.UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	l, err := h.maintService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "maintenance log updated", l)
}

// Complete closes a shop visit and, when it was the last open one, releases
// the vehicle.
func (h *MaintenanceHandler) Complete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid maintenance log ID", err)
		return
	}

	l, err := h.maintService.Complete(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	h.hub.Publish(ws.EventMaintenanceCompleted, l)
	response.Success(c, http.StatusOK, "maintenance log completed", l)
}

func (h *MaintenanceHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid maintenance log ID", err)
		return
	}

	if err := h.maintService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "maintenance log deleted", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
