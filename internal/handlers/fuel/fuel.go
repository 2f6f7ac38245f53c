package fuel

import (
	"net/http"
	"strconv"

	"fleetflow-service/internal/domain/fuel"
	"fleetflow-service/internal/pkg/response"
	service "fleetflow-service/internal/service/fuel"

	"github.com/gin-gonic/gin"
)

type FuelHandler struct {
	fuelService *service.FuelService
}

func NewFuelHandler(fuelService *service.FuelService) *FuelHandler {
	return &FuelHandler{fuelService: fuelService}
}

func (h *FuelHandler) Create(c *gin.Context) {
	var req fuel.CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	l, err := h.fuelService.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "fuel log created", l)
}

func (h *FuelHandler) List(c *gin.Context) {
	logs, err := h.fuelService.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "fuel logs", logs)
}

func (h *FuelHandler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid fuel log ID", err)
		return
	}

	l, err := h.fuelService.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "fuel log", l)
}

func (h *FuelHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid fuel log ID", err)
		return
	}

	var req fuel.UpdateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	l, err := h.fuelService.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "fuel log updated", l)
}

func (h *FuelHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid fuel log ID", err)
		return
	}

	if err := h.fuelService.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "fuel log deleted", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
