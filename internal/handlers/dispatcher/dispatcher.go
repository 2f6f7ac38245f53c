package dispatcher

import (
	"net/http"
	"strconv"

	"fleetflow-service/internal/domain/dispatcher"
	"fleetflow-service/internal/middleware"
	"fleetflow-service/internal/pkg/response"
	service "fleetflow-service/internal/service/dispatcher"

	"github.com/gin-gonic/gin"
)

type DispatcherHandler struct {
	dispatcherService *service.DispatcherService
}

func NewDispatcherHandler(dispatcherService *service.DispatcherService) *DispatcherHandler {
	return &DispatcherHandler{dispatcherService: dispatcherService}
}

func (h *DispatcherHandler) Create(c *gin.Context) {
	var req dispatcher.CreateDispatcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	d, err := h.dispatcherService.Create(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "dispatcher created", d)
}

func (h *DispatcherHandler) List(c *gin.Context) {
	dispatchers, err := h.dispatcherService.List(c.Request.Context(), middleware.UserID(c), c.Query("search"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "dispatchers", dispatchers)
}

func (h *DispatcherHandler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid dispatcher ID", err)
		return
	}

	var req dispatcher.UpdateDispatcherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	d, err := h.dispatcherService.Update(c.Request.Context(), middleware.UserID(c), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "dispatcher updated", d)
}

func (h *DispatcherHandler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid dispatcher ID", err)
		return
	}

	if err := h.dispatcherService.Delete(c.Request.Context(), middleware.UserID(c), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "dispatcher deleted", nil)
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
