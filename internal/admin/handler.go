package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skyparcel/internal/drone"
	"skyparcel/internal/order"
	"skyparcel/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListOrders(c *gin.Context) {
	page, limit := parsePagination(c)

	var statusPtr *order.Status
	if s := c.Query("status"); s != "" {
		st := order.Status(s)
		statusPtr = &st
	}

	orders, total, err := h.service.ListOrders(c.Request.Context(), statusPtr, page, limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total, "page": page, "limit": limit})
}

func (h *Handler) ListDrones(c *gin.Context) {
	page, limit := parsePagination(c)

	var statusPtr *drone.Status
	if s := c.Query("status"); s != "" {
		st := drone.Status(s)
		statusPtr = &st
	}

	drones, total, err := h.service.ListDrones(c.Request.Context(), statusPtr, page, limit)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drones": drones, "total": total, "page": page, "limit": limit})
}

func (h *Handler) UpdateDroneStatus(c *gin.Context) {
	droneID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": "invalid drone id"}})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	d, err := h.service.UpdateDroneStatus(c.Request.Context(), droneID, drone.Status(req.Status))
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"drone": d})
}

func parsePagination(c *gin.Context) (int, int) {
	page := 1
	limit := 20
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	return page, limit
}
