package drone

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyparcel/internal/pkg/apperrors"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListAvailable feeds the customer-facing catalog view.
func (h *Handler) ListAvailable(c *gin.Context) {
	drones, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListDronesResponse{Drones: drones})
}
