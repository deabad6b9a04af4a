package matching

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skyparcel/internal/common"
	"skyparcel/internal/drone"
	"skyparcel/internal/pkg/apperrors"
)

type Handler struct {
	service Service
	pricer  Pricer
}

func NewHandler(service Service, pricer Pricer) *Handler {
	return &Handler{service: service, pricer: pricer}
}

type RecommendRequest struct {
	Category       string  `json:"category" binding:"required"`
	WeightKG       float64 `json:"weight_kg" binding:"required"`
	TripDistanceKM float64 `json:"trip_distance_km" binding:"required"`
}

type RecommendResponse struct {
	Primary          *drone.Drone   `json:"primary"`
	Alternatives     []*drone.Drone `json:"alternatives"`
	CategoryRelaxed  bool           `json:"category_relaxed"`
	Message          string         `json:"message,omitempty"`
	EstimatedMinutes int            `json:"estimated_minutes"`
	EstimatedCost    float64        `json:"estimated_cost"`
	Quote            Quote          `json:"quote"`
}

func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"code": "VALIDATION", "message": err.Error()}})
		return
	}

	match, err := h.service.Recommend(c.Request.Context(), Request{
		Category:       drone.Category(req.Category),
		WeightKG:       req.WeightKG,
		TripDistanceKM: req.TripDistanceKM,
	})
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	// Baseline quote assumes a station handoff; the home pickup fee is only
	// known once the customer picks a mode at order time.
	quote, err := h.pricer.Quote(match.Primary, req.TripDistanceKM, common.PickupStation)
	if err != nil {
		apperrors.ToHTTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, RecommendResponse{
		Primary:          match.Primary,
		Alternatives:     match.Alternatives,
		CategoryRelaxed:  match.CategoryRelaxed,
		Message:          match.Message,
		EstimatedMinutes: EstimateMinutes(req.TripDistanceKM, match.Primary.SpeedKMH),
		EstimatedCost:    quote.Total,
		Quote:            quote,
	})
}
