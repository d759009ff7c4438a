package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"arv-estimator/internal/models"
	"arv-estimator/internal/service"
)

// ARVHandler handles estimate requests
type ARVHandler struct {
	service ARVService
}

// Service interface for dependency injection
type ARVService interface {
	Estimate(ctx context.Context, address string) (models.Report, error)
}

// NewARVHandler creates a new ARV handler
func NewARVHandler(svc ARVService) *ARVHandler {
	return &ARVHandler{service: svc}
}

// Estimate handles GET /arv requests
func (h *ARVHandler) Estimate(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'address'"})
		return
	}

	report, err := h.service.Estimate(c.Request.Context(), address)
	if err != nil {
		if errors.Is(err, service.ErrGeocodeFailed) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not geocode address"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}
