package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/facility-locator/internal/pkg/errors"
	"github.com/facility-locator/internal/pkg/utils"
	"github.com/facility-locator/internal/pkg/validator"
	"github.com/facility-locator/internal/usecase"
	"github.com/facility-locator/internal/usecase/dto"
)

// AnalyzeHandler serves the free-text resolution endpoint.
type AnalyzeHandler struct {
	resolveUC *usecase.ResolveUseCase
	logger    *zap.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(resolveUC *usecase.ResolveUseCase, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		resolveUC: resolveUC,
		logger:    logger,
	}
}

// Analyze godoc
// @Summary Resolve a retail outlet query to the nearest fire station
// @Description Extracts the outlet name from free-form Korean text, locates the outlet in the store dataset and returns it together with the nearest fire station as a GeoJSON FeatureCollection. When any stage cannot complete, the response carries a human-readable answer_text instead.
// @Tags Analyze
// @Accept json
// @Produce json
// @Param request body dto.AnalyzeRequest true "Free-form query text"
// @Success 200 {object} dto.FeatureCollection
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/analyze [post]
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, apperrors.ErrInvalidRequest)
	}

	result := h.resolveUC.Analyze(c.Context(), req.Text)

	h.logger.Debug("Analyze request served",
		zap.String("state", string(result.State)),
	)

	// Pipeline shortfalls are part of the contract: the caller always
	// gets a 200 with either the feature collection or an answer text.
	if result.Degraded != nil {
		return c.JSON(result.Degraded)
	}
	return c.JSON(result.Collection)
}
