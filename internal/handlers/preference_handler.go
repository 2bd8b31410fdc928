package handlers

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/live"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type PreferenceHandler struct {
	service   services.PreferenceService
	logger    *logrus.Logger
	heartbeat time.Duration
}

func NewPreferenceHandler(service services.PreferenceService, logger *logrus.Logger, heartbeat time.Duration) *PreferenceHandler {
	return &PreferenceHandler{
		service:   service,
		logger:    logger,
		heartbeat: heartbeat,
	}
}

// GetPreferences godoc
// @Summary Get all preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=map[string]string} "Preferences"
// @Router /preferences [get]
func (h *PreferenceHandler) GetPreferences(c *fiber.Ctx) error {
	prefs, err := h.service.All(c.Context())
	if err != nil {
		return failure(c, h.logger, err, "Failed to retrieve preferences")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Preferences retrieved successfully", prefs)
}

// StreamPreferences godoc
// @Summary Stream preferences
// @Description Server-Sent Events stream emitting all preferences now and after every change
// @Tags preferences
// @Produce text/event-stream
// @Success 200 {object} map[string]string "event: preferences"
// @Router /preferences/stream [get]
func (h *PreferenceHandler) StreamPreferences(c *fiber.Ctx) error {
	return streamEvents(c, h.logger, h.heartbeat, "preferences", func(ctx context.Context) *live.Subscription[map[string]string] {
		return h.service.Stream(ctx)
	})
}

// GetPreference godoc
// @Summary Get a preference
// @Tags preferences
// @Produce json
// @Param key path string true "Preference key"
// @Success 200 {object} utils.StandardResponse{data=PreferenceResponse} "Preference"
// @Failure 404 {object} utils.StandardResponse "Preference not found"
// @Router /preferences/{key} [get]
func (h *PreferenceHandler) GetPreference(c *fiber.Ctx) error {
	key := c.Params("key")
	value, ok, err := h.service.Get(c.Context(), key)
	if err != nil {
		return failure(c, h.logger.WithField("key", key), err, "Failed to retrieve preference")
	}
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Preference not found")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Preference retrieved successfully", PreferenceResponse{Key: key, Value: value})
}

// SetPreference godoc
// @Summary Set a preference
// @Description Store a preference value. preferred_category must name a category.
// @Tags preferences
// @Accept json
// @Produce json
// @Param key path string true "Preference key"
// @Param preference body PreferenceRequest true "Preference value"
// @Success 200 {object} utils.StandardResponse{data=PreferenceResponse} "Preference stored"
// @Failure 400 {object} utils.StandardResponse "Invalid request"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /preferences/{key} [put]
func (h *PreferenceHandler) SetPreference(c *fiber.Ctx) error {
	key := c.Params("key")

	var req PreferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	pref, err := h.service.Set(c.Context(), key, req.Value)
	if errors.Is(err, services.ErrInvalidPreference) {
		h.logger.WithError(err).WithField("key", key).Warn("Rejected preference")
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return failure(c, h.logger.WithField("key", key), err, "Failed to store preference")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Preference stored successfully", PreferenceResponse{Key: pref.Key, Value: pref.Value})
}

// DeletePreference godoc
// @Summary Delete a preference
// @Tags preferences
// @Produce json
// @Param key path string true "Preference key"
// @Success 200 {object} utils.StandardResponse "Preference deleted"
// @Router /preferences/{key} [delete]
func (h *PreferenceHandler) DeletePreference(c *fiber.Ctx) error {
	key := c.Params("key")
	if err := h.service.Delete(c.Context(), key); err != nil {
		return failure(c, h.logger.WithField("key", key), err, "Failed to delete preference")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Preference deleted successfully", nil)
}
