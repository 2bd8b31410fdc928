package handlers

import (
	"errors"

	"movie-catalog/internal/tmdb"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// failure maps a service error to a response. Upstream TMDB failures become
// 502 so clients can tell them apart from local faults.
func failure(c *fiber.Ctx, log logrus.FieldLogger, err error, message string) error {
	var tmdbErr *tmdb.Error
	if errors.As(err, &tmdbErr) {
		log.WithError(err).Warn(message)
		return utils.ErrorResponse(c, fiber.StatusBadGateway, message+": upstream catalog unavailable")
	}
	log.WithError(err).Error(message)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message)
}
