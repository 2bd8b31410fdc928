package utils

import "github.com/gofiber/fiber/v2"

const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusFail    = "fail"
)

// StandardResponse represents the standard API response format
type StandardResponse struct {
	Status  string `json:"status" example:"success"`
	Code    int    `json:"code" example:"200"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// ListMeta describes a category listing snapshot
type ListMeta struct {
	Category string `json:"category" example:"popular"`
	Total    int    `json:"total" example:"40"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  StatusSuccess,
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// SuccessWithMetaResponse sends a success response with listing meta
func SuccessWithMetaResponse(c *fiber.Ctx, code int, message string, data any, meta any) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  StatusSuccess,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// ErrorResponse sends an error response. Server side failures carry "fail".
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  errorStatus(code),
		Code:    code,
		Message: message,
	})
}

func errorStatus(code int) string {
	if code >= fiber.StatusInternalServerError {
		return StatusFail
	}
	return StatusError
}
