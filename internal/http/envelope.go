package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/spec"
)

// Response is the single envelope shape used by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

// Meta carries out-of-band response metadata, currently only pagination.
type Meta struct {
	Pagination *spec.Pagination `json:"pagination,omitempty"`
}

func (s *Server) sendSuccess(c echo.Context, status int, data any, meta *Meta) error {
	return c.JSON(status, Response{Success: true, Data: data, Meta: meta})
}

// sendError is the centralized translator from domain error kinds to
// transport status codes. The mapping is exhaustive: validation 400,
// not-found 404, conflict 409, generation and everything else 500. Unknown
// errors are logged with their cause and returned as an opaque message.
func (s *Server) sendError(c echo.Context, err error) error {
	var verr *spec.ValidationError
	var cerr *spec.ConflictError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "Validation failed",
			Details: verr.Fields,
		})
	case errors.Is(err, spec.ErrNotFound):
		return c.JSON(http.StatusNotFound, Response{
			Success: false,
			Error:   "Spec not found",
		})
	case errors.As(err, &cerr):
		return c.JSON(http.StatusConflict, Response{
			Success: false,
			Error:   "Duplicate key error",
			Details: cerr.Key,
		})
	case errors.Is(err, spec.ErrGeneration):
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   spec.ErrGeneration.Error(),
		})
	default:
		s.logger.Error("unhandled error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Internal server error",
		})
	}
}
