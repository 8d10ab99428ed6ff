package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/specd/internal/export"
	"github.com/fyrsmithlabs/specd/internal/spec"
)

// GenerateResponse is the success payload of POST /api/generate.
type GenerateResponse struct {
	SpecID string `json:"specId"`
}

// DeleteResponse is the success payload of DELETE /api/specs/:id.
type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

// ExportResponse is the success payload of GET /api/specs/:id/export.
type ExportResponse struct {
	Markdown string `json:"markdown"`
}

// StatusResponse is the payload of GET /api/status.
type StatusResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// handleGenerate validates the idea, generates a specification document and
// persists the decomposed entity graph.
func (s *Server) handleGenerate(c echo.Context) error {
	var req spec.GenerateRequest
	if err := c.Bind(&req); err != nil {
		verr := &spec.ValidationError{Fields: []spec.FieldError{
			{Field: "body", Message: "invalid request body"},
		}}
		return s.sendError(c, verr)
	}
	if err := req.Validate(); err != nil {
		return s.sendError(c, err)
	}

	ctx := c.Request().Context()

	ai, err := s.generator.Generate(ctx, &req)
	if err != nil {
		s.metrics.ObserveGeneration("failure")
		return s.sendError(c, err)
	}
	s.metrics.ObserveGeneration("success")

	created, err := s.store.CreateFromAI(ctx, ai, &req)
	if err != nil {
		return s.sendError(c, err)
	}

	return s.sendSuccess(c, http.StatusCreated, GenerateResponse{SpecID: created.ID}, nil)
}

// handleList returns paginated spec summaries, newest first.
func (s *Server) handleList(c echo.Context) error {
	opts := spec.ListOptions{
		Page:        spec.DefaultPage,
		Limit:       spec.DefaultLimit,
		ProductType: c.QueryParam("productType"),
	}

	verr := &spec.ValidationError{}
	if raw := c.QueryParam("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, spec.FieldError{Field: "page", Message: "must be an integer"})
		} else {
			opts.Page = page
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			verr.Fields = append(verr.Fields, spec.FieldError{Field: "limit", Message: "must be an integer"})
		} else {
			opts.Limit = limit
		}
	}
	if len(verr.Fields) > 0 {
		return s.sendError(c, verr)
	}
	if err := opts.Validate(); err != nil {
		return s.sendError(c, err)
	}

	items, pagination, err := s.store.ListSpecs(c.Request().Context(), opts)
	if err != nil {
		return s.sendError(c, err)
	}
	return s.sendSuccess(c, http.StatusOK, items, &Meta{Pagination: &pagination})
}

// handleGet returns one spec with all children resolved.
func (s *Server) handleGet(c echo.Context) error {
	id := c.Param("id")
	if err := spec.ValidateID(id); err != nil {
		return s.sendError(c, err)
	}

	sp, err := s.store.GetSpec(c.Request().Context(), id)
	if err != nil {
		return s.sendError(c, err)
	}
	return s.sendSuccess(c, http.StatusOK, sp, nil)
}

// handlePatch applies a partial update of the mutable scalar fields.
func (s *Server) handlePatch(c echo.Context) error {
	id := c.Param("id")
	if err := spec.ValidateID(id); err != nil {
		return s.sendError(c, err)
	}

	var payload spec.UpdatePayload
	if err := c.Bind(&payload); err != nil {
		verr := &spec.ValidationError{Fields: []spec.FieldError{
			{Field: "body", Message: "invalid request body"},
		}}
		return s.sendError(c, verr)
	}
	if err := payload.Validate(); err != nil {
		return s.sendError(c, err)
	}

	updated, err := s.store.UpdateSpec(c.Request().Context(), id, &payload)
	if err != nil {
		return s.sendError(c, err)
	}
	return s.sendSuccess(c, http.StatusOK, updated, nil)
}

// handleDelete cascades the delete through tasks, stories, risks, unknowns
// and milestones before removing the spec itself.
func (s *Server) handleDelete(c echo.Context) error {
	id := c.Param("id")
	if err := spec.ValidateID(id); err != nil {
		return s.sendError(c, err)
	}

	if err := s.store.DeleteSpec(c.Request().Context(), id); err != nil {
		return s.sendError(c, err)
	}
	return s.sendSuccess(c, http.StatusOK, DeleteResponse{Deleted: true}, nil)
}

// handleExport renders the spec as a flat markdown document.
func (s *Server) handleExport(c echo.Context) error {
	id := c.Param("id")
	if err := spec.ValidateID(id); err != nil {
		return s.sendError(c, err)
	}

	sp, err := s.store.GetSpec(c.Request().Context(), id)
	if err != nil {
		return s.sendError(c, err)
	}
	return s.sendSuccess(c, http.StatusOK, ExportResponse{Markdown: export.Markdown(sp)}, nil)
}

// handleStatus reports liveness including store connectivity.
func (s *Server) handleStatus(c echo.Context) error {
	if err := s.store.Ping(c.Request().Context()); err != nil {
		s.logger.Warn("store ping failed", zap.Error(err))
		return c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "store unavailable",
		})
	}
	return s.sendSuccess(c, http.StatusOK, StatusResponse{Status: "healthy", Store: "ok"}, nil)
}
