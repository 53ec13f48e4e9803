package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"goregion/internal/core"
	"goregion/internal/region"
)

// Handler holds the HTTP handlers.
type Handler struct {
	svc *region.Service
}

// NewHandler creates a new handler over the region service.
func NewHandler(svc *region.Service) *Handler {
	return &Handler{svc: svc}
}

// listResponse wraps every lookup payload.
type listResponse struct {
	Data []core.Region `json:"data"`
}

func regionsJSON(c echo.Context, regions []core.Region) error {
	if regions == nil {
		regions = []core.Region{}
	}
	return c.JSON(http.StatusOK, listResponse{Data: regions})
}

// Health handles GET /health.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Provinces handles GET /v1/regions/provinces.
func (h *Handler) Provinces(c echo.Context) error {
	return regionsJSON(c, h.svc.Provinces(c.Request().Context()))
}

// Regencies handles GET /v1/regions/provinces/:code/regencies.
func (h *Handler) Regencies(c echo.Context) error {
	return regionsJSON(c, h.svc.Regencies(c.Request().Context(), c.Param("code")))
}

// Districts handles GET /v1/regions/regencies/:code/districts.
func (h *Handler) Districts(c echo.Context) error {
	return regionsJSON(c, h.svc.Districts(c.Request().Context(), c.Param("code")))
}

// Villages handles GET /v1/regions/districts/:code/villages.
func (h *Handler) Villages(c echo.Context) error {
	return regionsJSON(c, h.svc.Villages(c.Request().Context(), c.Param("code")))
}

// Chain handles GET /v1/regions/chain?province=&regency=&district=,
// preloading all four levels of an existing address in one call.
func (h *Handler) Chain(c echo.Context) error {
	result := h.svc.PreloadChain(
		c.Request().Context(),
		c.QueryParam("province"),
		c.QueryParam("regency"),
		c.QueryParam("district"),
	)
	return c.JSON(http.StatusOK, result)
}

// ClearCache handles DELETE /v1/regions/cache.
func (h *Handler) ClearCache(c echo.Context) error {
	h.svc.ClearCache(c.Request().Context())
	return c.NoContent(http.StatusNoContent)
}

// mirrorRequest is the body of PUT /v1/regions/mirror. An empty base_url
// removes the override.
type mirrorRequest struct {
	BaseURL string `json:"base_url"`
}

// SetMirror handles PUT /v1/regions/mirror.
func (h *Handler) SetMirror(c echo.Context) error {
	var req mirrorRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.SetMirrorBaseURL(c.Request().Context(), req.BaseURL); err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"base_url": h.svc.MirrorBaseURL()})
}

// errorJSON renders errors in the shared {"error":{...}} shape.
func errorJSON(c echo.Context, status int, message string) error {
	errType := "invalid_request_error"
	if status == http.StatusUnauthorized {
		errType = "authentication_error"
	}
	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	})
}
