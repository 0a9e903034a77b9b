package terminology

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinica/clinica/internal/platform/auth"
)

// Handler provides HTTP handlers for vocabulary lookup.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole("admin", "physician", "nurse"))
	read.GET("/terminology/search", h.Search)
	read.GET("/terminology/codes/:id", h.GetCode)
	read.GET("/terminology/codes/:id/children", h.ListChildren)

	write := api.Group("", auth.RequireRole("admin"))
	write.POST("/terminology/codes", h.CreateCode)
}

func (h *Handler) CreateCode(c echo.Context) error {
	var code Code
	if err := c.Bind(&code); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCode(c.Request().Context(), &code); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, code)
}

func (h *Handler) GetCode(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	code, err := h.svc.GetCode(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "code not found")
	}
	return c.JSON(http.StatusOK, code)
}

func (h *Handler) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.svc.Search(c.Request().Context(), c.QueryParam("system"), c.QueryParam("q"), limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"codes": items})
}

func (h *Handler) ListChildren(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListChildren(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"codes": items})
}
