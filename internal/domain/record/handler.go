package record

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinica/clinica/internal/forms/legacy"
	"github.com/clinica/clinica/internal/forms/runtime"
	"github.com/clinica/clinica/internal/forms/schema"
	"github.com/clinica/clinica/internal/platform/auth"
)

// Handler provides HTTP handlers for patient form records.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes registers the form record routes. Form keys contain slashes
// (antecedentes/personales), so the form segment is a wildcard.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	role := auth.RequireRole("admin", "physician", "nurse")

	g := api.Group("", role)
	g.GET("/forms", h.ListFormKeys)
	g.GET("/patients/:id/forms", h.ListPatientForms)
	g.GET("/patients/:id/forms/*", h.GetForm)
	g.PUT("/patients/:id/forms/*", h.SaveForm)
	g.DELETE("/patients/:id/forms/*", h.DeleteForm)
	g.GET("/patients/:id/form-views/*", h.RenderForm)
	g.POST("/patients/:id/form-rows/*", h.AddFormRow)
	g.DELETE("/patients/:id/form-rows/*", h.RemoveFormRow)
}

func (h *Handler) ListFormKeys(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"forms": h.svc.FormKeys()})
}

func (h *Handler) ListPatientForms(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	items, err := h.svc.ListForms(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"records": items})
}

func (h *Handler) GetForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	view, err := h.svc.GetForm(c.Request().Context(), id, c.Param("*"))
	if err != nil {
		if errors.Is(err, legacy.ErrUnknownForm) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) SaveForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Tree map[string]any `json:"tree"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.SaveForm(c.Request().Context(), id, c.Param("*"), body.Tree)
	if err != nil {
		if errors.Is(err, legacy.ErrUnknownForm) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

// renderedField is the wire shape of one visible field in a rendered view.
type renderedField struct {
	Path  string      `json:"path,omitempty"`
	Kind  schema.Kind `json:"kind"`
	Label string      `json:"label,omitempty"`
	Value any         `json:"value,omitempty"`
}

// RenderForm serves the visible fields of a form for thin clients that do
// not evaluate conditions themselves. Tab selection comes in as repeated
// `tab=path:name` query values; the path is empty for an unnamed tabs field.
func (h *Handler) RenderForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	selectedTabs := map[string]string{}
	for _, v := range c.QueryParams()["tab"] {
		if i := strings.Index(v, ":"); i >= 0 {
			selectedTabs[v[:i]] = v[i+1:]
		} else {
			selectedTabs[""] = v
		}
	}

	views, err := h.svc.RenderForm(c.Request().Context(), id, c.Param("*"), selectedTabs)
	if err != nil {
		if errors.Is(err, legacy.ErrUnknownForm) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fields := make([]renderedField, 0, len(views))
	for _, v := range views {
		fields = append(fields, renderedField{
			Path:  v.Path,
			Kind:  v.Field.Kind,
			Label: v.Field.Label,
			Value: v.Value,
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"form_type": c.Param("*"), "fields": fields})
}

func (h *Handler) AddFormRow(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		ArrayPath string `json:"array_path"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.AddFormRow(c.Request().Context(), id, c.Param("*"), body.ArrayPath)
	if err != nil {
		return rowOpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) RemoveFormRow(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	index, err := strconv.Atoi(c.QueryParam("index"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid index")
	}
	view, err := h.svc.RemoveFormRow(c.Request().Context(), id, c.Param("*"), c.QueryParam("array_path"), index)
	if err != nil {
		return rowOpError(err)
	}
	return c.JSON(http.StatusOK, view)
}

func rowOpError(err error) error {
	var pathErr *runtime.PathError
	switch {
	case errors.Is(err, legacy.ErrUnknownForm):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &pathErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *Handler) DeleteForm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteForm(c.Request().Context(), id, c.Param("*")); err != nil {
		if errors.Is(err, legacy.ErrUnknownForm) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
