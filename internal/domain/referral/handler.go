package referral

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/referrals", h.SaveReferral)
	api.GET("/referrals", h.ListReferrals)
	api.GET("/referrals/:id", h.GetReferral)
	api.PATCH("/referrals/:id/status", h.UpdateStatus)
}

func (h *Handler) SaveReferral(c echo.Context) error {
	var req SaveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ref, err := h.svc.Save(c.Request().Context(), req)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "save failed")
	}
	return c.JSON(http.StatusCreated, ref)
}

func (h *Handler) ListReferrals(c echo.Context) error {
	f := ListFilter{
		Status: c.QueryParam("status"),
		Query:  c.QueryParam("q"),
	}
	refs, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, refs)
}

func (h *Handler) GetReferral(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ref, err := h.svc.Get(c.Request().Context(), id)
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "referral not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, ref)
}

func (h *Handler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status Status `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status: "+string(body.Status))
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "referral not found")
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Status updated",
	})
}
