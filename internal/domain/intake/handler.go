package intake

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/versemed/intake/internal/domain/referral"
	"github.com/versemed/intake/internal/platform/textract"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/parse", h.ParseText)
	api.POST("/parse/document", h.ParseDocument)
	api.GET("/samples", h.Samples)
}

// ParseResponse is the reply for both parse endpoints.
type ParseResponse struct {
	Success    bool                  `json:"success"`
	RawText    string                `json:"raw_text"`
	ParsedData referral.ParsedResult `json:"parsed_data"`
	Message    string                `json:"message,omitempty"`
}

func (h *Handler) ParseText(c echo.Context) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.svc.ParseText(c.Request().Context(), req.Text)
	if err != nil {
		return parseError(err)
	}
	return c.JSON(http.StatusOK, ParseResponse{
		Success:    true,
		RawText:    req.Text,
		ParsedData: *result,
		Message:    "Referral parsed successfully",
	})
}

func (h *Handler) ParseDocument(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read uploaded file")
	}

	text, result, err := h.svc.ParseDocument(c.Request().Context(), fileHeader.Filename, data)
	if err != nil {
		return parseError(err)
	}
	return c.JSON(http.StatusOK, ParseResponse{
		Success:    true,
		RawText:    text,
		ParsedData: *result,
		Message:    "Document parsed successfully",
	})
}

func (h *Handler) Samples(c echo.Context) error {
	return c.JSON(http.StatusOK, Samples())
}

// parseError maps pipeline failures onto the HTTP taxonomy: bad input 400,
// unreadable document 422, model failure 502.
func parseError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyInput):
		return echo.NewHTTPError(http.StatusBadRequest, ErrEmptyInput.Error())
	case errors.Is(err, textract.ErrUnreadable):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, textract.ErrUnreadable.Error())
	case errors.Is(err, ErrModelFailure):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
