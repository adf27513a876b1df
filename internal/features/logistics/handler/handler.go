package handler

import (
	"net/http"

	"shop-checkout/internal/core/httpx"
	"shop-checkout/internal/features/logistics/domain"
	"shop-checkout/internal/features/logistics/ports"

	"github.com/gofiber/fiber/v2"
)

// LogisticsHandler handles HTTP requests for the courier store picker.
type LogisticsHandler struct {
	service ports.MapSessionService
}

// NewLogisticsHandler creates a new LogisticsHandler.
func NewLogisticsHandler(service ports.MapSessionService) *LogisticsHandler {
	return &LogisticsHandler{service: service}
}

// StartSessionRequest represents the body of POST /logistics/map-sessions.
type StartSessionRequest struct {
	// SubType is UNIMARTC2C / FAMIC2C or the delivery method name.
	SubType   string `json:"subType"`
	ReturnURL string `json:"returnUrl"`
}

// SessionResponse is the poll result.
type SessionResponse struct {
	Success bool          `json:"success"`
	Ready   bool          `json:"ready"`
	SubType string        `json:"subType"`
	Store   *domain.Store `json:"store,omitempty"`
}

// StartSession handles POST /logistics/map-sessions.
// @Summary Start a store selection session
// @Description Opens a token-addressed session and returns the signed form that launches the courier store picker.
// @Tags Logistics
// @Accept json
// @Produce json
// @Param session body StartSessionRequest true "Store type and return url"
// @Success 200 {object} domain.MapForm
// @Failure 400 {object} httpx.ErrorResponse
// @Router /logistics/map-sessions [post]
func (h *LogisticsHandler) StartSession(c *fiber.Ctx) error {
	var req StartSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WriteError(c, domain.ErrInvalidCallback.WithMessage("invalid request body"))
	}

	form, err := h.service.StartSession(c.UserContext(), req.SubType, req.ReturnURL)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	return c.Status(http.StatusOK).JSON(form)
}

// Callback handles POST /logistics/map-callback.
// @Summary Courier store picker callback
// @Description Receives the chosen store from the courier and redirects back to the allowed return url.
// @Tags Logistics
// @Accept x-www-form-urlencoded
// @Produce plain
// @Success 200 {string} string "OK"
// @Success 302 {string} string "Redirect to the return url"
// @Failure 400 {object} httpx.ErrorResponse
// @Router /logistics/map-callback [post]
func (h *LogisticsHandler) Callback(c *fiber.Ctx) error {
	fields := make(map[string]string)
	c.Request().PostArgs().VisitAll(func(key, value []byte) {
		fields[string(key)] = string(value)
	})
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		if _, ok := fields[string(key)]; !ok {
			fields[string(key)] = string(value)
		}
	})

	redirect, err := h.service.HandleCallback(c.UserContext(), fields)
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if redirect != "" {
		return c.Redirect(redirect, http.StatusFound)
	}
	return c.Status(http.StatusOK).SendString("OK")
}

// PollSession handles GET /logistics/map-sessions/:token.
// @Summary Poll a store selection session
// @Description Returns the selected store once and deletes the session; returns ready=false while the courier has not called back.
// @Tags Logistics
// @Produce json
// @Param token path string true "Session token"
// @Success 200 {object} SessionResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /logistics/map-sessions/{token} [get]
func (h *LogisticsHandler) PollSession(c *fiber.Ctx) error {
	session, err := h.service.Consume(c.UserContext(), c.Params("token"))
	if err != nil {
		return httpx.WriteError(c, err)
	}

	resp := SessionResponse{
		Success: true,
		Ready:   session.Selected(),
		SubType: string(session.SubType),
	}
	if resp.Ready {
		store := session.Store
		resp.Store = &store
	}
	return c.Status(http.StatusOK).JSON(resp)
}

// StoreList handles GET /logistics/stores/:subType.
// @Summary List convenience stores
// @Description Returns the cached store list of a convenience store network.
// @Tags Logistics
// @Produce json
// @Param subType path string true "UNIMARTC2C or FAMIC2C"
// @Success 200 {array} domain.Store
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /logistics/stores/{subType} [get]
func (h *LogisticsHandler) StoreList(c *fiber.Ctx) error {
	stores, err := h.service.StoreList(c.UserContext(), c.Params("subType"))
	if err != nil {
		return httpx.WriteError(c, err)
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	return c.Status(http.StatusOK).JSON(stores)
}
