package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studorg/counter-system/internal/api/metrics"
	"github.com/studorg/counter-system/internal/core/domain"
	"github.com/studorg/counter-system/internal/core/ports"
	"github.com/studorg/counter-system/internal/core/session"
)

const defaultPermanencyLimit = 50

// SessionHandler handles operator presence at counters: clocking in and out,
// listing who is behind the bar, and reading the attendance history.
type SessionHandler struct {
	registry   *session.Registry
	catalog    ports.CatalogService
	attendance ports.AttendanceRepository
}

func NewSessionHandler(registry *session.Registry, catalog ports.CatalogService, attendance ports.AttendanceRepository) *SessionHandler {
	return &SessionHandler{registry: registry, catalog: catalog, attendance: attendance}
}

type activeOperatorResponse struct {
	OperatorID string    `json:"operator_id"`
	LoginTime  time.Time `json:"login_time"`
}

type sessionResponse struct {
	CounterID string                   `json:"counter_id"`
	Operators []activeOperatorResponse `json:"operators"`
}

// Login handles POST /v1/counters/:id/session. The operator identity comes
// from the token; logging in twice just refreshes the session.
//
// @Summary      Clock in at a counter
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Counter ID"
// @Success      200  {object}  sessionResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/counters/{id}/session [post]
func (h *SessionHandler) Login(c echo.Context) error {
	_, operatorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	counterID := c.Param("id")
	if _, err := h.catalog.GetCounter(c.Request().Context(), counterID); err != nil {
		return err
	}

	h.registry.Login(counterID, operatorID)
	metrics.SessionLoginsTotal.Inc()

	return h.list(c, counterID)
}

// Logout handles DELETE /v1/counters/:id/session. The interval recorded in
// the attendance log ends at the operator's last activity, not at the moment
// the logout request arrives.
//
// @Summary      Clock out of a counter
// @Tags         sessions
// @Security     BearerAuth
// @Param        id  path  string  true  "Counter ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/counters/{id}/session [delete]
func (h *SessionHandler) Logout(c echo.Context) error {
	_, operatorID, err := ctxClaims(c)
	if err != nil {
		return err
	}

	if err := h.registry.Logout(c.Param("id"), operatorID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutOperator handles DELETE /v1/counters/:id/session/:operator_id, which
// lets an admin clock out someone other than themselves.
//
// @Summary      Clock an operator out of a counter
// @Tags         sessions
// @Security     BearerAuth
// @Param        id           path  string  true  "Counter ID"
// @Param        operator_id  path  string  true  "Operator ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/counters/{id}/session/{operator_id} [delete]
func (h *SessionHandler) LogoutOperator(c echo.Context) error {
	if err := h.registry.Logout(c.Param("id"), c.Param("operator_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/counters/:id/session. Reading the session counts as
// activity and pushes the idle deadline forward.
//
// @Summary      List operators active at a counter
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Counter ID"
// @Success      200  {object}  sessionResponse
// @Failure      404  {object}  map[string]string
// @Router       /v1/counters/{id}/session [get]
func (h *SessionHandler) List(c echo.Context) error {
	if _, _, err := ctxClaims(c); err != nil {
		return err
	}
	counterID := c.Param("id")
	if _, err := h.catalog.GetCounter(c.Request().Context(), counterID); err != nil {
		return err
	}
	return h.list(c, counterID)
}

func (h *SessionHandler) list(c echo.Context, counterID string) error {
	active := h.registry.TouchAndList(counterID)

	resp := sessionResponse{
		CounterID: counterID,
		Operators: make([]activeOperatorResponse, 0, len(active)),
	}
	for _, op := range active {
		resp.Operators = append(resp.Operators, activeOperatorResponse{
			OperatorID: op.OperatorID,
			LoginTime:  op.LoginTime,
		})
	}
	return c.JSON(http.StatusOK, resp)
}

// Permanencies handles GET /v1/counters/:id/permanencies.
//
// @Summary      Attendance history for a counter
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Counter ID"
// @Param        limit  query     int     false  "Max records (default 50)"
// @Success      200    {array}   domain.Permanency
// @Failure      404    {object}  map[string]string
// @Router       /v1/counters/{id}/permanencies [get]
func (h *SessionHandler) Permanencies(c echo.Context) error {
	counterID := c.Param("id")
	if _, err := h.catalog.GetCounter(c.Request().Context(), counterID); err != nil {
		return err
	}

	limit := defaultPermanencyLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	records, err := h.attendance.ListByCounter(c.Request().Context(), counterID, limit)
	if err != nil {
		return err
	}
	if records == nil {
		records = []*domain.Permanency{}
	}
	return c.JSON(http.StatusOK, records)
}
