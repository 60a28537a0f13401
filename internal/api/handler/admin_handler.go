package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// AdminHandler handles the admin-only routes.
type AdminHandler struct {
	admins ports.AdminService
	users  ports.UserService
}

func NewAdminHandler(admins ports.AdminService, users ports.UserService) *AdminHandler {
	return &AdminHandler{admins: admins, users: users}
}

type assignClientRequest struct {
	AdminID string `json:"admin_id" validate:"required"`
}

type updateUserRequest struct {
	Name        *string             `json:"name"`
	PhoneNumber *string             `json:"phone_number"`
	IsActive    *bool               `json:"is_active"`
	Profile     *domain.ProfileData `json:"profile_data"`
}

type dashboardStatsResponse struct {
	TotalClients  int `json:"total_clients"`
	ActiveToday   int `json:"active_today"`
	PendingHabits int `json:"pending_habits"`
	NewBloodwork  int `json:"new_bloodwork"`
}

type dashboardResponse struct {
	Clients        []*domain.Client       `json:"clients"`
	RecentActivity []domain.ChangeEntry   `json:"recent_activity"`
	Stats          dashboardStatsResponse `json:"stats"`
}

type clientListResponse struct {
	Data []*domain.Client `json:"data"`
}

type changeLogResponse struct {
	Data []domain.ChangeEntry `json:"data"`
}

// Dashboard handles GET /v1/admin/dashboard.
//
// @Summary      Admin dashboard aggregates
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/dashboard [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	adminID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.admins.Dashboard(c.Request().Context(), adminID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dashboardResponse{
		Clients:        data.Clients,
		RecentActivity: data.RecentActivity,
		Stats: dashboardStatsResponse{
			TotalClients:  data.Stats.TotalClients,
			ActiveToday:   data.Stats.ActiveToday,
			PendingHabits: data.Stats.PendingHabits,
			NewBloodwork:  data.Stats.NewBloodwork,
		},
	})
}

// Clients handles GET /v1/admin/clients: the caller's active roster.
//
// @Summary      List the admin's clients
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  clientListResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/admin/clients [get]
func (h *AdminHandler) Clients(c echo.Context) error {
	adminID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	clients, err := h.admins.Clients(c.Request().Context(), adminID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, clientListResponse{Data: clients})
}

// AssignClient handles POST /v1/admin/clients/:id/assign: moves a
// client onto an admin's roster, detaching it from the previous one.
//
// @Summary      Assign a client to an admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Client id"
// @Param        body  body      assignClientRequest  true  "Destination admin"
// @Success      200   {object}  domain.Client
// @Failure      404   {object}  errorResponse
// @Router       /v1/admin/clients/{id}/assign [post]
func (h *AdminHandler) AssignClient(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req assignClientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	client, err := h.admins.AssignClient(c.Request().Context(), c.Param("id"), req.AdminID, actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, client)
}

// UpdateUser handles PUT /v1/admin/users/:id: partial update, absent
// fields stay untouched.
//
// @Summary      Update a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateUser(c.Request().Context(), c.Param("id"), domain.UserUpdate{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		IsActive:    req.IsActive,
		Profile:     req.Profile,
	}, actorID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// ChangeLogs handles GET /v1/admin/changelogs with optional
// entity_type/entity_id filters, newest first.
//
// @Summary      Query the change log
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        entity_type  query     string  false  "Filter by entity type"
// @Param        entity_id    query     string  false  "Filter by entity id"
// @Param        limit        query     int     false  "Max entries (default 100)"
// @Success      200          {object}  changeLogResponse
// @Router       /v1/admin/changelogs [get]
func (h *AdminHandler) ChangeLogs(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.admins.ChangeLogs(c.Request().Context(), ports.ChangeLogFilter{
		EntityType: c.QueryParam("entity_type"),
		EntityID:   c.QueryParam("entity_id"),
		Limit:      limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, changeLogResponse{Data: entries})
}

// Export handles GET /v1/admin/export: a JSON snapshot of the store
// without credentials, for backup and debugging.
//
// @Summary      Export the full data set
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {string}  string  "JSON snapshot"
// @Router       /v1/admin/export [get]
func (h *AdminHandler) Export(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	snapshot, err := h.admins.Export(c.Request().Context())
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="habitcoach-export.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, snapshot)
}
