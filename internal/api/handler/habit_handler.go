package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// HabitHandler handles daily habit entry routes.
type HabitHandler struct {
	service ports.HabitService
}

func NewHabitHandler(service ports.HabitService) *HabitHandler {
	return &HabitHandler{service: service}
}

// Save handles POST /v1/habits. Admins may write on behalf of a roster
// client by passing ?user_id=.
//
// @Summary      Save a daily habit entry
// @Tags         habits
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string            false  "Target user (admins only)"
// @Param        body     body      saveHabitsRequest true   "Habit entry"
// @Success      200      {object}  domain.DailyHabits
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/habits [post]
func (h *HabitHandler) Save(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req saveHabitsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	target := targetUser(c, actorID)
	saved, err := h.service.Save(c.Request().Context(), ports.SaveHabitsInput{
		ActorID:      actorID,
		TargetUserID: target,
		Habits:       req.toDomain(target),
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, saved)
}

// List handles GET /v1/habits with page/limit pagination, newest first.
//
// @Summary      List habit entries
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Target user (admins only)"
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Page size (default 30)"
// @Success      200      {object}  habitPageResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/habits [get]
func (h *HabitHandler) List(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.List(c.Request().Context(), actorID, targetUser(c, actorID), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, habitPageResponse{
		Data:    result.Data,
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
		HasMore: result.HasMore,
	})
}

// ByDate handles GET /v1/habits/:date. An absent entry is not an
// error; the response body is null.
//
// @Summary      Get the habit entry for one date
// @Tags         habits
// @Produce      json
// @Security     BearerAuth
// @Param        date     path      string  true   "Date (YYYY-MM-DD)"
// @Param        user_id  query     string  false  "Target user (admins only)"
// @Success      200      {object}  domain.DailyHabits
// @Failure      403      {object}  errorResponse
// @Router       /v1/habits/{date} [get]
func (h *HabitHandler) ByDate(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	entry, err := h.service.ByDate(c.Request().Context(), actorID, targetUser(c, actorID), c.Param("date"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entry)
}
