package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// SyncHandler serves incremental sync deltas.
type SyncHandler struct {
	service ports.SyncService
}

func NewSyncHandler(service ports.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

type syncResponse struct {
	Habits    []*domain.DailyHabits       `json:"habits"`
	Bloodwork []*domain.BloodworkDocument `json:"bloodwork"`
	Profile   *domain.Client              `json:"profile"`
	Changes   []domain.ChangeEntry        `json:"changes"`
	SyncedAt  time.Time                   `json:"synced_at"`
}

// Since handles GET /v1/sync?since=<RFC3339>. An empty since returns
// the full data set; clients persist synced_at and pass it back on the
// next call.
//
// @Summary      Fetch changes since an instant
// @Tags         sync
// @Produce      json
// @Security     BearerAuth
// @Param        since    query     string  false  "RFC3339 timestamp of last sync"
// @Param        user_id  query     string  false  "Target user (admins only)"
// @Success      200      {object}  syncResponse
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/sync [get]
func (h *SyncHandler) Since(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	data, err := h.service.DataSince(c.Request().Context(), actorID, targetUser(c, actorID), c.QueryParam("since"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, syncResponse{
		Habits:    data.Habits,
		Bloodwork: data.Bloodwork,
		Profile:   data.Profile,
		Changes:   data.Changes,
		SyncedAt:  data.SyncedAt,
	})
}
