package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// maxAudioSize bounds the uploaded recording; habit notes are short
// voice memos, not podcasts.
const maxAudioSize = 10 << 20

// VoiceHandler handles the voice-to-habit pipeline routes.
type VoiceHandler struct {
	service ports.VoiceService
}

func NewVoiceHandler(service ports.VoiceService) *VoiceHandler {
	return &VoiceHandler{service: service}
}

type extractRequest struct {
	Transcript string `json:"transcript" validate:"required"`
}

type extractResponse struct {
	Updates []ports.HabitUpdate `json:"updates"`
}

type applyRequest struct {
	Date    string              `json:"date"    validate:"required,datetime=2006-01-02"`
	Updates []ports.HabitUpdate `json:"updates" validate:"required,min=1"`
}

// Transcribe handles POST /v1/voice/transcribe with a multipart "audio"
// file field.
//
// @Summary      Transcribe a voice recording
// @Tags         voice
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio  formData  file  true  "Audio recording"
// @Success      200    {object}  ports.Transcription
// @Failure      400    {object}  errorResponse
// @Failure      502    {object}  errorResponse
// @Router       /v1/voice/transcribe [post]
func (h *VoiceHandler) Transcribe(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	file, err := c.FormFile("audio")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file is required")
	}
	if file.Size > maxAudioSize {
		return echo.NewHTTPError(http.StatusBadRequest, "audio file too large")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read audio file")
	}
	defer src.Close()

	audio, err := io.ReadAll(io.LimitReader(src, maxAudioSize))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read audio file")
	}

	result, err := h.service.Transcribe(c.Request().Context(), audio, file.Filename)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Extract handles POST /v1/voice/extract: transcript in, proposed
// habit updates out. The caller shows these for review before Apply.
//
// @Summary      Extract habit updates from a transcript
// @Tags         voice
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      extractRequest  true  "Transcript"
// @Success      200   {object}  extractResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/voice/extract [post]
func (h *VoiceHandler) Extract(c echo.Context) error {
	if _, _, err := ctxIdentity(c); err != nil {
		return err
	}

	var req extractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	updates, err := h.service.Extract(c.Request().Context(), req.Transcript)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, extractResponse{Updates: updates})
}

// Apply handles POST /v1/voice/apply: merges reviewed updates into the
// habit entry for the given date.
//
// @Summary      Apply reviewed habit updates
// @Tags         voice
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string        false  "Target user (admins only)"
// @Param        body     body      applyRequest  true   "Reviewed updates"
// @Success      200      {object}  domain.DailyHabits
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/voice/apply [post]
func (h *VoiceHandler) Apply(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	entry, err := h.service.Apply(c.Request().Context(), ports.ApplyUpdatesInput{
		ActorID:      actorID,
		TargetUserID: targetUser(c, actorID),
		Date:         req.Date,
		Updates:      req.Updates,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entry)
}
