package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/habitcoach/coaching-system/internal/core/domain"
	"github.com/habitcoach/coaching-system/internal/core/ports"
)

// BloodworkHandler handles bloodwork document routes.
type BloodworkHandler struct {
	service ports.BloodworkService
}

func NewBloodworkHandler(service ports.BloodworkService) *BloodworkHandler {
	return &BloodworkHandler{service: service}
}

type uploadBloodworkRequest struct {
	FileName string `json:"file_name" validate:"required"`
	FileType string `json:"file_type" validate:"required"`
	FileSize int64  `json:"file_size" validate:"required,gt=0"`
	Notes    string `json:"notes"`
}

type bloodworkListResponse struct {
	Data []*domain.BloodworkDocument `json:"data"`
}

// Upload handles POST /v1/bloodwork. The document body lives in blob
// storage; this endpoint records its metadata and reference URL.
//
// @Summary      Record a bloodwork document
// @Tags         bloodwork
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string                 false  "Target user (admins only)"
// @Param        body     body      uploadBloodworkRequest true   "Document metadata"
// @Success      201      {object}  domain.BloodworkDocument
// @Failure      400      {object}  errorResponse
// @Failure      403      {object}  errorResponse
// @Failure      422      {object}  errorResponse
// @Router       /v1/bloodwork [post]
func (h *BloodworkHandler) Upload(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req uploadBloodworkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	doc, err := h.service.Upload(c.Request().Context(), ports.UploadBloodworkInput{
		ActorID:      actorID,
		TargetUserID: targetUser(c, actorID),
		FileName:     req.FileName,
		FileType:     req.FileType,
		FileSize:     req.FileSize,
		Notes:        req.Notes,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, doc)
}

// List handles GET /v1/bloodwork, newest upload first.
//
// @Summary      List bloodwork documents
// @Tags         bloodwork
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string  false  "Target user (admins only)"
// @Success      200      {object}  bloodworkListResponse
// @Failure      403      {object}  errorResponse
// @Router       /v1/bloodwork [get]
func (h *BloodworkHandler) List(c echo.Context) error {
	actorID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	docs, err := h.service.List(c.Request().Context(), actorID, targetUser(c, actorID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bloodworkListResponse{Data: docs})
}
