package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type MediaService interface {
	PresignUpload(ctx context.Context, userID, contentType string) (*services.PresignedUpload, error)
}

type presignRequest struct {
	ContentType string `json:"content_type"`
}

type MediaHandler struct {
	Media  MediaService
	Auth   Authenticator
	Logger logging.Logger
}

func (h *MediaHandler) RegisterRouter(r gin.IRouter) {
	r.POST("/media/presign", Auth(h.Auth, h.Logger), wrap(h.Logger, h.Presign))
}

func (h *MediaHandler) Presign(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req presignRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	up, err := h.Media.PresignUpload(c.Request.Context(), id, req.ContentType)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, up)
	return nil
}
