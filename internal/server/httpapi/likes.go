package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type LikeService interface {
	Toggle(ctx context.Context, actorID, postID string) (*models.ToggleResult, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	Status(ctx context.Context, actorID, postID string) (bool, error)
	ListByPost(ctx context.Context, postID string) ([]*models.LikeWithUser, error)
	ListByUser(ctx context.Context, userID string) ([]*models.LikeWithPostTitle, error)
}

type toggleLikeRequest struct {
	PostID string `json:"post_id"`
}

type likeCountResponse struct {
	PostID    string `json:"post_id"`
	LikeCount int64  `json:"like_count"`
}

type likeStatusResponse struct {
	Liked bool `json:"liked"`
}

type LikesHandler struct {
	Likes  LikeService
	Auth   Authenticator
	Logger logging.Logger
}

func (h *LikesHandler) RegisterRouter(r gin.IRouter) {
	authorize := Auth(h.Auth, h.Logger)

	likes := r.Group("/likes")
	likes.POST("/toggle", authorize, wrap(h.Logger, h.Toggle))
	likes.GET("/post/:postId", wrap(h.Logger, h.ListByPost))
	likes.GET("/post/:postId/count", wrap(h.Logger, h.Count))
	likes.GET("/post/:postId/status", authorize, wrap(h.Logger, h.Status))
	likes.GET("/user/me", authorize, wrap(h.Logger, h.ListMine))
}

func (h *LikesHandler) Toggle(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req toggleLikeRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.PostID == "" {
		return badRequest("post_id is required")
	}

	res, err := h.Likes.Toggle(c.Request.Context(), id, req.PostID)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, res)
	return nil
}

func (h *LikesHandler) ListByPost(c *gin.Context) error {
	list, err := h.Likes.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *LikesHandler) Count(c *gin.Context) error {
	postID := c.Param("postId")
	n, err := h.Likes.CountByPost(c.Request.Context(), postID)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, likeCountResponse{PostID: postID, LikeCount: n})
	return nil
}

func (h *LikesHandler) Status(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	liked, err := h.Likes.Status(c.Request.Context(), id, c.Param("postId"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, likeStatusResponse{Liked: liked})
	return nil
}

func (h *LikesHandler) ListMine(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.Likes.ListByUser(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}
