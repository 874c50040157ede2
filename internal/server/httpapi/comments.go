package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type CommentService interface {
	Create(ctx context.Context, actorID, postID, content string) (*models.CommentWithAuthor, error)
	ListByPost(ctx context.Context, postID string) ([]*models.CommentWithAuthor, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.CommentWithAuthorAndPostTitle, error)
	GetByID(ctx context.Context, id string) (*models.CommentWithAuthor, error)
	Update(ctx context.Context, id, actorID, content string) (*models.Comment, error)
	Delete(ctx context.Context, id, actorID string) error
}

type createCommentRequest struct {
	Content string `json:"content"`
	PostID  string `json:"post_id"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

type CommentsHandler struct {
	Comments CommentService
	Auth     Authenticator
	Logger   logging.Logger
}

func (h *CommentsHandler) RegisterRouter(r gin.IRouter) {
	authorize := Auth(h.Auth, h.Logger)

	comments := r.Group("/comments")
	comments.GET("/post/:postId", wrap(h.Logger, h.ListByPost))
	comments.GET("/user/me", authorize, wrap(h.Logger, h.ListMine))
	comments.GET("/:id", wrap(h.Logger, h.Get))
	comments.POST("", authorize, wrap(h.Logger, h.Create))
	comments.PUT("/:id", authorize, wrap(h.Logger, h.Update))
	comments.DELETE("/:id", authorize, wrap(h.Logger, h.Delete))
}

func (h *CommentsHandler) ListByPost(c *gin.Context) error {
	list, err := h.Comments.ListByPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *CommentsHandler) ListMine(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.Comments.ListByAuthor(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *CommentsHandler) Get(c *gin.Context) error {
	cm, err := h.Comments.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, cm)
	return nil
}

func (h *CommentsHandler) Create(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	cm, err := h.Comments.Create(c.Request.Context(), id, req.PostID, req.Content)
	if err != nil {
		return err
	}
	c.JSON(http.StatusCreated, cm)
	return nil
}

func (h *CommentsHandler) Update(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	cm, err := h.Comments.Update(c.Request.Context(), c.Param("id"), id, req.Content)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, cm)
	return nil
}

func (h *CommentsHandler) Delete(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	if err := h.Comments.Delete(c.Request.Context(), c.Param("id"), id); err != nil {
		return err
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
	return nil
}
