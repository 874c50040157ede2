package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/common"
	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type PostService interface {
	Create(ctx context.Context, actorID, title, content string, image *string) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]*models.PostWithAggregates, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*models.PostWithAggregates, error)
	GetByID(ctx context.Context, id string) (*models.PostWithAggregates, error)
	Update(ctx context.Context, id, actorID string, upd *models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id, actorID string) error
}

type createPostRequest struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Image   *string `json:"image"`
}

type PostsHandler struct {
	Posts  PostService
	Auth   Authenticator
	Logger logging.Logger
}

func (h *PostsHandler) RegisterRouter(r gin.IRouter) {
	authorize := Auth(h.Auth, h.Logger)

	posts := r.Group("/posts")
	posts.GET("", wrap(h.Logger, h.List))
	posts.GET("/:id", wrap(h.Logger, h.Get))
	posts.GET("/user/me", authorize, wrap(h.Logger, h.ListMine))
	posts.POST("", authorize, wrap(h.Logger, h.Create))
	posts.PUT("/:id", authorize, wrap(h.Logger, h.Update))
	posts.DELETE("/:id", authorize, wrap(h.Logger, h.Delete))
}

func (h *PostsHandler) List(c *gin.Context) error {
	limit, err := queryInt(c, "limit", common.DefaultPageSize)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return err
	}

	list, err := h.Posts.List(c.Request.Context(), models.PostFilter{
		Limit:    limit,
		Offset:   offset,
		AuthorID: c.Query("user_id"),
	})
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *PostsHandler) Get(c *gin.Context) error {
	p, err := h.Posts.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, p)
	return nil
}

func (h *PostsHandler) ListMine(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	list, err := h.Posts.ListByAuthor(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *PostsHandler) Create(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.Posts.Create(c.Request.Context(), id, req.Title, req.Content, req.Image)
	if err != nil {
		return err
	}

	h.Logger.Info(c.Request.Context(), "post created", "post_id", p.ID, "user_id", id)
	c.JSON(http.StatusCreated, p)
	return nil
}

func (h *PostsHandler) Update(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req models.PostUpdate
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	p, err := h.Posts.Update(c.Request.Context(), c.Param("id"), id, &req)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, p)
	return nil
}

func (h *PostsHandler) Delete(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	postID := c.Param("id")
	if err := h.Posts.Delete(c.Request.Context(), postID, id); err != nil {
		return err
	}

	h.Logger.Info(c.Request.Context(), "post deleted", "post_id", postID, "user_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
	return nil
}
