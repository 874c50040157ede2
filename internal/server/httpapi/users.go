package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/models"
	"github.com/dmitrijs2005/gopherblog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type UserService interface {
	Authenticator
	Register(ctx context.Context, username, email, password string, avatar *string) (*services.Session, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Get(ctx context.Context, id string) (*models.PublicUser, error)
	List(ctx context.Context) ([]*models.PublicUser, error)
	UpdateProfile(ctx context.Context, actorID string, upd *models.UserUpdate) (*models.PublicUser, error)
	ChangePassword(ctx context.Context, actorID, current, next string) error
	Delete(ctx context.Context, actorID string) error
}

type registerRequest struct {
	UserName string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Avatar   *string `json:"avatar"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UsersHandler struct {
	Users  UserService
	Logger logging.Logger
}

func (h *UsersHandler) RegisterRouter(r gin.IRouter) {
	authorize := Auth(h.Users, h.Logger)

	users := r.Group("/users")
	users.POST("/register", wrap(h.Logger, h.Register))
	users.POST("/login", wrap(h.Logger, h.Login))
	users.POST("/token/refresh", wrap(h.Logger, h.Refresh))
	users.GET("", wrap(h.Logger, h.List))
	users.GET("/:id", wrap(h.Logger, h.Get))

	me := users.Group("/profile/me", authorize)
	me.GET("", wrap(h.Logger, h.Me))
	me.PUT("", wrap(h.Logger, h.UpdateMe))
	me.PUT("/password", wrap(h.Logger, h.ChangePassword))
	me.DELETE("", wrap(h.Logger, h.DeleteMe))
}

func (h *UsersHandler) Register(c *gin.Context) error {
	var req registerRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	session, err := h.Users.Register(c.Request.Context(), req.UserName, req.Email, req.Password, req.Avatar)
	if err != nil {
		return err
	}

	h.Logger.Info(c.Request.Context(), "user registered", "user_id", session.User.ID)
	c.JSON(http.StatusCreated, session)
	return nil
}

func (h *UsersHandler) Login(c *gin.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	session, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, session)
	return nil
}

func (h *UsersHandler) Refresh(c *gin.Context) error {
	var req refreshRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.RefreshToken == "" {
		return badRequest("refresh_token is required")
	}

	pair, err := h.Users.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, pair)
	return nil
}

func (h *UsersHandler) List(c *gin.Context) error {
	list, err := h.Users.List(c.Request.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, list)
	return nil
}

func (h *UsersHandler) Get(c *gin.Context) error {
	u, err := h.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, u)
	return nil
}

func (h *UsersHandler) Me(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	u, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, u)
	return nil
}

func (h *UsersHandler) UpdateMe(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req models.UserUpdate
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	u, err := h.Users.UpdateProfile(c.Request.Context(), id, &req)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, u)
	return nil
}

func (h *UsersHandler) ChangePassword(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	var req changePasswordRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	if err := h.Users.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	c.Status(http.StatusNoContent)
	return nil
}

func (h *UsersHandler) DeleteMe(c *gin.Context) error {
	id, err := actorID(c)
	if err != nil {
		return err
	}
	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		return err
	}

	h.Logger.Info(c.Request.Context(), "user deleted", "user_id", id)
	c.Status(http.StatusNoContent)
	return nil
}
