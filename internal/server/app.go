// Package server initializes and runs the blog API: it opens the database,
// applies migrations, builds the services and serves them over HTTP until a
// termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/gopherblog/internal/logging"
	"github.com/dmitrijs2005/gopherblog/internal/server/config"
	"github.com/dmitrijs2005/gopherblog/internal/server/httpapi"
	"github.com/dmitrijs2005/gopherblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gopherblog/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	userService    *services.UserService
	postService    *services.PostService
	commentService *services.CommentService
	likeService    *services.LikeService
	mediaService   *services.MediaService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(c.LogFormat)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		userService:    services.NewUserService(db, rm, c),
		postService:    services.NewPostService(db, rm),
		commentService: services.NewCommentService(db, rm),
		likeService:    services.NewLikeService(db, rm),
		mediaService:   services.NewMediaService(c),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) routers() []httpapi.Router {
	return []httpapi.Router{
		&httpapi.HealthHandler{DB: app.db, Logger: app.logger},
		&httpapi.UsersHandler{Users: app.userService, Logger: app.logger},
		&httpapi.PostsHandler{Posts: app.postService, Auth: app.userService, Logger: app.logger},
		&httpapi.CommentsHandler{Comments: app.commentService, Auth: app.userService, Logger: app.logger},
		&httpapi.LikesHandler{Likes: app.likeService, Auth: app.userService, Logger: app.logger},
		&httpapi.MediaHandler{Media: app.mediaService, Auth: app.userService, Logger: app.logger},
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	gin.SetMode(gin.ReleaseMode)
	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, app.routers()...)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

const sessionPurgeInterval = time.Hour

// purgeSessions periodically removes expired refresh tokens until ctx ends.
func (app *App) purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Error(ctx, "purging sessions", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired sessions", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.purgeSessions(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
