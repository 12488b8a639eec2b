// Package httpapi exposes the to-do services over a JSON HTTP API.
package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"todo-list/internal/service"
)

// Options configures the router.
type Options struct {
	Tasks             *service.TaskService
	Categories        *service.CategoryService
	Auth              *service.AuthService
	Accounts          *service.AccountService
	Logger            *log.Logger
	AuthRatePerMinute int
	CORSOrigins       []string
}

type handler struct {
	tasks      *service.TaskService
	categories *service.CategoryService
	auth       *service.AuthService
	accounts   *service.AccountService
	logger     *log.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter wires middleware and routes.
func NewRouter(opts Options) *gin.Engine {
	h := &handler{
		tasks:      opts.Tasks,
		categories: opts.Categories,
		auth:       opts.Auth,
		accounts:   opts.Accounts,
		logger:     opts.Logger,
	}

	router := gin.New()
	router.Use(RequestID(), RequestLogger(opts.Logger), Recovery(opts.Logger))

	if len(opts.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  opts.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:  []string{"Authorization", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/health", h.health)

	perMinute := opts.AuthRatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}
	authGroup := router.Group("/api/auth", RateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute))
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	api := router.Group("/api", Auth(opts.Auth))

	api.GET("/tasks", h.listTasks)
	api.POST("/tasks", h.createTask)
	api.GET("/tasks/:id", h.getTask)
	api.PUT("/tasks/:id", h.updateTask)
	api.PATCH("/tasks/:id/completion", h.setCompletion)
	api.DELETE("/tasks/:id", h.deleteTask)

	api.GET("/categories", h.listCategories)
	api.POST("/categories", h.createCategory)
	api.PUT("/categories/:id", h.renameCategory)
	api.DELETE("/categories/:id", h.deleteCategory)

	api.GET("/account", h.getAccount)
	api.POST("/account/telegram/link", h.issueTelegramLink)
	api.DELETE("/account/telegram", h.unlinkTelegram)
	api.DELETE("/account", h.deleteAccount)

	return router
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps service errors onto HTTP statuses.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid username or password"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, errorResponse{Error: "username already taken"})
	default:
		h.logger.Error("request failed", "path", c.FullPath(), "request_id", c.GetString(ctxRequestID), "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// parseID reads the :id route parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
