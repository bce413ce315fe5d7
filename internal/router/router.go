package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/tasklight-dev/tasklight/internal/handlers"
	"github.com/tasklight-dev/tasklight/internal/middleware"
	"github.com/tasklight-dev/tasklight/internal/progress"
	"github.com/tasklight-dev/tasklight/internal/store"
	"github.com/tasklight-dev/tasklight/internal/types"
	"golang.org/x/time/rate"
)

// NewRouter wires stores into handlers and mounts every route. redisClient
// may be nil; the credential endpoints then fall back to an in-process
// rate limiter.
func NewRouter(users store.UserStore, todos store.TodoStore, projects store.ProjectStore, redisClient *redis.Client) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine := progress.NewEngine(projects)

	authHandler := handlers.NewAuthHandler(users)
	todoHandler := handlers.NewTodoHandler(todos, projects, engine)
	projectHandler := handlers.NewProjectHandler(projects)

	requireAuth := middleware.AuthMiddleware(users)

	var credentialLimiter gin.HandlerFunc

	if redisClient != nil {
		credentialLimiter = middleware.NewRedisRateLimiter(redisClient, 30, time.Minute).Middleware()
	} else {
		credentialLimiter = middleware.RateLimiter(rate.Limit(5), 30)
	}

	r.GET("/health", handlers.HealthCheck)

	auth := r.Group("/auth")
	{
		auth.POST("/register", credentialLimiter, authHandler.Register)
		auth.POST("/login", credentialLimiter, authHandler.Login)
		auth.POST("/forgot-password", credentialLimiter, authHandler.ForgotPassword)
		auth.POST("/reset-password", credentialLimiter, authHandler.ResetPassword)
		auth.GET("/me", requireAuth, authHandler.Me)
		auth.PUT("/me", requireAuth, authHandler.UpdateMe)
	}

	todosGroup := r.Group("/todos", requireAuth)
	{
		todosGroup.GET("", todoHandler.List)
		todosGroup.POST("", todoHandler.Create)
		todosGroup.PUT("/:id", todoHandler.Update)
		todosGroup.DELETE("/:id", todoHandler.Delete)
	}

	projectsGroup := r.Group("/projects", requireAuth)
	{
		projectsGroup.GET("", projectHandler.List)
		projectsGroup.POST("", projectHandler.Create)
		projectsGroup.DELETE("/:id", projectHandler.Delete)
		projectsGroup.GET("/export-data", projectHandler.ExportData)
		projectsGroup.POST("/clear-data", projectHandler.ClearData)
	}

	return r
}
