package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/lifelogger/backend/api/handler"
	"github.com/lifelogger/backend/internal/middleware"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Stats  *apiHandler.StatsHandler
	Health *apiHandler.HealthHandler
}

// PublicPaths bypass the password gate.
var PublicPaths = []string{
	"/health",
	"/api/verify-password",
	"/logout",
}

// New registers every route and wraps the router in the given middlewares,
// outermost first.
func New(handlers Handlers, middlewares ...middleware.Middleware) fasthttp.RequestHandler {
	r := router.New()
	r.NotFound = apiHandler.NotFound
	r.MethodNotAllowed = apiHandler.MethodNotAllowed

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/verify-password", handlers.Auth.VerifyPassword)
	r.GET("/logout", handlers.Auth.Logout)

	r.GET("/api/tasks", handlers.Task.ListTasks)
	r.POST("/api/tasks", handlers.Task.CreateTask)
	r.POST("/api/tasks/reorder", handlers.Task.ReorderTasks)
	r.PUT("/api/tasks/{id}", handlers.Task.RenameTask)
	r.DELETE("/api/tasks/{id}", handlers.Task.DeleteTask)
	r.POST("/api/tasks/{id}/complete", handlers.Task.CompleteTask)
	r.DELETE("/api/tasks/{id}/complete", handlers.Task.UncompleteTask)
	r.POST("/api/tasks/{id}/footnote", handlers.Task.SaveFootnote)

	stats := r.Group("/api/stats")
	stats.GET("/daily", handlers.Stats.Daily)
	stats.GET("/weekly", handlers.Stats.Weekly)
	stats.GET("/today", handlers.Stats.Today)
	stats.GET("/average", handlers.Stats.Average)

	return middleware.Chain(r.Handler, middlewares...)
}
