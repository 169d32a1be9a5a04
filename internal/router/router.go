package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/taskflow/api/handler"
	"github.com/fastygo/taskflow/internal/middleware"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Project   *apiHandler.ProjectHandler
	Task      *apiHandler.TaskHandler
	Comment   *apiHandler.CommentHandler
	Analytics *apiHandler.AnalyticsHandler
	Health    *apiHandler.HealthHandler
}

// Middlewares applied per route group.
type Middlewares struct {
	Auth          middleware.Middleware
	LoginLimit    middleware.Middleware
	RegisterLimit middleware.Middleware
}

func New(handlers Handlers, mw Middlewares) *router.Router {
	r := router.New()
	auth := orPassThrough(mw.Auth)

	r.GET("/", handlers.Health.Root)
	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/register", orPassThrough(mw.RegisterLimit)(handlers.Auth.Register))
	r.POST("/api/login", orPassThrough(mw.LoginLimit)(handlers.Auth.Login))

	// Protected routes
	r.GET("/api/me", auth(handlers.Profile.Me))

	r.GET("/api/projects", auth(handlers.Project.GetProjects))
	r.POST("/api/projects", auth(handlers.Project.CreateProject))
	r.GET("/api/projects/{id}", auth(handlers.Project.GetProject))
	r.GET("/api/projects/{id}/members", auth(handlers.Project.GetMembers))
	r.POST("/api/projects/{id}/members", auth(handlers.Project.AddMember))

	r.GET("/api/tasks", auth(handlers.Task.GetTasks))
	r.POST("/api/tasks", auth(handlers.Task.CreateTask))
	r.GET("/api/tasks/{id}", auth(handlers.Task.GetTask))
	r.PUT("/api/tasks/{id}", auth(handlers.Task.UpdateTask))
	r.DELETE("/api/tasks/{id}", auth(handlers.Task.DeleteTask))
	r.PATCH("/api/tasks/{id}/status", auth(handlers.Task.UpdateStatus))
	r.PATCH("/api/tasks/{id}/priority", auth(handlers.Task.UpdatePriority))
	r.GET("/api/tasks/{id}/comments", auth(handlers.Comment.GetTaskComments))

	r.POST("/api/comments", auth(handlers.Comment.CreateComment))
	r.DELETE("/api/comments/{id}", auth(handlers.Comment.DeleteComment))

	r.GET("/api/analytics", auth(handlers.Analytics.GetSummary))

	return r
}

// Handler wraps the router with the middleware every request passes through.
func Handler(r *router.Router, global ...middleware.Middleware) fasthttp.RequestHandler {
	h := r.Handler
	for i := len(global) - 1; i >= 0; i-- {
		h = global[i](h)
	}
	return h
}

func orPassThrough(mw middleware.Middleware) middleware.Middleware {
	if mw == nil {
		return func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	return mw
}
