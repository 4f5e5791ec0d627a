package handler

import (
	"net/http"

	"kinship/backend/internal/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// AuthMode says how a route authenticates its caller.
type AuthMode int

const (
	Public AuthMode = iota
	Required
	Optional
)

// Route binds a method and path to a handler.
type Route struct {
	Method  string
	Path    string
	Auth    AuthMode
	Handler gin.HandlerFunc
}

const apiV1 = "/api/v1"

// Routes returns the routing table of the service.
func (h *Handler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/ping", Public, Ping},
		{http.MethodGet, "/swagger/*any", Public, ginSwagger.WrapHandler(swaggerFiles.Handler)},

		{http.MethodPost, apiV1 + "/auth/register", Public, h.RegisterUser},
		{http.MethodPost, apiV1 + "/auth/login", Public, h.LoginUser},

		{http.MethodGet, apiV1 + "/users", Required, h.SearchUsers},
		{http.MethodGet, apiV1 + "/users/me", Required, h.GetMe},
		{http.MethodPatch, apiV1 + "/users/me", Required, h.UpdateMe},
		{http.MethodDelete, apiV1 + "/users/me", Required, h.DeleteMe},
		{http.MethodGet, apiV1 + "/users/:username", Optional, h.GetUser},

		{http.MethodGet, apiV1 + "/relationships", Required, h.GetRelationships},
		{http.MethodGet, apiV1 + "/relationships/requests", Required, h.GetRequests},
		{http.MethodGet, apiV1 + "/relationships/events", Required, h.Events},
		{http.MethodPost, apiV1 + "/relationships/requests/:to", Required, h.SendRequest},
		{http.MethodDelete, apiV1 + "/relationships/requests/:to", Required, h.RemoveRequest},
		{http.MethodPut, apiV1 + "/relationships/accept/:from", Required, h.AcceptRequest},
		{http.MethodPut, apiV1 + "/relationships/reject/:from", Required, h.RejectRequest},
		{http.MethodDelete, apiV1 + "/relationships/:target", Required, h.RemoveRelationship},

		{http.MethodGet, apiV1 + "/favorites", Required, h.ListMarks(h.favorites)},
		{http.MethodPost, apiV1 + "/favorites/:type/:id", Required, h.AddMark(h.favorites)},
		{http.MethodDelete, apiV1 + "/favorites/:type/:id", Required, h.RemoveMark(h.favorites)},

		{http.MethodGet, apiV1 + "/likes", Required, h.ListMarks(h.likes)},
		{http.MethodPost, apiV1 + "/likes/:type/:id", Required, h.AddMark(h.likes)},
		{http.MethodDelete, apiV1 + "/likes/:type/:id", Required, h.RemoveMark(h.likes)},
		{http.MethodGet, apiV1 + "/likes/:type/:id/count", Public, h.CountMarks(h.likes)},
	}
}

// Register adds routes to r, wrapping each in the middleware its AuthMode
// asks for.
func Register(r gin.IRoutes, routes []Route, jwtSecret string) {
	required := auth.Middleware(jwtSecret)
	optional := auth.OptionalMiddleware(jwtSecret)

	for _, rt := range routes {
		switch rt.Auth {
		case Required:
			r.Handle(rt.Method, rt.Path, required, rt.Handler)
		case Optional:
			r.Handle(rt.Method, rt.Path, optional, rt.Handler)
		default:
			r.Handle(rt.Method, rt.Path, rt.Handler)
		}
	}
}

// Ping answers health checks. It lives outside the versioned API and is not
// part of the swagger document.
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
