// Package api exposes the feed pipeline over HTTP.
package api

import (
	"github.com/gin-gonic/gin"

	"newshub/internal/auth"
)

// NewRouter wires the route table. The identity middleware runs on the
// whole /api group; RequireUser only guards account routes.
func NewRouter(h *Handlers, jwtSecret string, debug bool) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	api := r.Group("/api", auth.Middleware(jwtSecret))
	{
		api.GET("/feed", h.Feed)
		api.POST("/feed/track-click", auth.RequireUser(), h.TrackClick)

		user := api.Group("/user", auth.RequireUser())
		{
			user.GET("/saved", h.SavedList)
			user.POST("/saved", h.SaveToggle)
			user.GET("/profile", h.Profile)
		}

		ai := api.Group("/ai")
		{
			ai.POST("/summary", h.AISummary)
			ai.POST("/ask", h.AIAsk)
		}
	}

	return r
}
