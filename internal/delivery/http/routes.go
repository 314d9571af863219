package http

import (
	"github.com/gin-gonic/gin"
)

// SetupRouter builds the gin engine with all routes and middleware.
func SetupRouter(h *Handler, allowedOrigins []string, environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(RequestID())
	router.Use(CORS(allowedOrigins))

	router.GET("/health", h.Health)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/lookup", h.Lookup)
		v1.POST("/score", h.Score)

		nicknames := v1.Group("/nicknames")
		{
			nicknames.GET("", h.ListNicknames)
			nicknames.POST("", h.AddNickname)
			nicknames.DELETE("/:id", h.DeleteNickname)
		}
	}

	return router
}
