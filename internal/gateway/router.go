// Package gateway wires the HTTP surface of the admin gateway: session
// auth middleware, the page route guard, access logging and the routing
// table over the auth, proxy, flora and chatbot handlers.
package gateway

import (
	"net/http"
	"path/filepath"

	"floragate/internal/auth"
	"floragate/internal/chatbot"
	"floragate/internal/config"
	"floragate/internal/flora"
	"floragate/internal/proxy"
	"floragate/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups the endpoint handlers mounted by the router.
type Handlers struct {
	Auth    *auth.Handler
	Proxy   *proxy.Handler
	Flora   *flora.Handler
	Chatbot *chatbot.Handler
}

// SetupRouter configures and returns the gateway router
func SetupRouter(cfg *config.Config, codec *session.Codec, h Handlers) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Gateway health check
	r.GET("/health", Health)

	// Authentication endpoints (login/signup are public)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/signup", h.Auth.Signup)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/me", SessionAuthMiddleware(codec), h.Auth.Me)
	}

	// Proxied backend resources - require a valid session
	api := r.Group("/api")
	api.Use(SessionAuthMiddleware(codec))
	{
		users := api.Group("/users")
		{
			users.GET("", h.Proxy.ListUsers)
			users.PUT("/:id/assign-departments", h.Proxy.AssignDepartments)
			// The backend addresses users by email on delete; the :id
			// segment carries it.
			users.DELETE("/:id", h.Proxy.DeleteUser)
		}

		departments := api.Group("/departments")
		{
			departments.GET("", h.Proxy.ListDepartments)
			departments.POST("", h.Proxy.CreateDepartment)
			departments.PUT("/:id", h.Proxy.UpdateDepartment)
			departments.DELETE("/:id", h.Proxy.DeleteDepartment)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", h.Proxy.ListCategories)
			categories.POST("", h.Proxy.CreateCategory)
			categories.PUT("/:id", h.Proxy.UpdateCategory)
			categories.DELETE("/:id", h.Proxy.DeleteCategory)
		}

		documents := api.Group("/documents")
		{
			documents.GET("", h.Proxy.ListDocuments)
			documents.POST("", h.Proxy.UploadDocument)
			documents.DELETE("/:id", h.Proxy.DeleteDocument)
		}

		api.POST("/chatbot", h.Chatbot.Chat)
	}

	// Flora catalog - read-only, proxied to the unauthenticated catalog API
	floraGroup := r.Group("/flora")
	floraGroup.Use(SessionAuthMiddleware(codec))
	{
		floraGroup.GET("/species", h.Flora.ListSpecies)
		floraGroup.GET("/species/:id", h.Flora.GetSpecies)
		floraGroup.GET("/diseases", h.Flora.ListDiseases)
		floraGroup.GET("/plants", h.Flora.ListPlants)
		floraGroup.GET("/plants/geojson", h.Flora.PlantsGeoJSON)
	}

	// Dashboard bundle assets bypass the guard
	if cfg.StaticDir != "" {
		r.Static("/assets", filepath.Join(cfg.StaticDir, "assets"))
		r.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
	}

	// Everything else is a page request: guard first, then the SPA shell.
	r.NoRoute(RouteGuard(codec), ServePage(cfg.StaticDir))

	return r
}

// Health is the gateway health check handler
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "floragate",
	})
}
