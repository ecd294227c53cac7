package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lostfoundhq/lostfound-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "lostfound-api-service",
		})
	})

	itemHandler := handler.NewItemHandler(deps)
	matchHandler := handler.NewMatchHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		items := v1.Group("/items")
		{
			// POST /api/v1/items - Report a lost or found item
			items.POST("", itemHandler.CreateItem)

			// GET /api/v1/items - List items with filtering and pagination
			items.GET("", itemHandler.ListItems)

			// GET /api/v1/items/:item_id - Get item details
			items.GET("/:item_id", itemHandler.GetItem)

			// POST /api/v1/items/:item_id/resolve - Mark an item as resolved
			items.POST("/:item_id/resolve", itemHandler.ResolveItem)
		}

		match := v1.Group("/match")
		{
			// POST /api/v1/match/lost - Check matches for a lost report
			match.POST("/lost", matchHandler.CheckLostMatches)

			// POST /api/v1/match/found - Check matches for a found report
			match.POST("/found", matchHandler.CheckFoundMatches)

			// GET /api/v1/match/health - Similarity engine health probe
			match.GET("/health", matchHandler.EngineHealth)
		}
	}

	return r
}
