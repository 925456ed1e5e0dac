package api

import (
	"github.com/gin-gonic/gin"

	exportapi "github.com/rube11/Mo-Data-builder-project/internal/api/export"
	"github.com/rube11/Mo-Data-builder-project/internal/api/visualization"
	"github.com/rube11/Mo-Data-builder-project/internal/placeholder"
)

// SetupRouter configures all routes
func SetupRouter(r *gin.Engine, viz *visualization.Handler, exp *exportapi.Handler) {
	// CORS middleware
	r.Use(CORSMiddleware())

	// Health check
	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Report visualization API is running",
			"version": "1.0.0",
		})
	})

	api := r.Group("/api")
	{
		vizGroup := api.Group("/visualizations")
		{
			vizGroup.GET("", viz.List)
			vizGroup.POST("", viz.Create)
			vizGroup.DELETE("/:id", viz.Delete)
		}

		// Standalone export mirror, matching the save-json contract
		api.POST("/save-json", exp.SaveJSON)

		// Static asset contract: the chart placeholders and report document
		api.GET("/placeholders", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"charts": placeholder.Charts(),
				"report": placeholder.ReportDocument,
			})
		})
	}
}

// CORSMiddleware provides CORS support
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
