package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-wildwatch/handlers"
	"go-wildwatch/rewards"
	"go-wildwatch/satellite"
)

func SetupRouter(firestoreClient *firestore.Client, satClient *satellite.Client, rewardsSvc *rewards.Service) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to Go WildWatch!",
		})
	})

	// api routes
	api := r.Group("/api/wildwatch")
	{
		api.GET("/assess", func(c *gin.Context) {
			handlers.AssessVegetation(c, satClient)
		})
		api.GET("/clusters", func(c *gin.Context) {
			handlers.DetectOutbreaks(c, firestoreClient)
		})
		api.GET("/clusters/saved", func(c *gin.Context) {
			handlers.GetClusters(c, firestoreClient)
		})
		api.POST("/clusters/sweep", func(c *gin.Context) {
			handlers.RunOutbreakSweep(c, firestoreClient)
		})
		api.POST("/rewards", func(c *gin.Context) {
			handlers.AwardPoints(c, rewardsSvc)
		})
		api.POST("/classify", handlers.ClassifyObservation)
		api.GET("/species/resolve", handlers.ResolveSpecies)
	}

	return r
}
