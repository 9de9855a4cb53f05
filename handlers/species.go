package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-wildwatch/species"
)

// ResolveSpecies infers a species label from repeated tags query parameters
// and an optional summary.
func ResolveSpecies(c *gin.Context) {
	tags := c.QueryArray("tags")
	summary := c.Query("summary")

	c.JSON(http.StatusOK, gin.H{
		"species": species.Resolve(tags, summary),
	})
}
