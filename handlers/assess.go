package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-wildwatch/satellite"
)

// Two statistical requests at 30s each, plus headroom for the token exchange.
const assessTimeout = 65 * time.Second

// AssessVegetation runs a vegetation-anomaly assessment for the lat/lng query
// coordinate.
func AssessVegetation(c *gin.Context, satClient *satellite.Client) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat must be a number in [-90, 90]"})
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil || lng < -180 || lng > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lng must be a number in [-180, 180]"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), assessTimeout)
	defer cancel()

	assessment, err := satClient.Assess(ctx, lat, lng)
	if err != nil {
		if satellite.IsNoData(err) {
			// Imagery is genuinely unavailable, not a system failure.
			c.JSON(http.StatusNotFound, gin.H{
				"error":  "Satellite imagery is unavailable for this location right now. Try again later.",
				"detail": err.Error(),
			})
			return
		}
		if errors.Is(err, satellite.ErrAuth) {
			log.Printf("ERROR satellite auth: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Satellite service authentication failed"})
			return
		}
		log.Printf("ERROR assessing vegetation at (%f, %f): %v", lat, lng, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Vegetation assessment failed"})
		return
	}

	c.JSON(http.StatusOK, assessment)
}
