package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-wildwatch/rewards"
)

// AwardPoints applies the idempotent contribution award for one analysed
// report. Unknown users and duplicate awards return pointsAwarded=0, not an
// error.
func AwardPoints(c *gin.Context, svc *rewards.Service) {
	var request struct {
		UserID     string  `json:"userId" binding:"required"`
		ReportID   string  `json:"reportId" binding:"required"`
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
		Verified   bool    `json:"verified"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := svc.AwardPoints(c.Request.Context(), request.UserID, request.ReportID, request.Label, request.Confidence, request.Verified)
	if err != nil {
		log.Printf("ERROR awarding points for report %s to user %s: %v", request.ReportID, request.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to award points"})
		return
	}

	c.JSON(http.StatusOK, result)
}
