package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sashabaranov/go-openai"

	"go-wildwatch/vision"
)

// ClassifyObservation forwards one observation photo to the external vision
// classifier and returns its label/confidence/summary verbatim.
func ClassifyObservation(c *gin.Context) {
	var request struct {
		ImageURL string `json:"imageUrl" binding:"required"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client := openai.NewClient(os.Getenv("OPENAI_API_KEY"))

	result, err := vision.Classify(c.Request.Context(), client, request.ImageURL, request.Notes)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
