package handlers

import (
	"log"
	"net/http"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-wildwatch/db"
	"go-wildwatch/detection"
	"go-wildwatch/sweep"
	"go-wildwatch/types"
)

// DetectOutbreaks computes outbreak clusters from the recent report window on
// demand, without persisting anything.
func DetectOutbreaks(c *gin.Context, firestoreClient *firestore.Client) {
	opts := optionsFromQuery(c)

	reports, err := db.GetRecentReports(firestoreClient, opts.WindowDays)
	if err != nil {
		log.Printf("ERROR fetching reports for cluster detection: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reports for analysis"})
		return
	}

	clusters := detection.DetectClusters(reports, opts)
	if clusters == nil {
		clusters = []types.OutbreakCluster{}
	}

	c.JSON(http.StatusOK, gin.H{
		"reportCount": len(reports),
		"count":       len(clusters),
		"clusters":    clusters,
	})
}

// RunOutbreakSweep runs the full sweep: fetch, detect, enrich, persist.
func RunOutbreakSweep(c *gin.Context, firestoreClient *firestore.Client) {
	log.Println("Handler: Starting outbreak sweep...")

	clusters, err := sweep.Run(firestoreClient, optionsFromQuery(c))
	if err != nil {
		log.Printf("ERROR during outbreak sweep: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Outbreak sweep failed"})
		return
	}
	if clusters == nil {
		clusters = []types.OutbreakCluster{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Sweep complete",
		"count":    len(clusters),
		"clusters": clusters,
	})
}

// GetClusters returns the persisted snapshots from the last sweep.
func GetClusters(c *gin.Context, firestoreClient *firestore.Client) {
	clusters, err := db.GetAllClusters(firestoreClient)
	if err != nil {
		log.Printf("ERROR fetching saved clusters: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clusters"})
		return
	}
	if clusters == nil {
		clusters = []types.OutbreakCluster{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(clusters), "clusters": clusters})
}

func optionsFromQuery(c *gin.Context) detection.Options {
	opts := detection.Options{
		RadiusKM:   detection.DefaultRadiusKM,
		WindowDays: detection.DefaultWindowDays,
		MinSize:    detection.DefaultMinSize,
	}
	if v, err := strconv.ParseFloat(c.Query("radius_km"), 64); err == nil && v > 0 {
		opts.RadiusKM = v
	}
	if v, err := strconv.Atoi(c.Query("window_days")); err == nil && v > 0 {
		opts.WindowDays = v
	}
	if v, err := strconv.Atoi(c.Query("min_size")); err == nil && v > 0 {
		opts.MinSize = v
	}
	return opts
}
