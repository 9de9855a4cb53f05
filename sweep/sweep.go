package sweep

import (
	"log"

	"cloud.google.com/go/firestore"

	"go-wildwatch/db"
	"go-wildwatch/detection"
	"go-wildwatch/geocode"
	"go-wildwatch/types"
)

// Run executes one outbreak sweep: fetch the recent report window, detect
// clusters, enrich centroids with area names, and persist the snapshots.
// Geocoding is best effort; a missing Maps key only skips the enrichment.
func Run(client *firestore.Client, opts detection.Options) ([]types.OutbreakCluster, error) {
	if opts.WindowDays <= 0 {
		opts.WindowDays = detection.DefaultWindowDays
	}

	reports, err := db.GetRecentReports(client, opts.WindowDays)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		log.Println("Sweep: no classified reports in window, nothing to do.")
		return nil, nil
	}

	clusters := detection.DetectClusters(reports, opts)
	log.Printf("Sweep: %d reports produced %d outbreak clusters.", len(reports), len(clusters))
	if len(clusters) == 0 {
		return nil, nil
	}

	enrichAreaNames(clusters)

	if err := db.SaveClusters(client, clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

func enrichAreaNames(clusters []types.OutbreakCluster) {
	for i := range clusters {
		name, err := geocode.AreaName(clusters[i].Lat, clusters[i].Lng)
		if err != nil {
			log.Printf("Warning: skipping area-name enrichment: %v", err)
			return
		}
		clusters[i].AreaName = name
	}
}
