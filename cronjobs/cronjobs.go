package cronjobs

import (
	"log"

	"cloud.google.com/go/firestore"
	"github.com/robfig/cron/v3"

	"go-wildwatch/detection"
	"go-wildwatch/sweep"
)

func InitCronJobs(firestoreClient *firestore.Client) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	// Outbreak sweep: every 30 minutes, default detection parameters.
	_, err := c.AddFunc("*/30 * * * *", func() {
		log.Println("\nCronJob: Outbreak Sweep Running")
		clusters, err := sweep.Run(firestoreClient, detection.Options{})
		if err != nil {
			log.Printf("Error running outbreak sweep: %v", err)
			return
		}
		log.Printf("CronJob: Outbreak sweep saved %d clusters", len(clusters))
	})
	if err != nil {
		log.Println("Error scheduling Outbreak Sweep:", err)
	}

	c.Start()
}
