package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-wildwatch/cronjobs"
	"go-wildwatch/db"
	"go-wildwatch/rewards"
	"go-wildwatch/routes"
	"go-wildwatch/satellite"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	// Print and check env
	if os.Getenv("OPENAI_API_KEY") != "" {
		fmt.Println("OPENAI_API_KEY loaded")
	}

	clientURL := os.Getenv("CLIENT_URL")
	fmt.Println("CLIENT_URL: ", clientURL)

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	// Satellite imagery client
	satCfg := satellite.DefaultConfig()
	satCfg.ClientID = os.Getenv("SATELLITE_CLIENT_ID")
	satCfg.ClientSecret = os.Getenv("SATELLITE_CLIENT_SECRET")
	if url := os.Getenv("SATELLITE_TOKEN_URL"); url != "" {
		satCfg.TokenURL = url
	}
	if url := os.Getenv("SATELLITE_STATS_URL"); url != "" {
		satCfg.StatsURL = url
	}
	satClient, err := satellite.NewClient(satCfg)
	if err != nil {
		log.Fatalf("Failed to initialize satellite client: %v", err)
	}

	// Contribution rewards over the Firestore user/ledger store
	rewardsSvc := rewards.NewService(rewards.NewFirestoreStore(firestoreClient))

	// Initialize cron jobs
	cronjobs.InitCronJobs(firestoreClient)

	r := routes.SetupRouter(firestoreClient, satClient, rewardsSvc)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
