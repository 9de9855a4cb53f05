package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"go-wildwatch/types"
)

const clustersCollection = "clusters"

// SaveClusters saves a sweep's outbreak clusters to the 'clusters' collection
// using BulkWriter for efficient non-transactional writes. The
// OutbreakCluster.ID field becomes the Firestore document ID.
func SaveClusters(client *firestore.Client, clusters []types.OutbreakCluster) error {
	if len(clusters) == 0 {
		log.Println("No clusters to save.")
		return nil
	}

	ctx := context.Background()
	bw := client.BulkWriter(ctx)
	collectionRef := client.Collection(clustersCollection)

	savedCount := 0
	for i := range clusters {
		cluster := clusters[i]

		if cluster.ID == "" {
			log.Printf("Warning: Skipping cluster with empty ID: %+v", cluster)
			continue
		}
		docRef := collectionRef.Doc(cluster.ID)

		if _, err := bw.Set(docRef, cluster); err != nil {
			log.Printf("Error enqueueing cluster %s for save: %v", cluster.ID, err)
		} else {
			savedCount++
		}
	}

	if savedCount == 0 {
		log.Println("No valid clusters were enqueued for saving.")
		return nil
	}

	// Flush sends any remaining writes and waits for them to complete.
	bw.Flush()
	log.Printf("BulkWriter flushed. Saved %d outbreak clusters.", savedCount)

	return nil
}

// GetAllClusters retrieves all documents from the 'clusters' collection.
func GetAllClusters(client *firestore.Client) ([]types.OutbreakCluster, error) {
	ctx := context.Background()
	var clusters []types.OutbreakCluster

	iter := client.Collection(clustersCollection).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating clusters collection: %w", err)
		}

		var cluster types.OutbreakCluster
		if err := doc.DataTo(&cluster); err != nil {
			log.Printf("Warning: Error converting document %s to OutbreakCluster: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		cluster.ID = doc.Ref.ID
		clusters = append(clusters, cluster)
	}

	return clusters, nil
}
