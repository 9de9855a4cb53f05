package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"go-wildwatch/types"
)

const reportsCollection = "reports"

// GetRecentReports retrieves classified reports with timestamps inside the
// last windowDays. Reports missing a classification label are skipped with a
// warning; they have not finished the upstream pipeline yet.
func GetRecentReports(client *firestore.Client, windowDays int) ([]types.ObservationReport, error) {
	ctx := context.Background()
	cutoff := time.Now().UTC().AddDate(0, 0, -windowDays).Format(time.RFC3339)

	query := client.Collection(reportsCollection).
		Where("timestamp", ">=", cutoff)

	iter := query.Documents(ctx)
	defer iter.Stop()

	var reports []types.ObservationReport
	skipped := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating reports collection: %w", err)
		}

		var report types.ObservationReport
		if err := doc.DataTo(&report); err != nil {
			log.Printf("Warning: Error converting document %s to ObservationReport: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		report.ID = doc.Ref.ID

		if report.Label == "" {
			skipped++
			continue
		}
		reports = append(reports, report)
	}

	if skipped > 0 {
		log.Printf("Skipped %d unclassified reports in the last %d days.", skipped, windowDays)
	}
	log.Printf("Retrieved %d classified reports from the last %d days.", len(reports), windowDays)
	return reports, nil
}

// GetReportByID retrieves a single report document by its ID.
func GetReportByID(client *firestore.Client, reportID string) (types.ObservationReport, error) {
	ctx := context.Background()
	var report types.ObservationReport

	docSnap, err := client.Collection(reportsCollection).Doc(reportID).Get(ctx)
	if err != nil {
		return report, fmt.Errorf("error getting report %s: %w", reportID, err)
	}
	if err := docSnap.DataTo(&report); err != nil {
		return report, fmt.Errorf("error converting report %s: %w", reportID, err)
	}
	report.ID = docSnap.Ref.ID
	return report, nil
}
