package rewards

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-wildwatch/types"
)

const (
	usersCollection     = "users"
	ledgerSubcollection = "ledger"
)

// FirestoreStore keeps user reward state in the users collection with an
// append-only ledger subcollection per user. The ledger document ID is the
// reason string, so the duplicate check is structural: a second award for the
// same reason fails Create inside the same transaction that read it.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) ApplyAward(ctx context.Context, userID string, entry types.PointsLedgerEntry, verified bool) (*types.UserData, bool, error) {
	userRef := s.client.Collection(usersCollection).Doc(userID)
	ledgerRef := userRef.Collection(ledgerSubcollection).Doc(ledgerDocID(entry.Reason))

	var snapshot *types.UserData
	var applied bool

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Transactions may retry; start each attempt clean.
		snapshot = nil
		applied = false

		userDoc, err := tx.Get(userRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				// Unknown user: award is a no-op, not an error.
				return nil
			}
			return fmt.Errorf("reading user %s: %w", userID, err)
		}

		var user types.UserData
		if err := userDoc.DataTo(&user); err != nil {
			return fmt.Errorf("decoding user %s: %w", userID, err)
		}
		user.ID = userDoc.Ref.ID

		// Idempotency check: one ledger row per (user, reason).
		if _, err := tx.Get(ledgerRef); err == nil {
			snapshot = &user
			return nil
		} else if status.Code(err) != codes.NotFound {
			return fmt.Errorf("reading ledger entry %s: %w", entry.Reason, err)
		}

		user.TotalReports++
		updates := []firestore.Update{
			{Path: "totalReports", Value: firestore.Increment(1)},
		}
		if entry.Amount > 0 {
			user.Points += entry.Amount
			updates = append(updates, firestore.Update{Path: "points", Value: firestore.Increment(entry.Amount)})
		}
		if verified {
			user.VerifiedReports++
			updates = append(updates, firestore.Update{Path: "verifiedReports", Value: firestore.Increment(1)})
		}

		// Always append the ledger row, even for a zero amount, so the
		// duplicate guard above holds on retries.
		if err := tx.Create(ledgerRef, entry); err != nil {
			return fmt.Errorf("appending ledger entry %s: %w", entry.Reason, err)
		}
		if err := tx.Update(userRef, updates); err != nil {
			return fmt.Errorf("updating user %s: %w", userID, err)
		}

		snapshot = &user
		applied = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return snapshot, applied, nil
}

// Firestore document IDs cannot contain forward slashes.
func ledgerDocID(reason string) string {
	return strings.ReplaceAll(reason, "/", "_")
}
