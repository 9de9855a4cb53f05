package types

// UserData is a contributor's reward state.
type UserData struct {
	ID              string `firestore:"-" json:"id"`
	DisplayName     string `firestore:"displayName,omitempty" json:"displayName,omitempty"`
	Points          int    `firestore:"points" json:"points"`
	TotalReports    int    `firestore:"totalReports" json:"totalReports"`
	VerifiedReports int    `firestore:"verifiedReports" json:"verifiedReports"`
}

// PointsLedgerEntry is one append-only ledger row. Reason doubles as the
// idempotency key: at most one entry per (user, reason) pair.
type PointsLedgerEntry struct {
	UserID    string `firestore:"userId" json:"userId"`
	Amount    int    `firestore:"amount" json:"amount"`
	Reason    string `firestore:"reason" json:"reason"`
	Timestamp string `firestore:"timestamp" json:"timestamp"` // ISO 8601
}
