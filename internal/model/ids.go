package model

// Arena identifiers. Every entity in a book is addressed by one of these;
// cross references are stored as IDs, never as pointers.
type (
	UserID        int64
	AccountID     int64
	TransactionID int64
	LedgerID      int64
	CategoryID    int64
	BudgetID      int64
	PlanID        int64
)

// Ptr returns a pointer to v. Optional references are expressed as *ID.
func Ptr[T any](v T) *T {
	return &v
}

// Equal reports whether two optional references point at the same ID.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
