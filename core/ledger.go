package core

// LedgerState deep copy of the ledger, used for checkpoints
type LedgerState struct {
	Assets        []*AssetInfo        `json:"assets"`
	Borrows       []*BorrowRecord     `json:"borrows"`
	Deposits      []*FixedTermDeposit `json:"deposits"`
	BorrowerCount int64               `json:"borrower_count"`
	// position in the inbound snapshot stream the state reflects
	Cursor string `json:"cursor,omitempty"`
}
