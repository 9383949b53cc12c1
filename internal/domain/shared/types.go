package shared

// MovementKind names the shape of a completed money movement
type MovementKind string

const (
	MovementWithdrawal MovementKind = "WITHDRAWAL"
	MovementDeposit    MovementKind = "DEPOSIT"
	MovementTransfer   MovementKind = "TRANSFER"
)

// EntrySide is the side of a statement entry from the account's point of view
type EntrySide string

const (
	EntrySideDebit  EntrySide = "DEBIT"
	EntrySideCredit EntrySide = "CREDIT"
)

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
