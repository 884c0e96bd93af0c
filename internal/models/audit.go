package models

// AuditEntry is an immutable record of who did what, when.
// One entry is appended for every successful mutating operation plus
// login/logout events; entries are never edited or deleted.
type AuditEntry struct {
	// ID is the row identifier assigned by the database.
	ID int64

	// Actor is the username of the administrator who performed the action.
	Actor string

	// Action is a human-readable description of what happened.
	Action string

	// CreatedAt is the Unix timestamp when the entry was appended.
	CreatedAt int64
}
