package models

import (
	"time"

	id "campusconnect/pkg/domain"
)

// Registration is one ledger record: a user's intent to attend the event a
// notice announces. Records are append-only; they are never updated and the
// current scope has no cancel operation.
//
// The (UserID, NoticeID) pair is unique across the ledger. That invariant is
// enforced at the storage layer so it holds under concurrent creation.
type Registration struct {
	ID        id.RegistrationID
	UserID    id.UserID
	NoticeID  id.NoticeID
	CreatedAt time.Time
}

// UserCount is one group of the registrations-per-user aggregation.
type UserCount struct {
	UserID id.UserID
	Count  int
}
