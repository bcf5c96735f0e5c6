// Package domain holds the typed identifiers shared across modules.
//
// Each ID is a distinct type over uuid.UUID so the compiler rejects
// cross-entity mixups (passing a NoticeID where a UserID is expected).
// Parse functions enforce the invariant that IDs are valid, non-nil UUIDs
// at trust boundaries (HTTP, storage rows).
package domain

import (
	"github.com/google/uuid"

	dErrors "campusconnect/pkg/domain-errors"
)

type (
	// UserID identifies a user account.
	UserID uuid.UUID
	// NoticeID identifies an event notice.
	NoticeID uuid.UUID
	// RegistrationID identifies a single ledger record.
	RegistrationID uuid.UUID
)

// NewUserID returns a fresh random UserID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewNoticeID returns a fresh random NoticeID.
func NewNoticeID() NoticeID { return NoticeID(uuid.New()) }

// NewRegistrationID returns a fresh random RegistrationID.
func NewRegistrationID() RegistrationID { return RegistrationID(uuid.New()) }

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id NoticeID) String() string       { return uuid.UUID(id).String() }
func (id RegistrationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id NoticeID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
func (id RegistrationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// ParseUserID validates s as a non-nil UUID and returns it as a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user id")
	return UserID(u), err
}

// ParseNoticeID validates s as a non-nil UUID and returns it as a NoticeID.
func ParseNoticeID(s string) (NoticeID, error) {
	u, err := parseUUID(s, "notice id")
	return NoticeID(u), err
}

// ParseRegistrationID validates s as a non-nil UUID and returns it as a RegistrationID.
func ParseRegistrationID(s string) (RegistrationID, error) {
	u, err := parseUUID(s, "registration id")
	return RegistrationID(u), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
