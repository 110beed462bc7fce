package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// BanEntry is a universal ban list (UBL) record.
type BanEntry struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// IGN is the player's in-game name at the time of the ban.
	IGN string `json:"ign"`

	// UUID is the player's canonical Mojang UUID. Bans follow the UUID,
	// not the name.
	UUID string `json:"uuid"`

	// Reason is the public ban reason.
	Reason string `json:"reason"`

	// Link points to the courtroom post or evidence.
	Link string `json:"link"`

	// Created and Expires bound the ban. Expires after Created always.
	Created time.Time `json:"created"`
	Expires time.Time `json:"expires"`

	// CreatedBy is the moderator who filed the entry.
	CreatedBy string `json:"createdBy"`
}

// Validate checks the ban entry invariants.
func (b *BanEntry) Validate() error {
	if strings.TrimSpace(b.IGN) == "" {
		return ErrInvalidBanIGN
	}
	if _, err := uuid.Parse(b.UUID); err != nil {
		return ErrInvalidBanUUID
	}
	if strings.TrimSpace(b.Reason) == "" {
		return ErrEmptyBanReason
	}
	if !b.Expires.After(b.Created) {
		return ErrBanExpiryBefore
	}
	return nil
}

// IsActive reports whether the ban is in force at the given instant.
func (b *BanEntry) IsActive(now time.Time) bool {
	return now.Before(b.Expires)
}

// NormalizeUUID parses and reformats a UUID into canonical dashed,
// lowercase form. Accepts the dashless form used by some spreadsheet
// exports.
func NormalizeUUID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", ErrInvalidBanUUID
	}
	return id.String(), nil
}
