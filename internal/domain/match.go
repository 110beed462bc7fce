// Package domain defines the entities the uhc client synchronizes with the
// hosting service: matches, universal ban list entries, permission
// assignments and alert rules.
package domain

import (
	"fmt"
	"net"
	"time"
)

// TeamStyle identifies the team composition of a hosted match.
type TeamStyle string

const (
	// TeamStyleFFA is free-for-all, no teams.
	TeamStyleFFA TeamStyle = "ffa"

	// TeamStyleChosen lets players pick their own teams of a fixed size.
	TeamStyleChosen TeamStyle = "chosen"

	// TeamStyleRandom assigns random teams of a fixed size.
	TeamStyleRandom TeamStyle = "random"

	// TeamStyleCaptains has captains draft teams of a fixed size.
	TeamStyleCaptains TeamStyle = "captains"

	// TeamStyleMystery hides team assignments until the match starts.
	TeamStyleMystery TeamStyle = "mystery"

	// TeamStyleRedVsBlue is two fixed teams, no size.
	TeamStyleRedVsBlue TeamStyle = "rvb"

	// TeamStyleCustom uses a host-described ruleset.
	TeamStyleCustom TeamStyle = "custom"
)

// IsValid returns true if the team style is known.
func (s TeamStyle) IsValid() bool {
	switch s {
	case TeamStyleFFA, TeamStyleChosen, TeamStyleRandom, TeamStyleCaptains,
		TeamStyleMystery, TeamStyleRedVsBlue, TeamStyleCustom:
		return true
	default:
		return false
	}
}

// RequiresSize returns true if the style needs an explicit team size.
func (s TeamStyle) RequiresSize() bool {
	switch s {
	case TeamStyleChosen, TeamStyleRandom, TeamStyleCaptains, TeamStyleMystery:
		return true
	default:
		return false
	}
}

// Match is a hosted game event as served by the matches API.
type Match struct {
	// ID is the server-assigned identifier.
	ID int64 `json:"id"`

	// Author is the account that created the match.
	Author string `json:"author"`

	// HostingName is an optional display name overriding Author.
	HostingName *string `json:"hostingName,omitempty"`

	// Opens is when the match opens for players.
	Opens time.Time `json:"opens"`

	// Created is when the listing was submitted.
	Created time.Time `json:"created"`

	// IP is the server IP, Address an optional domain address.
	IP      string  `json:"ip"`
	Address *string `json:"address,omitempty"`

	// Scenarios and Tags describe the ruleset.
	Scenarios []string `json:"scenarios"`
	Tags      []string `json:"tags"`

	// Teams is the team style; Size is required for sized styles and
	// CustomStyle for the custom style.
	Teams       TeamStyle `json:"teams"`
	Size        *int      `json:"size,omitempty"`
	CustomStyle *string   `json:"customStyle,omitempty"`

	// Capacity and pacing.
	Count        int    `json:"count"`
	Region       string `json:"region"`
	Location     string `json:"location"`
	Version      string `json:"version"`
	Slots        int    `json:"slots"`
	Length       int    `json:"length"`
	MapSize      int    `json:"mapSize"`
	PVPEnabledAt int    `json:"pvpEnabledAt"`

	// Moderation state. Removed matches stay in listings, flagged.
	Removed       bool    `json:"removed"`
	RemovedBy     *string `json:"removedBy,omitempty"`
	RemovedReason *string `json:"removedReason,omitempty"`
	ApprovedBy    *string `json:"approvedBy,omitempty"`

	// Tournament listings are exempt from overhost conflict checks
	// against non-tournament matches.
	Tournament bool `json:"tournament"`

	Content string `json:"content"`
}

// Validate checks the match invariants.
func (m *Match) Validate() error {
	if m.Opens.IsZero() {
		return ErrInvalidOpeningTime
	}
	if !m.Teams.IsValid() {
		return ErrInvalidTeamStyle
	}
	if m.Teams.RequiresSize() && m.Size == nil {
		return ErrMissingTeamSize
	}
	if m.Teams == TeamStyleCustom && m.CustomStyle == nil {
		return ErrMissingCustomStyle
	}
	if m.Removed && (m.RemovedBy == nil || m.RemovedReason == nil) {
		return ErrMissingRemovalInfo
	}
	if m.IP != "" {
		if _, _, err := net.SplitHostPort(m.IP); err != nil {
			if net.ParseIP(m.IP) == nil {
				return ErrInvalidServerIP
			}
		}
	}
	return nil
}

// DisplayName returns the hosting name when set, otherwise the author.
func (m *Match) DisplayName() string {
	if m.HostingName != nil && *m.HostingName != "" {
		return *m.HostingName
	}
	return m.Author
}

// TeamsLabel renders the team style for listings, e.g. "FFA",
// "chosen To3" or the host's custom description.
func (m *Match) TeamsLabel() string {
	switch {
	case m.Teams == TeamStyleCustom && m.CustomStyle != nil:
		return *m.CustomStyle
	case m.Teams.RequiresSize() && m.Size != nil:
		return fmt.Sprintf("%s To%d", m.Teams, *m.Size)
	default:
		return string(m.Teams)
	}
}

// ConflictsWith reports whether the match collides with other for
// overhosting purposes. Two matches conflict when they open at the
// same instant and neither is removed or a tournament. The check is
// directional: m is the candidate slot being placed, and m.Tournament
// exempts the candidate from every collision, so ConflictsWith is not
// symmetric between a tournament and a non-tournament.
func (m *Match) ConflictsWith(other *Match) bool {
	if !m.Opens.Equal(other.Opens) {
		return false
	}
	if other.Removed {
		return false
	}
	if m.Tournament {
		return false
	}
	return !other.Tournament
}
