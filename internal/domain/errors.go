package domain

import "errors"

// Domain errors
var (
	// Match errors
	ErrInvalidMatchID      = errors.New("invalid match ID")
	ErrInvalidOpeningTime  = errors.New("invalid opening time")
	ErrInvalidTeamStyle    = errors.New("invalid team style")
	ErrMissingTeamSize     = errors.New("team style requires a size")
	ErrMissingCustomStyle  = errors.New("custom team style requires a description")
	ErrMissingRemovalInfo  = errors.New("removed match requires remover and reason")
	ErrInvalidServerIP     = errors.New("invalid server IP")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchAlreadyRemoved = errors.New("match already removed")

	// Ban errors
	ErrInvalidBanID    = errors.New("invalid ban ID")
	ErrInvalidBanUUID  = errors.New("invalid player UUID")
	ErrInvalidBanIGN   = errors.New("invalid in-game name")
	ErrEmptyBanReason  = errors.New("ban reason must not be empty")
	ErrBanExpiryBefore = errors.New("ban expiry must be after creation")
	ErrBanNotFound     = errors.New("ban entry not found")

	// Permission errors
	ErrInvalidPermission = errors.New("invalid permission name")
	ErrInvalidUsername   = errors.New("invalid username")

	// Alert rule errors
	ErrInvalidAlertField = errors.New("invalid alert rule field")
	ErrEmptyAlertPattern = errors.New("alert pattern must not be empty")
)
