package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"uhc/internal/domain"
)

// CurrentBans fetches every ban entry currently in force.
func (c *Client) CurrentBans(ctx context.Context) ([]domain.BanEntry, error) {
	var bans []domain.BanEntry
	if err := c.do(ctx, http.MethodGet, "/api/ubl/current", nil, &bans, http.StatusOK); err != nil {
		return nil, err
	}
	return bans, nil
}

// BansForPlayer fetches the ban history for a player UUID. Returns
// (nil, nil) when the player has no entries.
func (c *Client) BansForPlayer(ctx context.Context, playerUUID string) ([]domain.BanEntry, error) {
	var bans []domain.BanEntry
	err := c.do(ctx, http.MethodGet, "/api/ubl/"+url.PathEscape(playerUUID), nil, &bans, http.StatusOK)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return bans, nil
}

// SearchBans searches ban entries by partial in-game name.
func (c *Client) SearchBans(ctx context.Context, query string) ([]domain.BanEntry, error) {
	var bans []domain.BanEntry
	if err := c.do(ctx, http.MethodPost, "/api/ubl/search/"+url.PathEscape(query), nil, &bans, http.StatusOK); err != nil {
		return nil, err
	}
	return bans, nil
}

// BanRequest is the payload for creating or editing a ban entry.
type BanRequest struct {
	IGN     string    `json:"ign"`
	UUID    string    `json:"uuid"`
	Reason  string    `json:"reason"`
	Link    string    `json:"link"`
	Expires time.Time `json:"expires"`
}

// CreateBan files a new ban entry and returns the stored record.
func (c *Client) CreateBan(ctx context.Context, req BanRequest) (*domain.BanEntry, error) {
	var ban domain.BanEntry
	if err := c.do(ctx, http.MethodPost, "/api/ubl", req, &ban, http.StatusCreated); err != nil {
		return nil, err
	}
	return &ban, nil
}

// EditBan updates an existing ban entry in place.
func (c *Client) EditBan(ctx context.Context, id int64, req BanRequest) (*domain.BanEntry, error) {
	var ban domain.BanEntry
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/ubl/%d", id), req, &ban, http.StatusOK); err != nil {
		return nil, err
	}
	return &ban, nil
}

// DeleteBan removes a ban entry.
func (c *Client) DeleteBan(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/ubl/%d", id), nil, nil, http.StatusNoContent)
}
