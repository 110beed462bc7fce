package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"uhc/internal/domain"
)

// UpcomingMatches fetches every non-expired match listing.
func (c *Client) UpcomingMatches(ctx context.Context) ([]domain.Match, error) {
	var matches []domain.Match
	if err := c.do(ctx, http.MethodGet, "/api/matches/upcoming", nil, &matches, http.StatusOK); err != nil {
		return nil, err
	}
	return matches, nil
}

// Match fetches a single match by ID. Returns (nil, nil) when the match
// does not exist.
func (c *Client) Match(ctx context.Context, id int64) (*domain.Match, error) {
	var match domain.Match
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/matches/%d", id), nil, &match, http.StatusOK)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// CreateMatchRequest is the payload for submitting a new listing.
type CreateMatchRequest struct {
	Opens        time.Time        `json:"opens"`
	Address      *string          `json:"address,omitempty"`
	IP           string           `json:"ip"`
	Scenarios    []string         `json:"scenarios"`
	Tags         []string         `json:"tags"`
	Teams        domain.TeamStyle `json:"teams"`
	Size         *int             `json:"size,omitempty"`
	CustomStyle  *string          `json:"customStyle,omitempty"`
	Count        int              `json:"count"`
	Content      string           `json:"content"`
	Region       string           `json:"region"`
	Location     string           `json:"location"`
	Version      string           `json:"version"`
	Slots        int              `json:"slots"`
	Length       int              `json:"length"`
	MapSize      int              `json:"mapSize"`
	PVPEnabledAt int              `json:"pvpEnabledAt"`
	HostingName  *string          `json:"hostingName,omitempty"`
	Tournament   bool             `json:"tournament"`
}

// CreateMatch submits a new match listing.
func (c *Client) CreateMatch(ctx context.Context, req CreateMatchRequest) error {
	return c.do(ctx, http.MethodPost, "/api/matches", req, nil, http.StatusCreated)
}

// RemoveMatch flags a match as removed with the given reason.
func (c *Client) RemoveMatch(ctx context.Context, id int64, reason string) error {
	body := struct {
		Reason string `json:"reason"`
	}{Reason: reason}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/matches/%d", id), body, nil, http.StatusNoContent)
}

// ApproveMatch marks a match as approved by the calling moderator.
func (c *Client) ApproveMatch(ctx context.Context, id int64) (*domain.Match, error) {
	var match domain.Match
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/matches/%d/approve", id), nil, &match, http.StatusOK); err != nil {
		return nil, err
	}
	return &match, nil
}

// MatchConflicts fetches existing matches opening at the given instant
// in the given region.
func (c *Client) MatchConflicts(ctx context.Context, region string, opens time.Time) ([]domain.Match, error) {
	path := fmt.Sprintf("/api/matches/conflicts/%s/%s",
		url.PathEscape(region),
		url.PathEscape(opens.UTC().Format(time.RFC3339)),
	)
	var matches []domain.Match
	if err := c.do(ctx, http.MethodGet, path, nil, &matches, http.StatusOK); err != nil {
		return nil, err
	}
	return matches, nil
}

// HostMatches fetches a host's past listings, paging backwards from the
// given match ID when before > 0.
func (c *Client) HostMatches(ctx context.Context, host string, before int64) ([]domain.Match, error) {
	path := "/api/hosts/" + url.PathEscape(host) + "/matches"
	if before > 0 {
		path += fmt.Sprintf("?before=%d", before)
	}
	var matches []domain.Match
	if err := c.do(ctx, http.MethodGet, path, nil, &matches, http.StatusOK); err != nil {
		return nil, err
	}
	return matches, nil
}
