package api

import (
	"context"
	"fmt"
	"net/http"

	"uhc/internal/domain"
)

// AlertRules fetches every configured alert rule.
func (c *Client) AlertRules(ctx context.Context) ([]domain.AlertRule, error) {
	var rules []domain.AlertRule
	if err := c.do(ctx, http.MethodGet, "/api/alerts", nil, &rules, http.StatusOK); err != nil {
		return nil, err
	}
	return rules, nil
}

// AlertRuleRequest is the payload for creating an alert rule.
type AlertRuleRequest struct {
	Field   domain.AlertField `json:"field"`
	AlertOn string            `json:"alertOn"`
	Exact   bool              `json:"exact"`
}

// CreateAlertRule adds a new alert rule and returns the stored record.
func (c *Client) CreateAlertRule(ctx context.Context, req AlertRuleRequest) (*domain.AlertRule, error) {
	var rule domain.AlertRule
	if err := c.do(ctx, http.MethodPost, "/api/alerts", req, &rule, http.StatusCreated); err != nil {
		return nil, err
	}
	return &rule, nil
}

// DeleteAlertRule removes an alert rule.
func (c *Client) DeleteAlertRule(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/alerts/%d", id), nil, nil, http.StatusNoContent)
}
