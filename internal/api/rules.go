package api

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// RulesDocument is the site rules content with its last modification.
type RulesDocument struct {
	Content      string    `json:"content"`
	ModifiedBy   string    `json:"modifiedBy"`
	LastModified time.Time `json:"lastModified"`
}

// Rules fetches the site rules document.
func (c *Client) Rules(ctx context.Context) (*RulesDocument, error) {
	var doc RulesDocument
	if err := c.do(ctx, http.MethodGet, "/api/rules", nil, &doc, http.StatusOK); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SaveRules replaces the site rules content. The body is the raw
// document, not a JSON envelope.
func (c *Client) SaveRules(ctx context.Context, content string) error {
	return c.doRaw(ctx, http.MethodPost, "/api/rules", "text/plain; charset=utf-8",
		strings.NewReader(content), http.StatusCreated)
}
