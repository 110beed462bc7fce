package api

import (
	"context"
	"net/http"
	"net/url"

	"uhc/internal/domain"
)

// Permissions fetches the live permission map.
func (c *Client) Permissions(ctx context.Context) (domain.PermissionSet, error) {
	var perms domain.PermissionSet
	if err := c.do(ctx, http.MethodGet, "/api/permissions", nil, &perms, http.StatusOK); err != nil {
		return nil, err
	}
	return perms, nil
}

// PermissionLog fetches the moderation log of permission changes.
func (c *Client) PermissionLog(ctx context.Context) ([]domain.PermissionLogEntry, error) {
	var log []domain.PermissionLogEntry
	if err := c.do(ctx, http.MethodGet, "/api/permissions/log", nil, &log, http.StatusOK); err != nil {
		return nil, err
	}
	return log, nil
}

// AddPermission grants a permission to a username.
func (c *Client) AddPermission(ctx context.Context, username, permission string) error {
	path := "/api/permissions/" + url.PathEscape(username) + "/" + url.PathEscape(permission)
	return c.do(ctx, http.MethodPost, path, nil, nil, http.StatusCreated)
}

// RemovePermission revokes a permission from a username.
func (c *Client) RemovePermission(ctx context.Context, username, permission string) error {
	path := "/api/permissions/" + url.PathEscape(username) + "/" + url.PathEscape(permission)
	return c.do(ctx, http.MethodDelete, path, nil, nil, http.StatusNoContent)
}
