package api

import (
	"context"
	"net/http"
	"net/url"

	"qoralist/internal/models"
)

// SearchRecord looks up a blacklist record by passport. A nil record with a
// nil error means no match: the server answers a JSON null body, which is a
// normal outcome, not a failure.
func (c *Client) SearchRecord(ctx context.Context, params models.SearchParams) (*models.Record, error) {
	query := url.Values{}
	query.Set("passportSeriya", params.PassportSeriya)
	query.Set("passportCode", params.PassportCode)

	var record *models.Record
	if err := c.do(ctx, http.MethodGet, "/records/search", query, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// ListMyRecords returns the records created by the authenticated user.
// Scoping happens on the server; the client does not filter.
func (c *Client) ListMyRecords(ctx context.Context) ([]models.Record, error) {
	var records []models.Record
	if err := c.do(ctx, http.MethodGet, "/records/my", nil, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CreateRecord submits a new blacklist record and returns the created entry.
// Domain validation belongs to the caller; the server rejects bad shapes
// with a validation error.
func (c *Client) CreateRecord(ctx context.Context, data models.CreateRecordData) (*models.Record, error) {
	var record models.Record
	if err := c.do(ctx, http.MethodPost, "/records", nil, data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord removes a record by ID. A record that does not exist or is
// not owned by the caller yields a not-found error.
func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/records/"+url.PathEscape(id), nil, nil, nil)
}
