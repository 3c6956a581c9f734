package api

import (
	"context"

	"github.com/STTM-NSU/trading-app/internal/model"
)

const (
	_licenseStatusURL   = "/license/status"
	_licenseActivateURL = "/license/activate"
)

func (c *Client) LicenseStatus(ctx context.Context, userID string) (model.LicenseStatus, error) {
	var s model.LicenseStatus
	err := c.get(ctx, "license status", _licenseStatusURL, userQuery(userID), &s)
	return s, err
}

// ActivateLicense is write-only: any response body is discarded.
func (c *Client) ActivateLicense(ctx context.Context, req model.LicenseActivateRequest) error {
	return c.post(ctx, "license activation", _licenseActivateURL, nil, req, nil)
}
