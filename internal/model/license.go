package model

type LicenseStatus struct {
	UserID     string  `json:"user_id"`
	HasLicense bool    `json:"has_license"`
	Valid      bool    `json:"valid"`
	Status     *string `json:"status,omitempty"`
	Message    string  `json:"message"`
	LicenseKey *string `json:"license_key,omitempty"`
	ExpiresAt  *string `json:"expires_at,omitempty"`
}

type LicenseActivateRequest struct {
	UserID     string `json:"user_id"`
	LicenseKey string `json:"license_key"`
}
