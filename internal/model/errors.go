package model

// ErrorResponse is the backend error body; detail is optional and may be of any JSON type.
type ErrorResponse struct {
	Detail any `json:"detail"`
}
