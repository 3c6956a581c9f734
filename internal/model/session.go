package model

type AuthSession struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`

	// Mocked is set while the session is minted locally instead of by the backend.
	Mocked bool `json:"-"`
}

type Credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}
