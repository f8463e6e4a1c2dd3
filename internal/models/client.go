package models

import "time"

// Client is a registered OAuth2 client application. Secret participates in
// the credential exchange and is embedded verbatim in issued access tokens,
// so it is stored as entered and compared in constant time.
type Client struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Secret       string       `json:"secret"`
	Description  string       `json:"description,omitempty"`
	RedirectURI  string       `json:"redirect_uri,omitempty"`
	Permissions  []Permission `json:"permissions,omitempty"`
	ExpiryDate   time.Time    `json:"expiry_date,omitempty"`
	RegisteredAt time.Time    `json:"registered_at"`
	RegisteredBy string       `json:"registered_by,omitempty"`
}

// Expired reports whether the client registration has lapsed. A zero
// expiry date means the registration does not expire.
func (c Client) Expired(now time.Time) bool {
	return !c.ExpiryDate.IsZero() && now.After(c.ExpiryDate)
}

// Sanitized returns a copy with the secret removed for listing endpoints.
func (c Client) Sanitized() Client {
	c.Secret = ""
	return c
}
