package request

// UpdateFeedConfigRequest represents the request body for updating the vendor
// feed configuration. TokenExpiresAt is a YYYY-MM-DD date.
type UpdateFeedConfigRequest struct {
	Vendor         string  `json:"vendor"`
	Token          string  `json:"token"`
	TokenExpiresAt *string `json:"tokenExpiresAt,omitempty"`
}
