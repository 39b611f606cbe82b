package models

// Cuisine is one entry of the cuisine taxonomy.
type Cuisine struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group is a user-defined restaurant list. Published groups are visible to
// anonymous visitors; ShareToken is set once sharing has been requested.
type Group struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Published  bool   `json:"is_published"`
	ShareToken string `json:"share_token,omitempty"`
}

// User is the authenticated owner as reported by the identity check.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// RuntimeConfig carries collaborator-provided runtime settings.
type RuntimeConfig struct {
	GoogleMapsAPIKey string `json:"googleMapsApiKey"`
}
