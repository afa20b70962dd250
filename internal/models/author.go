package models

// Author represents a normalized author/creator profile
type Author struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Username  string `json:"username"`
	Wallet    string `json:"wallet"`
	Followers int    `json:"followers"`
	Items     []Item `json:"items,omitempty"`
}

// Navigable reports whether the author can be linked to; an author without an
// id has no profile route and its links must be disabled
func (a Author) Navigable() bool {
	return a.ID != ""
}

// Seller represents one entry of the top sellers ranking
type Seller struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Avatar   string  `json:"avatar"`
	PriceEth float64 `json:"priceEth"`
}

// Navigable reports whether the seller resolves to an author profile
func (s Seller) Navigable() bool {
	return s.ID != ""
}
