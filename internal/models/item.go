package models

// Item represents a normalized NFT listing card
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Image       string   `json:"image"`
	Price       *float64 `json:"price"`
	Likes       int      `json:"likes"`
	AuthorID    string   `json:"authorId,omitempty"`
	AuthorImage string   `json:"authorImage"`
	EndsAt      *int64   `json:"endsAt,omitempty"` // epoch milliseconds
}

// HasCountdown reports whether the listing carries an end time
func (i Item) HasCountdown() bool {
	return i.EndsAt != nil
}

// Person is an owner or creator reference on an item detail page
type Person struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// ItemDetail represents the full normalized record for the item page
type ItemDetail struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Tag         string   `json:"tag,omitempty"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Views       int      `json:"views"`
	Likes       int      `json:"likes"`
	Price       *float64 `json:"price"`
	Owner       Person   `json:"owner"`
	Creator     Person   `json:"creator"`
}
