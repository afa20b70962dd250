package models

// Collection represents a normalized hot-collections carousel entry
type Collection struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	AuthorID    string `json:"authorId,omitempty"`
	AuthorImage string `json:"authorImage"`
	Token       string `json:"token"`
}
