package normalize

import "github.com/ultraverse/market-web/internal/models"

// mergeString prefers a truthy fresh value, otherwise keeps the held one
func mergeString(held, fresh string) string {
	if fresh != "" {
		return fresh
	}
	return held
}

// MergeAuthor overlays freshly fetched author data on a held (navigation
// supplied) record. A fresh truthy value overwrites the held value; a fresh
// falsy or missing value leaves the held value untouched, so a partial seed
// keeps rendering while richer data fills in.
func MergeAuthor(held, fresh models.Author) models.Author {
	merged := models.Author{
		ID:        mergeString(held.ID, fresh.ID),
		Name:      mergeString(held.Name, fresh.Name),
		Avatar:    mergeString(held.Avatar, fresh.Avatar),
		Username:  mergeString(held.Username, fresh.Username),
		Wallet:    mergeString(held.Wallet, fresh.Wallet),
		Followers: held.Followers,
		Items:     held.Items,
	}
	if fresh.Followers != 0 {
		merged.Followers = fresh.Followers
	}
	if len(fresh.Items) > 0 {
		merged.Items = fresh.Items
	}
	return merged
}
