package services

import (
	"sort"

	"github.com/ultraverse/market-web/internal/models"
)

// Sort keys accepted by the explore and author grids
const (
	SortDefault      = ""
	SortPriceLowHigh = "price_low_to_high"
	SortPriceHighLow = "price_high_to_low"
	SortMostLiked    = "likes_high_to_low"
	SortEndingSoon   = "ending_soon"
)

// SortKeys lists the selectable orders in display order
var SortKeys = []string{SortDefault, SortPriceLowHigh, SortPriceHighLow, SortMostLiked, SortEndingSoon}

// priceOf treats an unpriced item as zero for ordering purposes
func priceOf(i models.Item) float64 {
	if i.Price == nil {
		return 0
	}
	return *i.Price
}

// SortItems returns a stably sorted copy; the input order is never mutated
// and an unknown key preserves fetch order.
func SortItems(items []models.Item, key string) []models.Item {
	sorted := make([]models.Item, len(items))
	copy(sorted, items)

	switch key {
	case SortPriceLowHigh:
		sort.SliceStable(sorted, func(a, b int) bool {
			return priceOf(sorted[a]) < priceOf(sorted[b])
		})
	case SortPriceHighLow:
		sort.SliceStable(sorted, func(a, b int) bool {
			return priceOf(sorted[a]) > priceOf(sorted[b])
		})
	case SortMostLiked:
		sort.SliceStable(sorted, func(a, b int) bool {
			return sorted[a].Likes > sorted[b].Likes
		})
	case SortEndingSoon:
		// items without an end time sort last
		sort.SliceStable(sorted, func(a, b int) bool {
			ea, eb := sorted[a].EndsAt, sorted[b].EndsAt
			switch {
			case ea == nil:
				return false
			case eb == nil:
				return true
			default:
				return *ea < *eb
			}
		})
	}
	return sorted
}
