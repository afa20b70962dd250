package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ultraverse/market-web/internal/models"
	"github.com/ultraverse/market-web/internal/services"
	"github.com/ultraverse/market-web/internal/upstream"
	"github.com/ultraverse/market-web/internal/view"
)

// Fragment endpoints return the HTML for one grid or carousel row. The pages
// ship skeleton placeholders and swap these in once loaded, so the skeleton,
// empty and error states all live here.

// HotCollectionsFragment serves the hot-collections carousel row
func HotCollectionsFragment(rn *Renderer, catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ctrl view.Controller[models.Collection]
		ctrl.Load(r.Context(), catalog.HotCollections)
		state, cols, err := ctrl.Snapshot()
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Fragment(w, "frag_collections", map[string]any{
			"State":       state.String(),
			"Error":       "Could not load collections.",
			"Collections": cols,
		})
	}
}

// NewItemsFragment serves the new-items carousel row
func NewItemsFragment(rn *Renderer, catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, items, err := loadItems(r, func(ctx context.Context) ([]models.Item, error) {
			return catalog.NewItems(ctx)
		})
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Fragment(w, "frag_new_items", map[string]any{
			"State": state.String(),
			"Error": "Could not load new items.",
			"Items": items,
		})
	}
}

// TopSellersFragment serves the top-sellers ranking
func TopSellersFragment(rn *Renderer, catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ctrl view.Controller[models.Seller]
		ctrl.Load(r.Context(), catalog.TopSellers)
		state, sellers, err := ctrl.Snapshot()
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Fragment(w, "frag_sellers", map[string]any{
			"State":   state.String(),
			"Error":   "Could not load top sellers.",
			"Sellers": sellers,
		})
	}
}

// ExploreGridFragment serves the explore grid for sort changes and load-more
// clicks without a full page render
func ExploreGridFragment(rn *Renderer, catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sortKey := r.URL.Query().Get("sort")

		state, items, err := loadItems(r, func(ctx context.Context) ([]models.Item, error) {
			return catalog.ExploreItems(ctx, sortKey)
		})
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Fragment(w, "frag_explore_grid", buildGrid(state, items, err, sortKey, parseLimit(r)))
	}
}

// AuthorItemsFragment serves an author's item grid
func AuthorItemsFragment(rn *Renderer, profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID := chi.URLParam(r, "id")

		state, items, err := loadItems(r, func(ctx context.Context) ([]models.Item, error) {
			return profile.AuthorItems(ctx, authorID)
		})
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Fragment(w, "frag_author_items", buildGrid(state, items, err, "", len(items)))
	}
}
