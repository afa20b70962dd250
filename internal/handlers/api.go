package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ultraverse/market-web/internal/services"
	"github.com/ultraverse/market-web/internal/upstream"
)

// The /api handlers mirror the normalized view models as JSON for
// programmatic consumers.

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeAPIError maps the error taxonomy onto HTTP statuses; cancellations
// are swallowed because the client is already gone
func writeAPIError(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case upstream.IsCanceled(err):
		return true
	case errors.Is(err, upstream.ErrMissingID):
		http.Error(w, "id is required", http.StatusBadRequest)
		return true
	case errors.Is(err, services.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return true
	default:
		http.Error(w, "upstream request failed", http.StatusBadGateway)
		return true
	}
}

// GetHotCollections handles retrieving the hot-collections carousel entries
func GetHotCollections(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cols, err := catalog.HotCollections(r.Context())
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, cols)
	}
}

// GetNewItems handles retrieving the new-items carousel entries
func GetNewItems(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.NewItems(r.Context())
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, items)
	}
}

// GetTopSellers handles retrieving the top-sellers ranking
func GetTopSellers(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sellers, err := catalog.TopSellers(r.Context())
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, sellers)
	}
}

// GetExploreItems handles retrieving the explore grid, optionally sorted
func GetExploreItems(catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := catalog.ExploreItems(r.Context(), r.URL.Query().Get("sort"))
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, items)
	}
}

// GetAuthor handles retrieving a single author profile
func GetAuthor(profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID := chi.URLParam(r, "id")
		if authorID == "" {
			http.Error(w, "author id is required", http.StatusBadRequest)
			return
		}

		author, err := profile.Author(r.Context(), authorID, nil)
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, author)
	}
}

// GetAuthorItems handles retrieving an author's items
func GetAuthorItems(profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID := chi.URLParam(r, "id")
		if authorID == "" {
			http.Error(w, "author id is required", http.StatusBadRequest)
			return
		}

		items, err := profile.AuthorItems(r.Context(), authorID)
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, items)
	}
}

// GetItemDetails handles retrieving a single item detail record
func GetItemDetails(profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "id")
		if nftID == "" {
			http.Error(w, "nft id is required", http.StatusBadRequest)
			return
		}

		detail, err := profile.ItemDetails(r.Context(), nftID)
		if writeAPIError(w, err) {
			return
		}
		writeJSON(w, detail)
	}
}
