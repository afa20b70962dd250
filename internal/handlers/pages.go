package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/models"
	"github.com/ultraverse/market-web/internal/services"
	"github.com/ultraverse/market-web/internal/upstream"
	"github.com/ultraverse/market-web/internal/view"
)

// gridData is the render model shared by every item grid surface
type gridData struct {
	State     string
	Error     string
	Items     []models.Item
	Sort      string
	Window    view.Window
	NextLimit int
}

// loadItems runs one list lifecycle cycle for the request
func loadItems(r *http.Request, fetch func(context.Context) ([]models.Item, error)) (view.State, []models.Item, error) {
	var ctrl view.Controller[models.Item]
	ctrl.Load(r.Context(), fetch)
	return ctrl.Snapshot()
}

// parseLimit reads the visible-window size from the query
func parseLimit(r *http.Request) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return view.InitialWindow
}

func buildGrid(state view.State, items []models.Item, err error, sortKey string, limit int) gridData {
	win := view.WindowAt(limit, len(items))
	data := gridData{
		State:     state.String(),
		Items:     view.Slice(items, win),
		Sort:      sortKey,
		Window:    win,
		NextLimit: win.Grow().Visible,
	}
	if err != nil {
		data.Error = "Failed to load items."
	}
	return data
}

// HomePage renders the landing shell; the carousel rows load deferred
// through the fragment endpoints so skeletons paint first
func HomePage(rn *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rn.Page(w, "home", map[string]any{
			"Title": "Ultraverse — NFT Marketplace",
		})
	}
}

// ExplorePage handles the explore grid with sort and load-more windowing
func ExplorePage(rn *Renderer, catalog *services.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sortKey := r.URL.Query().Get("sort")

		state, items, err := loadItems(r, func(ctx context.Context) ([]models.Item, error) {
			return catalog.ExploreItems(ctx, sortKey)
		})
		if err != nil && upstream.IsCanceled(err) {
			return
		}

		rn.Page(w, "explore", map[string]any{
			"Title": "Explore",
			"Grid":  buildGrid(state, items, err, sortKey, parseLimit(r)),
		})
	}
}

// AuthorPage handles the author profile. The header may be seeded from the
// link the visitor followed; the item grid is a dependent fetch issued only
// once the author id is resolved.
func AuthorPage(rn *Renderer, profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authorID := chi.URLParam(r, "id")
		seed := decodeSeed(r.URL.Query().Get("seed"))

		author, err := profile.Author(r.Context(), authorID, seed)
		if err != nil {
			if upstream.IsCanceled(err) {
				return
			}
			status := http.StatusBadGateway
			message := "Failed to load author."
			if errors.Is(err, services.ErrNotFound) {
				status = http.StatusNotFound
				message = "Author not found."
			}
			LoggerFromContext(r.Context()).Warn("author page failed",
				zap.String("author_id", authorID), zap.Error(err))
			w.WriteHeader(status)
			rn.Page(w, "author", map[string]any{
				"Title": "Author",
				"Error": message,
			})
			return
		}

		state, items, itemsErr := loadItems(r, func(ctx context.Context) ([]models.Item, error) {
			return profile.AuthorItems(ctx, author.ID)
		})
		if itemsErr != nil && upstream.IsCanceled(itemsErr) {
			return
		}

		rn.Page(w, "author", map[string]any{
			"Title":  author.Name,
			"Author": author,
			"Grid":   buildGrid(state, items, itemsErr, "", len(items)),
		})
	}
}

// ItemDetailsPage handles the item page
func ItemDetailsPage(rn *Renderer, profile *services.ProfileService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nftID := chi.URLParam(r, "id")

		detail, err := profile.ItemDetails(r.Context(), nftID)
		if err != nil {
			if upstream.IsCanceled(err) {
				return
			}
			status := http.StatusBadGateway
			message := "Failed to load item."
			if errors.Is(err, services.ErrNotFound) {
				status = http.StatusNotFound
				message = "Item not found."
			}
			LoggerFromContext(r.Context()).Warn("item page failed",
				zap.String("nft_id", nftID), zap.Error(err))
			w.WriteHeader(status)
			rn.Page(w, "item", map[string]any{
				"Title": "Item Details",
				"Error": message,
			})
			return
		}

		rn.Page(w, "item", map[string]any{
			"Title": detail.Title,
			"Item":  detail,
		})
	}
}
