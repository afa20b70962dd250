package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/services"
)

// NewRouter wires the pages, fragments, JSON API and live socket
func NewRouter(rn *Renderer, catalog *services.CatalogService, profile *services.ProfileService, hub *Hub, staticDir string, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(RequestLogger(log))
	r.Use(chimw.Recoverer)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Static assets, including the fallback images
	fileServer := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
	r.Handle("/static/*", fileServer)

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/", HomePage(rn))
		r.Get("/explore", ExplorePage(rn, catalog))
		r.Get("/author/{id}", AuthorPage(rn, profile))
		r.Get("/item-details/{id}", ItemDetailsPage(rn, profile))

		// Fragments swapped in over the skeleton placeholders
		r.Route("/fragments", func(r chi.Router) {
			r.Get("/hot-collections", HotCollectionsFragment(rn, catalog))
			r.Get("/new-items", NewItemsFragment(rn, catalog))
			r.Get("/top-sellers", TopSellersFragment(rn, catalog))
			r.Get("/explore", ExploreGridFragment(rn, catalog))
			r.Get("/author/{id}/items", AuthorItemsFragment(rn, profile))
		})
	})

	// Normalized JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
		r.Use(chimw.Timeout(30 * time.Second))

		r.Get("/hot-collections", GetHotCollections(catalog))
		r.Get("/new-items", GetNewItems(catalog))
		r.Get("/top-sellers", GetTopSellers(catalog))
		r.Get("/explore", GetExploreItems(catalog))
		r.Get("/authors/{id}", GetAuthor(profile))
		r.Get("/authors/{id}/items", GetAuthorItems(profile))
		r.Get("/items/{id}", GetItemDetails(profile))
	})

	// Live countdown ticks
	r.Get("/ws", ServeWs(hub))

	return r
}
