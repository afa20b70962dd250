package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/models"
	"github.com/ultraverse/market-web/internal/normalize"
	"github.com/ultraverse/market-web/internal/upstream"
)

// Row sizes of the home page surfaces
const (
	hotCollectionsCount = 6
	newItemsCount       = 6
	topSellersCount     = 12
)

// CatalogService serves the browse surfaces: home carousels, top sellers and
// the explore grid. Every call fetches fresh from the upstream API and
// normalizes; nothing is cached across requests.
type CatalogService struct {
	api      *upstream.Client
	defaults normalize.Defaults
	log      *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(api *upstream.Client, defaults normalize.Defaults, log *zap.Logger) *CatalogService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CatalogService{
		api:      api,
		defaults: defaults,
		log:      log,
	}
}

// HotCollections returns the first entries of the hot-collections carousel
func (s *CatalogService) HotCollections(ctx context.Context) ([]models.Collection, error) {
	raws, err := s.api.HotCollections(ctx)
	if err != nil {
		return nil, err
	}
	cols := normalize.Collections(raws, s.defaults)
	if len(cols) > hotCollectionsCount {
		cols = cols[:hotCollectionsCount]
	}
	return cols, nil
}

// NewItems returns the first entries of the new-items carousel
func (s *CatalogService) NewItems(ctx context.Context) ([]models.Item, error) {
	raws, err := s.api.NewItems(ctx)
	if err != nil {
		return nil, err
	}
	items := normalize.Items(raws, s.defaults)
	if len(items) > newItemsCount {
		items = items[:newItemsCount]
	}
	return items, nil
}

// TopSellers returns the top-sellers ranking
func (s *CatalogService) TopSellers(ctx context.Context) ([]models.Seller, error) {
	raws, err := s.api.TopSellers(ctx)
	if err != nil {
		return nil, err
	}
	sellers := make([]models.Seller, 0, len(raws))
	for _, raw := range raws {
		sellers = append(sellers, normalize.Seller(raw, s.defaults))
	}
	if len(sellers) > topSellersCount {
		sellers = sellers[:topSellersCount]
	}
	return sellers, nil
}

// ExploreItems returns the full explore list in the requested order. Sorting
// is client-side; the same fetched list re-sorts without another request.
func (s *CatalogService) ExploreItems(ctx context.Context, sortKey string) ([]models.Item, error) {
	raws, err := s.api.ExploreItems(ctx)
	if err != nil {
		return nil, err
	}
	return SortItems(normalize.Items(raws, s.defaults), sortKey), nil
}
