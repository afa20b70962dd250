package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/models"
	"github.com/ultraverse/market-web/internal/normalize"
	"github.com/ultraverse/market-web/internal/upstream"
)

// ErrNotFound is returned when the upstream API has no record for the
// requested identifier
var ErrNotFound = errors.New("services: not found")

// ProfileService serves the author and item-detail pages
type ProfileService struct {
	api      *upstream.Client
	defaults normalize.Defaults
	log      *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(api *upstream.Client, defaults normalize.Defaults, log *zap.Logger) *ProfileService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProfileService{
		api:      api,
		defaults: defaults,
		log:      log,
	}
}

// Author resolves the profile header. A seed handed over from the page the
// visitor navigated from renders immediately; the authoritative fetch then
// overlays it field by field, fresh truthy values winning. When the fetch
// fails but a matching seed exists, the seeded header is kept instead of an
// error page.
func (s *ProfileService) Author(ctx context.Context, authorID string, seed *models.Author) (models.Author, error) {
	seeded := seed != nil && seed.ID == authorID

	raw, err := s.api.Author(ctx, authorID)
	if err != nil {
		if seeded && !upstream.IsCanceled(err) {
			s.log.Warn("author fetch failed, serving seeded header",
				zap.String("author_id", authorID), zap.Error(err))
			return s.defaults.FillAuthor(*seed), nil
		}
		return models.Author{}, err
	}
	if raw == nil && !seeded {
		return models.Author{}, ErrNotFound
	}

	fresh := normalize.AuthorSparse(raw, authorID)
	if seeded {
		fresh = normalize.MergeAuthor(*seed, fresh)
	}
	if fresh.ID == "" {
		fresh.ID = authorID
	}
	return s.defaults.FillAuthor(fresh), nil
}

// AuthorItems fetches and normalizes the items belonging to an author. It is
// the dependent second fetch of the author page and must only be issued once
// the author id is known.
func (s *ProfileService) AuthorItems(ctx context.Context, authorID string) ([]models.Item, error) {
	raw, err := s.api.AuthorItems(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return normalize.Items(normalize.AuthorItems(raw), s.defaults), nil
}

// ItemDetails resolves the item page record
func (s *ProfileService) ItemDetails(ctx context.Context, nftID string) (models.ItemDetail, error) {
	raw, err := s.api.ItemDetails(ctx, nftID)
	if err != nil {
		return models.ItemDetail{}, err
	}
	if raw == nil {
		return models.ItemDetail{}, ErrNotFound
	}
	return normalize.Detail(raw, nftID, s.defaults), nil
}
