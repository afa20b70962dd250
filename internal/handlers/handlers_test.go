package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ultraverse/market-web/internal/models"
	"github.com/ultraverse/market-web/internal/normalize"
	"github.com/ultraverse/market-web/internal/services"
	"github.com/ultraverse/market-web/internal/upstream"
)

var testDefaults = normalize.Defaults{
	ItemImage:   "/static/images/nft-fallback.svg",
	AuthorImage: "/static/images/author-fallback.svg",
	Name:        "Unknown",
	Username:    "@creator",
	Wallet:      "PLACEHOLDERWALLET",
	Followers:   573,
	Token:       "ERC-192",
}

// newApp builds the full router against a fake marketplace API
func newApp(t *testing.T, apiHandler http.Handler) http.Handler {
	t.Helper()

	fake := httptest.NewServer(apiHandler)
	t.Cleanup(fake.Close)

	api := upstream.NewClient(fake.URL, 5*time.Second, nil)
	catalog := services.NewCatalogService(api, testDefaults, nil)
	profile := services.NewProfileService(api, testDefaults, nil)

	rn, err := NewRenderer("../../web/templates", nil)
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	hub := NewHub(nil)
	go hub.Run()

	return NewRouter(rn, catalog, profile, hub, "../../web/static", zap.NewNop())
}

func get(t *testing.T, app http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func exploreBody(n int) string {
	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"nftId":%d,"title":"Item %d","price":%d,"likes":%d}`, i+1, i+1, (i%7)+1, i)
	}
	b.WriteString("]")
	return b.String()
}

func TestExplorePageWindowsToEight(t *testing.T) {
	var hits atomic.Int32
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/explore" {
			hits.Add(1)
			fmt.Fprint(w, exploreBody(16))
			return
		}
		http.NotFound(w, r)
	}))

	rec := get(t, app, "/explore")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("upstream hits = %d, want exactly 1", got)
	}

	body := rec.Body.String()
	if got := strings.Count(body, `class="card item-card"`); got != 8 {
		t.Errorf("rendered %d cards, want 8", got)
	}
	if !strings.Contains(body, "Load more") {
		t.Error("load-more control missing with items left to reveal")
	}
	if !strings.Contains(body, "limit=12") {
		t.Error("load-more link should request the next window of 12")
	}
}

func TestExplorePageLoadMoreWindow(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, exploreBody(10))
	}))

	rec := get(t, app, "/explore?limit=12")
	body := rec.Body.String()
	if got := strings.Count(body, `class="card item-card"`); got != 10 {
		t.Errorf("rendered %d cards, want all 10", got)
	}
	if strings.Contains(body, "Load more") {
		t.Error("load-more control should disappear once everything is visible")
	}
}

func TestExplorePageSortOrder(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"nftId":"a","price":9},{"nftId":"b","price":1},{"nftId":"c","price":5}]`)
	}))

	body := get(t, app, "/explore?sort=price_low_to_high").Body.String()

	first := strings.Index(body, `data-nft-id="b"`)
	second := strings.Index(body, `data-nft-id="c"`)
	third := strings.Index(body, `data-nft-id="a"`)
	if first == -1 || second == -1 || third == -1 {
		t.Fatal("expected all three cards in the page")
	}
	if !(first < second && second < third) {
		t.Errorf("cards out of order: b@%d c@%d a@%d", first, second, third)
	}
}

func TestExploreFragmentUncached(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, exploreBody(4))
	}))

	rec := get(t, app, "/fragments/explore")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", got)
	}
	if got := strings.Count(rec.Body.String(), `class="card item-card"`); got != 4 {
		t.Errorf("rendered %d cards, want 4", got)
	}
}

func TestExploreEmptyState(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))

	body := get(t, app, "/explore").Body.String()
	if !strings.Contains(body, "Nothing to show here yet.") {
		t.Error("empty upstream response should render the empty state")
	}
	if strings.Contains(body, "Load more") {
		t.Error("empty grid must not offer load more")
	}
}

func TestExploreErrorState(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	body := get(t, app, "/explore").Body.String()
	if !strings.Contains(body, "Failed to load items.") {
		t.Error("upstream failure should render the error state")
	}
}

func TestHomePageShipsSkeletons(t *testing.T) {
	var hits atomic.Int32
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	rec := get(t, app, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, frag := range []string{"/fragments/hot-collections", "/fragments/new-items", "/fragments/top-sellers"} {
		if !strings.Contains(body, frag) {
			t.Errorf("home page missing deferred fragment %s", frag)
		}
	}
	if !strings.Contains(body, "skeleton") {
		t.Error("home page should paint skeleton placeholders")
	}
	// the shell itself never waits on the marketplace API
	if got := hits.Load(); got != 0 {
		t.Errorf("home page made %d upstream calls, want 0", got)
	}
}

func TestTopSellersFragmentSeedsProfileLinks(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"authorId":"42","authorName":"Monica Lucas","price":4.2},{"authorName":"No Profile","price":1.1}]`)
	}))

	body := get(t, app, "/fragments/top-sellers").Body.String()
	if !strings.Contains(body, "/author/42?seed=") {
		t.Error("navigable seller should link to the profile with a seed")
	}
	if !strings.Contains(body, "Monica Lucas") || !strings.Contains(body, "No Profile") {
		t.Error("both sellers should render")
	}
	if strings.Contains(body, "/author/?seed=") {
		t.Error("an id-less seller must not produce a profile link")
	}
	if !strings.Contains(body, "4.2 ETH") {
		t.Error("seller price should render in ETH")
	}
}

func TestAuthorPageNotFound(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := get(t, app, "/author/42")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Author not found.") {
		t.Error("missing author should render the not-found message")
	}
}

func TestAuthorPageRendersProfileAndItems(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"authorId":"42","authorName":"Monica Lucas","address":"0xabc","followers":120,"nftCollection":[{"nftId":1,"title":"First"},{"nftId":2,"title":"Second"}]}`)
	}))

	rec := get(t, app, "/author/42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Monica Lucas", "0xabc", "120 followers", "First", "Second"} {
		if !strings.Contains(body, want) {
			t.Errorf("author page missing %q", want)
		}
	}
}

func TestItemDetailsPage(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"title":"Rainbow Style","views":22,"likes":97,"price":"4.7","owner":{"id":"8","name":"Stacy"},"creator":"Ian"}`)
	}))

	rec := get(t, app, "/item-details/60198509")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Rainbow Style", "4.7 ETH", "Stacy", "Ian", "/author/8"} {
		if !strings.Contains(body, want) {
			t.Errorf("item page missing %q", want)
		}
	}
}

func TestItemDetailsPageNotFound(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	}))

	rec := get(t, app, "/item-details/60198509")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAPIExploreReturnsJSON(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, exploreBody(3))
	}))

	rec := get(t, app, "/api/explore?sort=price_high_to_low")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var items []models.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len = %d, want 3", len(items))
	}
	if items[0].Price == nil || *items[0].Price < *items[2].Price {
		t.Error("items should arrive sorted high to low")
	}
}

func TestAPIItemNotFound(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	}))

	rec := get(t, app, "/api/items/123")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestAPIUpstreamFailureIsBadGateway(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusTeapot)
	}))

	rec := get(t, app, "/api/new-items")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	app := newApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := get(t, app, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "ok" {
		t.Errorf("body = %q, want ok", got)
	}
}
