// Package normalize maps the arbitrarily-shaped records returned by the
// marketplace API to the canonical view models. The same entity arrives under
// many different key spellings across endpoints, so every output field is
// resolved through an ordered candidate list: first present-and-truthy wins,
// else a fixed default. All functions are pure and total.
package normalize

import (
	"strconv"

	"github.com/ultraverse/market-web/internal/models"
)

// Defaults carries the fallback assets and placeholder values substituted for
// missing or invalid fields. It is injected configuration, not package state.
type Defaults struct {
	ItemImage   string
	AuthorImage string
	Name        string
	Username    string
	Wallet      string
	Followers   int
	Token       string
}

// Item normalizes one listing record. index is the position of the record in
// its response and is the identifier of last resort.
func Item(raw map[string]any, index int, d Defaults) models.Item {
	id := str(pick(raw, "tokenId", "nftId", "id", "itemId", "item_id"))
	if id == "" {
		id = strconv.Itoa(index)
	}

	image := firstURL(raw, "nftImage", "image")
	if image == "" {
		image = d.ItemImage
	}

	title := str(pick(raw, "title", "name"))
	if title == "" {
		title = "Untitled"
	}

	var price *float64
	if v := pick(raw, "price", "nftPrice", "priceEth", "current_price", "lastSalePrice"); v != nil {
		if n, ok := ParseNumber(v); ok {
			price = &n
		}
	}

	authorImage := firstURL(raw, "authorImage")
	if authorImage == "" {
		authorImage = d.AuthorImage
	}

	return models.Item{
		ID:          id,
		Title:       title,
		Image:       image,
		Price:       price,
		Likes:       int(ToNumber(pick(raw, "likes", "favorites", "likeCount"))),
		AuthorID:    str(pick(raw, "authorId")),
		AuthorImage: authorImage,
		EndsAt:      ToMillis(pick(raw, "expiryDate", "endTime", "endsAt", "deadline", "ending_time", "end")),
	}
}

// Items normalizes a whole response
func Items(raws []map[string]any, d Defaults) []models.Item {
	items := make([]models.Item, 0, len(raws))
	for i, raw := range raws {
		items = append(items, Item(raw, i, d))
	}
	return items
}

// AuthorSparse resolves the author fields without applying display defaults,
// so a later merge cannot clobber held values with synthesized placeholders.
func AuthorSparse(raw map[string]any, fallbackID string) models.Author {
	id := str(pick(raw, "authorId", "profileId", "userId", "uid", "id"))
	if id == "" {
		id = fallbackID
	}

	var followers int
	if n, ok := ParseNumber(pick(raw, "followers", "followerCount")); ok {
		followers = int(n)
	}

	return models.Author{
		ID:        id,
		Name:      str(pick(raw, "authorName", "name")),
		Avatar:    firstURL(raw, "authorImage", "avatar", "image"),
		Username:  str(pick(raw, "username")),
		Wallet:    str(pick(raw, "address", "wallet", "walletAddress", "account")),
		Followers: followers,
	}
}

// FillAuthor substitutes the configured placeholders for any field the
// resolution left blank
func (d Defaults) FillAuthor(a models.Author) models.Author {
	if a.Name == "" {
		a.Name = d.Name
	}
	if a.Avatar == "" {
		a.Avatar = d.AuthorImage
	}
	if a.Username == "" {
		a.Username = d.Username
	}
	if a.Wallet == "" {
		a.Wallet = d.Wallet
	}
	if a.Followers == 0 {
		a.Followers = d.Followers
	}
	return a
}

// Author normalizes an author record with defaults applied
func Author(raw map[string]any, fallbackID string, d Defaults) models.Author {
	return d.FillAuthor(AuthorSparse(raw, fallbackID))
}

// Seller normalizes one top-sellers entry. Only keys that identify the author
// on the authors endpoint are accepted as id; there is no positional fallback,
// an id-less seller is rendered non-navigable.
func Seller(raw map[string]any, d Defaults) models.Seller {
	name := str(pick(raw, "authorName", "name"))
	if name == "" {
		name = d.Name
	}

	avatar := firstURL(raw, "authorImage", "avatar", "image")
	if avatar == "" {
		avatar = d.AuthorImage
	}

	return models.Seller{
		ID:       str(pick(raw, "authorId", "profileId", "userId", "uid")),
		Name:     name,
		Avatar:   avatar,
		PriceEth: ToNumber(pick(raw, "priceEth", "price", "eth")),
	}
}

// Collection normalizes one hot-collections entry
func Collection(raw map[string]any, index int, d Defaults) models.Collection {
	id := str(pick(raw, "nftId", "id", "itemId"))
	if id == "" {
		id = strconv.Itoa(index)
	}

	title := str(pick(raw, "name", "title"))
	if title == "" {
		title = "Untitled"
	}

	image := firstURL(raw, "nftImage", "nft", "image")
	if image == "" {
		image = d.ItemImage
	}

	// the author sometimes arrives as a nested record
	nested, _ := raw["author"].(map[string]any)

	authorID := str(pick(raw, "authorId"))
	if authorID == "" {
		authorID = str(pick(nested, "id"))
	}

	authorImage := firstURL(raw, "authorImage")
	if authorImage == "" {
		authorImage = firstURL(nested, "avatar")
	}
	if authorImage == "" {
		authorImage = d.AuthorImage
	}

	token := str(pick(raw, "code", "token"))
	if token == "" {
		token = d.Token
	}

	return models.Collection{
		ID:          id,
		Title:       title,
		Image:       image,
		AuthorID:    authorID,
		AuthorImage: authorImage,
		Token:       token,
	}
}

// Collections normalizes a whole response
func Collections(raws []map[string]any, d Defaults) []models.Collection {
	cols := make([]models.Collection, 0, len(raws))
	for i, raw := range raws {
		cols = append(cols, Collection(raw, i, d))
	}
	return cols
}

// asPerson widens an owner/creator candidate: a bare string is a name, an
// object is taken as-is
func asPerson(v any) map[string]any {
	switch val := v.(type) {
	case string:
		return map[string]any{"name": val}
	case map[string]any:
		return val
	default:
		return nil
	}
}

func person(sub map[string]any, raw map[string]any, prefix string, d Defaults) models.Person {
	id := str(pick(sub, "id", "authorId"))
	if id == "" {
		id = str(pick(raw, prefix+"Id", prefix+"ID"))
	}

	name := str(pick(sub, "name", "username"))
	if name == "" {
		name = str(pick(raw, prefix+"Name"))
	}
	if name == "" {
		name = "—"
	}

	avatar := firstURL(sub, "avatar", "image")
	if avatar == "" {
		avatar = firstURL(raw, prefix+"Avatar", prefix+"Image")
	}
	if avatar == "" {
		avatar = d.AuthorImage
	}

	return models.Person{ID: id, Name: name, Avatar: avatar}
}

// Detail normalizes the item-details record for the item page
func Detail(raw map[string]any, nftID string, d Defaults) models.ItemDetail {
	title := str(pick(raw, "title", "name"))
	if title == "" {
		title = "NFT #" + nftID
	}

	image := firstURL(raw, "nftImage", "image", "img")
	if image == "" {
		image = d.ItemImage
	}

	var price *float64
	if v := pick(raw, "price", "priceEth", "listPrice"); v != nil {
		if n, ok := ParseNumber(v); ok {
			price = &n
		}
	}

	owner := asPerson(pick(raw, "owner", "currentOwner", "ownerInfo"))
	creator := asPerson(pick(raw, "creator", "author", "creatorInfo"))

	return models.ItemDetail{
		ID:          nftID,
		Title:       title,
		Tag:         str(pick(raw, "tag", "itemTag", "category", "collectionTag")),
		Description: str(pick(raw, "description", "desc")),
		Image:       image,
		Views:       int(ToNumber(pick(raw, "views", "watchers"))),
		Likes:       int(ToNumber(pick(raw, "likes", "favs"))),
		Price:       price,
		Owner:       person(owner, raw, "owner", d),
		Creator:     person(creator, raw, "creator", d),
	}
}

// records extracts the object entries of a JSON array value
func records(v any) ([]map[string]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	recs := make([]map[string]any, 0, len(arr))
	for _, entry := range arr {
		if m, ok := entry.(map[string]any); ok {
			recs = append(recs, m)
		}
	}
	return recs, true
}

var itemListKeys = []string{"nftItems", "items", "nftCollection"}

// AuthorItems digs the item list out of an authors response. The endpoint has
// returned the list as a bare array, under several sibling keys, nested one
// level under author or data, and as a single object; all shapes are handled
// in the order the drift was discovered.
func AuthorItems(raw any) []map[string]any {
	if recs, ok := records(raw); ok {
		return recs
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	for _, key := range itemListKeys {
		if recs, ok := records(obj[key]); ok {
			return recs
		}
	}

	for _, nest := range []string{"author", "data"} {
		sub, ok := obj[nest].(map[string]any)
		if !ok {
			continue
		}
		for _, key := range itemListKeys {
			if recs, ok := records(sub[key]); ok {
				return recs
			}
		}
	}

	for _, key := range []string{"nft", "item"} {
		if m, ok := obj[key].(map[string]any); ok {
			return []map[string]any{m}
		}
	}

	return nil
}
