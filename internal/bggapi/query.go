package bggapi

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CollectionQuery mirrors the parameters of the /collection endpoint. Nil
// filters are left out of the request.
type CollectionQuery struct {
	Username       string
	Subtype        string
	ExcludeSubtype string
	IDs            []int

	Stats    bool
	Versions bool
	Brief    bool

	Own        *bool
	Rated      *bool
	Played     *bool
	Commented  *bool
	Trade      *bool
	Want       *bool
	Wishlist   *bool
	Preordered *bool
	WantToPlay *bool
	WantToBuy  *bool
	PrevOwned  *bool
	HasParts   *bool
	WantParts  *bool

	WishlistPriority int // 1-5, 0 for any

	MinRating    *float64
	Rating       *float64
	MinBGGRating *float64
	BGGRating    *float64
	MinPlays     *int
	MaxPlays     *int

	ModifiedSince time.Time
}

// Values encodes q as URL query parameters.
func (q CollectionQuery) Values() url.Values {
	v := url.Values{}
	v.Set("username", q.Username)
	if q.Subtype != "" {
		v.Set("subtype", q.Subtype)
	}
	if q.ExcludeSubtype != "" {
		v.Set("excludesubtype", q.ExcludeSubtype)
	}
	if len(q.IDs) > 0 {
		ids := make([]string, len(q.IDs))
		for i, id := range q.IDs {
			ids[i] = strconv.Itoa(id)
		}
		v.Set("id", strings.Join(ids, ","))
	}

	setFlag := func(key string, on bool) {
		if on {
			v.Set(key, "1")
		}
	}
	setFlag("stats", q.Stats)
	setFlag("version", q.Versions)
	setFlag("brief", q.Brief)

	filters := []struct {
		key string
		val *bool
	}{
		{"own", q.Own},
		{"rated", q.Rated},
		{"played", q.Played},
		{"comment", q.Commented},
		{"trade", q.Trade},
		{"want", q.Want},
		{"wishlist", q.Wishlist},
		{"preordered", q.Preordered},
		{"wanttoplay", q.WantToPlay},
		{"wanttobuy", q.WantToBuy},
		{"prevowned", q.PrevOwned},
		{"hasparts", q.HasParts},
		{"wantparts", q.WantParts},
	}
	for _, f := range filters {
		if f.val == nil {
			continue
		}
		if *f.val {
			v.Set(f.key, "1")
		} else {
			v.Set(f.key, "0")
		}
	}

	if q.WishlistPriority > 0 {
		v.Set("wishlistpriority", strconv.Itoa(q.WishlistPriority))
	}

	ratings := []struct {
		key string
		val *float64
	}{
		{"minrating", q.MinRating},
		{"rating", q.Rating},
		{"minbggrating", q.MinBGGRating},
		{"bggrating", q.BGGRating},
	}
	for _, r := range ratings {
		if r.val != nil {
			v.Set(r.key, strconv.FormatFloat(*r.val, 'f', -1, 64))
		}
	}

	if q.MinPlays != nil {
		v.Set("minplays", strconv.Itoa(*q.MinPlays))
	}
	if q.MaxPlays != nil {
		v.Set("maxplays", strconv.Itoa(*q.MaxPlays))
	}
	if !q.ModifiedSince.IsZero() {
		v.Set("modifiedsince", q.ModifiedSince.Format("06-01-02"))
	}
	return v
}
