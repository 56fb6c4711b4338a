package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/bggcollect/internal/bggapi"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/logger"
	"github.com/vytor/bggcollect/internal/services"
)

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	log := logger.FromContext(r.Context()).WithField("username", username)

	opts, err := parseCollectionOptions(r.URL.Query())
	if err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("loading collection for subtypes %v", opts.Subtypes)
	collection, err := s.CollectionService.Collection(r.Context(), username, opts)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, collection.Data())
}

var boolFilters = []struct {
	key string
	set func(*bggapi.CollectionQuery, *bool)
}{
	{"own", func(q *bggapi.CollectionQuery, v *bool) { q.Own = v }},
	{"rated", func(q *bggapi.CollectionQuery, v *bool) { q.Rated = v }},
	{"played", func(q *bggapi.CollectionQuery, v *bool) { q.Played = v }},
	{"comment", func(q *bggapi.CollectionQuery, v *bool) { q.Commented = v }},
	{"trade", func(q *bggapi.CollectionQuery, v *bool) { q.Trade = v }},
	{"want", func(q *bggapi.CollectionQuery, v *bool) { q.Want = v }},
	{"wishlist", func(q *bggapi.CollectionQuery, v *bool) { q.Wishlist = v }},
	{"preordered", func(q *bggapi.CollectionQuery, v *bool) { q.Preordered = v }},
	{"wanttoplay", func(q *bggapi.CollectionQuery, v *bool) { q.WantToPlay = v }},
	{"wanttobuy", func(q *bggapi.CollectionQuery, v *bool) { q.WantToBuy = v }},
	{"prevowned", func(q *bggapi.CollectionQuery, v *bool) { q.PrevOwned = v }},
	{"hasparts", func(q *bggapi.CollectionQuery, v *bool) { q.HasParts = v }},
	{"wantparts", func(q *bggapi.CollectionQuery, v *bool) { q.WantParts = v }},
}

var floatFilters = []struct {
	key string
	set func(*bggapi.CollectionQuery, *float64)
}{
	{"minrating", func(q *bggapi.CollectionQuery, v *float64) { q.MinRating = v }},
	{"rating", func(q *bggapi.CollectionQuery, v *float64) { q.Rating = v }},
	{"minbggrating", func(q *bggapi.CollectionQuery, v *float64) { q.MinBGGRating = v }},
	{"bggrating", func(q *bggapi.CollectionQuery, v *float64) { q.BGGRating = v }},
}

// parseCollectionOptions maps request parameters onto service options. Stats
// are requested unless stats=0.
func parseCollectionOptions(v url.Values) (services.CollectionOptions, error) {
	var opts services.CollectionOptions
	opts.Query.Stats = true

	for _, raw := range v["subtype"] {
		for _, st := range strings.Split(raw, ",") {
			if st = strings.TrimSpace(st); st != "" {
				opts.Subtypes = append(opts.Subtypes, st)
			}
		}
	}

	flags := []struct {
		key string
		dst *bool
	}{
		{"stats", &opts.Query.Stats},
		{"versions", &opts.Query.Versions},
		{"brief", &opts.Query.Brief},
	}
	for _, f := range flags {
		b, err := parseBool(v, f.key)
		if err != nil {
			return opts, err
		}
		if b != nil {
			*f.dst = *b
		}
	}

	for _, f := range boolFilters {
		b, err := parseBool(v, f.key)
		if err != nil {
			return opts, err
		}
		f.set(&opts.Query, b)
	}

	for _, f := range floatFilters {
		if s := v.Get(f.key); s != "" {
			x, err := strconv.ParseFloat(s, 64)
			if err != nil || x < 1 || x > 10 {
				return opts, errors.NewBadRequestError(fmt.Sprintf("%s must be a rating between 1 and 10", f.key))
			}
			f.set(&opts.Query, &x)
		}
	}

	if s := v.Get("wishlistpriority"); s != "" {
		p, err := strconv.Atoi(s)
		if err != nil || p < 1 || p > 5 {
			return opts, errors.NewBadRequestError("wishlistpriority must be between 1 and 5")
		}
		opts.Query.WishlistPriority = p
	}

	for key, dst := range map[string]**int{"minplays": &opts.Query.MinPlays, "maxplays": &opts.Query.MaxPlays} {
		if s := v.Get(key); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				return opts, errors.NewBadRequestError(key + " must be a non-negative integer")
			}
			*dst = &n
		}
	}

	if s := v.Get("modifiedsince"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return opts, errors.NewBadRequestError("modifiedsince must be a YYYY-MM-DD date")
		}
		opts.Query.ModifiedSince = t
	}

	if s := v.Get("id"); s != "" {
		for _, part := range strings.Split(s, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || id <= 0 {
				return opts, errors.NewBadRequestError("id must be a comma separated list of object ids")
			}
			opts.Query.IDs = append(opts.Query.IDs, id)
		}
	}

	return opts, nil
}

func parseBool(v url.Values, key string) (*bool, error) {
	s := v.Get(key)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, errors.NewBadRequestError(fmt.Sprintf("%s must be a boolean", key))
	}
	return &b, nil
}
