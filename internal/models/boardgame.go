package models

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/vytor/bggcollect/internal/errors"
)

// Name of the rank entry that carries the overall board game ranking.
const overallRankName = "boardgame"

type CollectionBoardGame struct {
	ID        int     `json:"id"`
	Name      *string `json:"name"`
	Image     *string `json:"image"`
	Thumbnail *string `json:"thumbnail"`
	Year      int     `json:"year"`
	NumPlays  int     `json:"numplays"`

	MinPlayers     int `json:"min_players"`
	MaxPlayers     int `json:"max_players"`
	MinPlayingTime int `json:"min_playing_time"`
	MaxPlayingTime int `json:"max_playing_time"`
	PlayingTime    int `json:"playing_time"`

	Comment string   `json:"comment"`
	Rating  *float64 `json:"rating"`

	Stats   CollectionStats   `json:"stats"`
	Status  CollectionStatus  `json:"status"`
	Extra   map[string]int    `json:"extra,omitempty"`
	Version *BoardGameVersion `json:"version,omitempty"`
	Private *BoardGamePrivate `json:"private,omitempty"`
}

type CollectionStats struct {
	UsersRated   *int     `json:"users_rated"`
	Average      *float64 `json:"average"`
	BayesAverage *float64 `json:"bayes_average"`
	StdDev       *float64 `json:"stddev"`
	Median       *float64 `json:"median"`
	Ranks        []Rank   `json:"ranks"`
}

type Rank struct {
	Type         string   `json:"type"`
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	FriendlyName string   `json:"friendly_name"`
	Value        string   `json:"value"`
	BayesAverage *float64 `json:"bayes_average"`
}

// CollectionStatus is the typed view of an item's status flags. Raw keeps
// every attribute the service sent.
type CollectionStatus struct {
	Own              bool              `json:"own"`
	PrevOwned        bool              `json:"prev_owned"`
	ForTrade         bool              `json:"for_trade"`
	Want             bool              `json:"want"`
	WantToPlay       bool              `json:"want_to_play"`
	WantToBuy        bool              `json:"want_to_buy"`
	Wishlist         bool              `json:"wishlist"`
	WishlistPriority int               `json:"wishlist_priority"`
	Preordered       bool              `json:"preordered"`
	LastModified     string            `json:"last_modified"`
	Raw              map[string]string `json:"-"`
}

type BoardGameVersion struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Language    string  `json:"language"`
	Publisher   string  `json:"publisher"`
	Artist      string  `json:"artist"`
	ProductCode string  `json:"product_code"`
	Year        int     `json:"year"`
	Width       float64 `json:"width"`
	Length      float64 `json:"length"`
	Depth       float64 `json:"depth"`
	Weight      float64 `json:"weight"`
}

type BoardGamePrivate struct {
	Comment      string   `json:"comment"`
	Paid         *float64 `json:"paid"`
	Currency     string   `json:"currency"`
	CurrValue    *float64 `json:"currvalue"`
	CVCurrency   string   `json:"cv_currency"`
	Quantity     string   `json:"quantity"`
	AcquiredOn   string   `json:"acquired_on"`
	AcquiredFrom string   `json:"acquired_from"`
	Location     string   `json:"location"`
}

// NewBoardGamePrivate copies d into a BoardGamePrivate.
func NewBoardGamePrivate(d PrivateData) *BoardGamePrivate {
	return &BoardGamePrivate{
		Comment:      d.Comment,
		Paid:         copyPtr(d.Paid),
		Currency:     d.Currency,
		CurrValue:    copyPtr(d.CurrValue),
		CVCurrency:   d.CVCurrency,
		Quantity:     d.Quantity,
		AcquiredOn:   d.AcquiredOn,
		AcquiredFrom: d.AcquiredFrom,
		Location:     d.Location,
	}
}

// NewCollectionBoardGame validates d and builds the item. The object id must be
// present and numeric.
func NewCollectionBoardGame(d ItemData) (CollectionBoardGame, error) {
	raw := strings.TrimSpace(d.ObjectID)
	if raw == "" {
		return CollectionBoardGame{}, errors.NewValidationError("id", "missing")
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return CollectionBoardGame{}, errors.NewValidationError("id", fmt.Sprintf("not numeric: %q", d.ObjectID))
	}

	g := CollectionBoardGame{
		ID:             id,
		Name:           copyPtr(d.Name),
		Image:          copyPtr(d.Image),
		Thumbnail:      copyPtr(d.Thumbnail),
		Year:           d.YearPublished,
		NumPlays:       d.NumPlays,
		MinPlayers:     d.MinPlayers,
		MaxPlayers:     d.MaxPlayers,
		MinPlayingTime: d.MinPlayTime,
		MaxPlayingTime: d.MaxPlayTime,
		PlayingTime:    d.PlayingTime,
		Comment:        d.Comment,
		Rating:         copyPtr(d.Rating),
		Stats:          newCollectionStats(d.Stats),
		Status:         newCollectionStatus(d.Status),
		Extra:          maps.Clone(d.StatsAttrs),
	}
	if d.Version != nil {
		v := *d.Version
		g.Version = &v
	}
	if d.Private != nil {
		g.Private = NewBoardGamePrivate(*d.Private)
	}
	return g, nil
}

func newCollectionStats(d StatsData) CollectionStats {
	s := CollectionStats{
		UsersRated:   copyPtr(d.UsersRated),
		Average:      copyPtr(d.Average),
		BayesAverage: copyPtr(d.BayesAverage),
		StdDev:       copyPtr(d.StdDev),
		Median:       copyPtr(d.Median),
		Ranks:        make([]Rank, 0, len(d.Ranks)),
	}
	for _, r := range d.Ranks {
		s.Ranks = append(s.Ranks, Rank{
			Type:         r.Type,
			ID:           r.ID,
			Name:         r.Name,
			FriendlyName: r.FriendlyName,
			Value:        r.Value,
			BayesAverage: copyPtr(r.BayesAverage),
		})
	}
	return s
}

func newCollectionStatus(raw map[string]string) CollectionStatus {
	flag := func(key string) bool { return raw[key] == "1" }
	priority, _ := strconv.Atoi(raw["wishlistpriority"])
	return CollectionStatus{
		Own:              flag("own"),
		PrevOwned:        flag("prevowned"),
		ForTrade:         flag("fortrade"),
		Want:             flag("want"),
		WantToPlay:       flag("wanttoplay"),
		WantToBuy:        flag("wanttobuy"),
		Wishlist:         flag("wishlist"),
		WishlistPriority: priority,
		Preordered:       flag("preordered"),
		LastModified:     raw["lastmodified"],
		Raw:              maps.Clone(raw),
	}
}

func (s CollectionStats) overallRank() *Rank {
	for i := range s.Ranks {
		if s.Ranks[i].Name == overallRankName {
			return &s.Ranks[i]
		}
	}
	return nil
}

// RatingBayesAverage is the geek rating of the overall board game rank.
func (s CollectionStats) RatingBayesAverage() *float64 {
	if r := s.overallRank(); r != nil {
		return copyPtr(r.BayesAverage)
	}
	return nil
}

// BGGRank is the overall board game rank, nil when the game is not ranked.
func (s CollectionStats) BGGRank() *int {
	r := s.overallRank()
	if r == nil {
		return nil
	}
	v, err := strconv.Atoi(r.Value)
	if err != nil {
		return nil
	}
	return &v
}

func (g CollectionBoardGame) UsersRated() *int { return g.Stats.UsersRated }

func (g CollectionBoardGame) RatingBayesAverage() *float64 { return g.Stats.RatingBayesAverage() }

func (g CollectionBoardGame) BGGRank() *int { return g.Stats.BGGRank() }

func (g CollectionBoardGame) String() string {
	name := ""
	if g.Name != nil {
		name = *g.Name
	}
	return fmt.Sprintf("CollectionBoardGame(id=%d, name=%q)", g.ID, name)
}

// Data exports the item as plain values, for diagnostics and JSON output.
func (g CollectionBoardGame) Data() map[string]any {
	ranks := make([]map[string]any, 0, len(g.Stats.Ranks))
	for _, r := range g.Stats.Ranks {
		ranks = append(ranks, map[string]any{
			"type":         r.Type,
			"id":           r.ID,
			"name":         r.Name,
			"friendlyname": r.FriendlyName,
			"value":        r.Value,
			"bayesaverage": deref(r.BayesAverage),
		})
	}

	out := map[string]any{
		"id":               g.ID,
		"name":             deref(g.Name),
		"image":            deref(g.Image),
		"thumbnail":        deref(g.Thumbnail),
		"year":             g.Year,
		"numplays":         g.NumPlays,
		"min_players":      g.MinPlayers,
		"max_players":      g.MaxPlayers,
		"min_playing_time": g.MinPlayingTime,
		"max_playing_time": g.MaxPlayingTime,
		"playing_time":     g.PlayingTime,
		"comment":          g.Comment,
		"rating":           deref(g.Rating),
		"stats": map[string]any{
			"usersrated":   deref(g.Stats.UsersRated),
			"average":      deref(g.Stats.Average),
			"bayesaverage": deref(g.Stats.BayesAverage),
			"stddev":       deref(g.Stats.StdDev),
			"median":       deref(g.Stats.Median),
			"ranks":        ranks,
		},
		"bgg_rank":             deref(g.BGGRank()),
		"rating_bayes_average": deref(g.RatingBayesAverage()),
	}
	for k, v := range g.Status.Raw {
		out[k] = v
	}
	for k, v := range g.Extra {
		out[k] = v
	}
	if g.Version != nil {
		out["version"] = *g.Version
	}
	if g.Private != nil {
		out["private"] = *g.Private
	}
	return out
}

// clone returns a deep copy of g sharing no pointers, slices or maps with it.
func (g CollectionBoardGame) clone() CollectionBoardGame {
	out := g
	out.Name = copyPtr(g.Name)
	out.Image = copyPtr(g.Image)
	out.Thumbnail = copyPtr(g.Thumbnail)
	out.Rating = copyPtr(g.Rating)
	out.Stats.UsersRated = copyPtr(g.Stats.UsersRated)
	out.Stats.Average = copyPtr(g.Stats.Average)
	out.Stats.BayesAverage = copyPtr(g.Stats.BayesAverage)
	out.Stats.StdDev = copyPtr(g.Stats.StdDev)
	out.Stats.Median = copyPtr(g.Stats.Median)
	out.Stats.Ranks = slices.Clone(g.Stats.Ranks)
	for i := range out.Stats.Ranks {
		out.Stats.Ranks[i].BayesAverage = copyPtr(out.Stats.Ranks[i].BayesAverage)
	}
	out.Status.Raw = maps.Clone(g.Status.Raw)
	out.Extra = maps.Clone(g.Extra)
	out.Version = copyPtr(g.Version)
	if g.Private != nil {
		p := *g.Private
		p.Paid = copyPtr(p.Paid)
		p.CurrValue = copyPtr(p.CurrValue)
		out.Private = &p
	}
	return out
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// deref returns the pointed-to value, or untyped nil for a nil pointer so maps
// hold a real null rather than a typed nil.
func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
