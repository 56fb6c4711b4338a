// Package loader turns BGG collection XML documents into models.Collection
// values. It does no I/O and no logging; callers hand it parsed documents.
package loader

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/models"
)

// GameAdder receives the items extracted from a document.
type GameAdder interface {
	AddGame(data models.ItemData) error
}

var _ GameAdder = (*models.Collection)(nil)

// Statistics carried as children of <stats><rating>. When any of them is
// present all of them must be.
var ratingStatistics = []string{"usersrated", "average", "bayesaverage", "stddev", "median"}

// CreateCollectionFromXML checks root for a service error and otherwise returns
// an empty collection for owner. Items are added with AddCollectionItemsFromXML.
// A blank owner is rejected before root is looked at.
func CreateCollectionFromXML(root *etree.Element, owner string) (*models.Collection, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, errors.NewBadRequestError("owner is required")
	}
	if root == nil {
		return nil, errors.NewAPIError("empty collection document")
	}
	if msg, ok := serviceError(root); ok {
		return nil, errors.NewItemNotFoundError(msg)
	}
	return models.NewCollection(owner)
}

// serviceError finds the message of an error payload, either
// <errors><error><message> or a bare <error><message>.
func serviceError(root *etree.Element) (string, bool) {
	var msg *etree.Element
	if root.Tag == "error" {
		msg = root.SelectElement("message")
	} else {
		msg = root.FindElement("./error/message")
	}
	if msg == nil {
		return "", false
	}
	return msg.Text(), true
}

// AddCollectionItemsFromXML extracts every <item> of the given subtype from root
// and adds it to c, in document order. Items of other subtypes are skipped.
func AddCollectionItemsFromXML(c GameAdder, root *etree.Element, subtype string) error {
	if root == nil {
		return errors.NewAPIError("empty collection document")
	}
	for _, item := range root.SelectElements("item") {
		if item.SelectAttrValue("subtype", "") != subtype {
			continue
		}
		data, err := extractItem(item)
		if err != nil {
			return fmt.Errorf("collection item %s: %w", item.SelectAttrValue("objectid", "?"), err)
		}
		if err := c.AddGame(data); err != nil {
			return err
		}
	}
	return nil
}

func extractItem(item *etree.Element) (models.ItemData, error) {
	d := models.NewItemData(item.SelectAttrValue("objectid", ""))
	d.Name = childText(item, "name")
	d.Image = childText(item, "image")
	d.Thumbnail = childText(item, "thumbnail")
	d.Comment = childTextOr(item, "comment", "")

	counts := []struct {
		path string
		dst  *int
	}{
		{"yearpublished", &d.YearPublished},
		{"numplays", &d.NumPlays},
		{"minplayers", &d.MinPlayers},
		{"maxplayers", &d.MaxPlayers},
		{"minplaytime", &d.MinPlayTime},
		{"maxplaytime", &d.MaxPlayTime},
		{"playingtime", &d.PlayingTime},
	}
	for _, c := range counts {
		v, err := childInt(item, c.path, 0)
		if err != nil {
			return d, err
		}
		*c.dst = v
	}

	if stats := item.SelectElement("stats"); stats != nil {
		if err := extractStats(stats, &d); err != nil {
			return d, err
		}
	}

	d.Status = attrMap(item.SelectElement("status"))

	private, err := parsePrivate(item)
	if err != nil {
		return d, err
	}
	d.Private = private

	version, err := parseVersion(item)
	if err != nil {
		return d, err
	}
	d.Version = version

	return d, nil
}

func extractStats(stats *etree.Element, d *models.ItemData) error {
	playBounds := map[string]*int{
		"minplayers":  &d.MinPlayers,
		"maxplayers":  &d.MaxPlayers,
		"minplaytime": &d.MinPlayTime,
		"maxplaytime": &d.MaxPlayTime,
		"playingtime": &d.PlayingTime,
	}
	for _, a := range stats.Attr {
		// numowned duplicates what the status element already says
		if a.Key == "numowned" {
			continue
		}
		v, err := attrInt(stats, a.Key)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if dst, ok := playBounds[a.Key]; ok {
			*dst = *v
			continue
		}
		if d.StatsAttrs == nil {
			d.StatsAttrs = make(map[string]int)
		}
		d.StatsAttrs[a.Key] = *v
	}

	if rating := stats.SelectElement("rating"); rating != nil {
		value, err := attrFloat(rating, "value")
		if err != nil {
			return err
		}
		d.Rating = value
		if err := extractRatingStatistics(rating, &d.Stats); err != nil {
			return err
		}
	}

	for _, path := range []string{"rating/ranks/rank", "ranks/rank"} {
		for _, rank := range stats.FindElements(path) {
			r, err := extractRank(rank)
			if err != nil {
				return err
			}
			d.Stats.Ranks = append(d.Stats.Ranks, r)
		}
	}
	return nil
}

func extractRatingStatistics(rating *etree.Element, s *models.StatsData) error {
	present := 0
	for _, name := range ratingStatistics {
		if rating.SelectElement(name) != nil {
			present++
		}
	}
	if present == 0 {
		return nil
	}
	for _, name := range ratingStatistics {
		child := rating.SelectElement(name)
		if child == nil || child.SelectAttr("value") == nil {
			return errors.NewAPIErrorf("missing 'stats' field '%s'", name)
		}
	}

	usersRated, err := valueInt(rating, "usersrated")
	if err != nil {
		return err
	}
	s.UsersRated = usersRated

	floats := []struct {
		name string
		dst  **float64
	}{
		{"average", &s.Average},
		{"bayesaverage", &s.BayesAverage},
		{"stddev", &s.StdDev},
		{"median", &s.Median},
	}
	for _, f := range floats {
		v, err := valueFloat(rating, f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}
	return nil
}

func extractRank(rank *etree.Element) (models.RankData, error) {
	bayes, err := attrFloat(rank, "bayesaverage")
	if err != nil {
		return models.RankData{}, err
	}
	return models.RankData{
		Type:         rank.SelectAttrValue("type", ""),
		ID:           rank.SelectAttrValue("id", ""),
		Name:         rank.SelectAttrValue("name", ""),
		FriendlyName: rank.SelectAttrValue("friendlyname", ""),
		Value:        rank.SelectAttrValue("value", ""),
		BayesAverage: bayes,
	}, nil
}
