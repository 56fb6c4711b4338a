package loader

import (
	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/errors"
	"github.com/vytor/bggcollect/internal/models"
)

// parseVersion reads <version><item .../></version>, present when the
// collection was requested with version=1.
func parseVersion(item *etree.Element) (*models.BoardGameVersion, error) {
	el := item.FindElement("version/item")
	if el == nil {
		return nil, nil
	}

	id, err := attrInt(el, "id")
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, errors.NewAPIError("version item without id")
	}

	v := &models.BoardGameVersion{
		ID:          *id,
		ProductCode: valueString(el, "productcode"),
	}

	name := el.FindElement("name[@type='primary']")
	if name == nil {
		name = el.SelectElement("name")
	}
	v.Name = attrStringOr(name, "value", "")

	for _, link := range el.SelectElements("link") {
		value := link.SelectAttrValue("value", "")
		switch link.SelectAttrValue("type", "") {
		case "language":
			if v.Language == "" {
				v.Language = value
			}
		case "boardgamepublisher":
			if v.Publisher == "" {
				v.Publisher = value
			}
		case "boardgameartist":
			if v.Artist == "" {
				v.Artist = value
			}
		}
	}

	year, err := valueInt(el, "yearpublished")
	if err != nil {
		return nil, err
	}
	v.Year = intOr(year, 0)

	dims := []struct {
		path string
		dst  *float64
	}{
		{"width", &v.Width},
		{"length", &v.Length},
		{"depth", &v.Depth},
		{"weight", &v.Weight},
	}
	for _, d := range dims {
		f, err := valueFloat(el, d.path)
		if err != nil {
			return nil, err
		}
		*d.dst = floatOr(f, 0)
	}

	return v, nil
}
