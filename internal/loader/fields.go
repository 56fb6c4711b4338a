package loader

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/errors"
)

// Values BGG writes into numeric attributes when there is nothing to report.
var numericPlaceholders = map[string]bool{
	"N/A":        true,
	"Not Ranked": true,
}

func absent(s *string) bool {
	if s == nil {
		return true
	}
	v := strings.TrimSpace(*s)
	return v == "" || numericPlaceholders[v]
}

func childText(el *etree.Element, path string) *string {
	if el == nil {
		return nil
	}
	child := el.FindElement(path)
	if child == nil {
		return nil
	}
	text := child.Text()
	return &text
}

func childTextOr(el *etree.Element, path, def string) string {
	if s := childText(el, path); s != nil {
		return *s
	}
	return def
}

func childInt(el *etree.Element, path string, def int) (int, error) {
	s := childText(el, path)
	if absent(s) {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return def, errors.NewAPIErrorf("<%s> is not an integer: %q", path, *s)
	}
	return v, nil
}

func childFloat(el *etree.Element, path string) (*float64, error) {
	s := childText(el, path)
	if absent(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil, errors.NewAPIErrorf("<%s> is not a number: %q", path, *s)
	}
	return &v, nil
}

func attrString(el *etree.Element, key string) *string {
	if el == nil {
		return nil
	}
	a := el.SelectAttr(key)
	if a == nil {
		return nil
	}
	v := a.Value
	return &v
}

func attrStringOr(el *etree.Element, key, def string) string {
	if s := attrString(el, key); s != nil {
		return *s
	}
	return def
}

func attrInt(el *etree.Element, key string) (*int, error) {
	s := attrString(el, key)
	if absent(s) {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, errors.NewAPIErrorf("attribute %s of <%s> is not an integer: %q", key, el.Tag, *s)
	}
	return &v, nil
}

func attrFloat(el *etree.Element, key string) (*float64, error) {
	s := attrString(el, key)
	if absent(s) {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*s), 64)
	if err != nil {
		return nil, errors.NewAPIErrorf("attribute %s of <%s> is not a number: %q", key, el.Tag, *s)
	}
	return &v, nil
}

// valueAttr handles BGG's <tag value="..."/> pattern.
func valueAttr(el *etree.Element, path string) *etree.Element {
	if el == nil {
		return nil
	}
	return el.FindElement(path)
}

func valueString(el *etree.Element, path string) string {
	return attrStringOr(valueAttr(el, path), "value", "")
}

func valueInt(el *etree.Element, path string) (*int, error) {
	child := valueAttr(el, path)
	if child == nil {
		return nil, nil
	}
	return attrInt(child, "value")
}

func valueFloat(el *etree.Element, path string) (*float64, error) {
	child := valueAttr(el, path)
	if child == nil {
		return nil, nil
	}
	return attrFloat(child, "value")
}

func attrMap(el *etree.Element) map[string]string {
	if el == nil {
		return nil
	}
	out := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		out[a.Key] = a.Value
	}
	return out
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
