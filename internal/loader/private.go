package loader

import (
	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/models"
)

// parsePrivate reads the private ownership block of an item. Two shapes are
// accepted: <private> with one child element per field, and the live API's
// <privateinfo> which carries the same data as attributes.
func parsePrivate(item *etree.Element) (*models.PrivateData, error) {
	if el := item.SelectElement("private"); el != nil {
		return privateFromElements(el)
	}
	if el := item.SelectElement("privateinfo"); el != nil {
		return privateFromAttrs(el)
	}
	return nil, nil
}

func privateFromElements(el *etree.Element) (*models.PrivateData, error) {
	paid, err := childFloat(el, "paid")
	if err != nil {
		return nil, err
	}
	currValue, err := childFloat(el, "currvalue")
	if err != nil {
		return nil, err
	}
	return &models.PrivateData{
		Comment:      childTextOr(el, "comment", ""),
		Paid:         paid,
		Currency:     childTextOr(el, "currency", ""),
		CurrValue:    currValue,
		CVCurrency:   childTextOr(el, "cv_currency", ""),
		Quantity:     childTextOr(el, "quantity", ""),
		AcquiredOn:   childTextOr(el, "acquired_on", ""),
		AcquiredFrom: childTextOr(el, "acquired_from", ""),
		Location:     childTextOr(el, "location", ""),
	}, nil
}

func privateFromAttrs(el *etree.Element) (*models.PrivateData, error) {
	paid, err := attrFloat(el, "pricepaid")
	if err != nil {
		return nil, err
	}
	currValue, err := attrFloat(el, "currvalue")
	if err != nil {
		return nil, err
	}
	return &models.PrivateData{
		Comment:      childTextOr(el, "privatecomment", ""),
		Paid:         paid,
		Currency:     attrStringOr(el, "pp_currency", ""),
		CurrValue:    currValue,
		CVCurrency:   attrStringOr(el, "cv_currency", ""),
		Quantity:     attrStringOr(el, "quantity", ""),
		AcquiredOn:   attrStringOr(el, "acquisitiondate", ""),
		AcquiredFrom: attrStringOr(el, "acquiredfrom", ""),
		Location:     attrStringOr(el, "inventorylocation", ""),
	}, nil
}
