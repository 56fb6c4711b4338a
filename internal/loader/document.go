package loader

import (
	"github.com/beevik/etree"
	"github.com/vytor/bggcollect/internal/errors"
)

// ParseDocument parses a UTF-8 XML response body. A body that is not XML or has
// no root element is an API error.
func ParseDocument(body []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, &errors.AppError{
			Code:    errors.ErrCodeAPI,
			Message: "malformed XML response",
			Status:  502,
			Err:     err,
		}
	}
	if doc.Root() == nil {
		return nil, errors.NewAPIError("XML response has no root element")
	}
	return doc, nil
}
