package models

import (
	"fmt"
	"iter"
	"strings"

	"github.com/vytor/bggcollect/internal/errors"
)

// Collection is one user's collection. Items are only ever appended through
// AddGame, which is where item validation happens.
type Collection struct {
	owner string
	items []CollectionBoardGame
}

// NewCollection creates a collection for owner and adds items in order. Any
// invalid item fails the whole construction.
func NewCollection(owner string, items ...ItemData) (*Collection, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, errors.NewValidationError("owner", "cannot be empty")
	}
	c := &Collection{owner: owner, items: make([]CollectionBoardGame, 0, len(items))}
	for _, d := range items {
		if err := c.AddGame(d); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Collection) Owner() string { return c.owner }

// AddGame validates d and appends the resulting item.
func (c *Collection) AddGame(d ItemData) error {
	g, err := NewCollectionBoardGame(d)
	if err != nil {
		return err
	}
	c.items = append(c.items, g)
	return nil
}

func (c *Collection) Len() int { return len(c.items) }

// At returns a copy of the i-th item. It panics when i is out of range, like
// slice indexing.
func (c *Collection) At(i int) CollectionBoardGame { return c.items[i].clone() }

// Items returns copies of the items in insertion order.
func (c *Collection) Items() []CollectionBoardGame {
	out := make([]CollectionBoardGame, len(c.items))
	for i, g := range c.items {
		out[i] = g.clone()
	}
	return out
}

// All iterates over copies of the items in insertion order.
func (c *Collection) All() iter.Seq2[int, CollectionBoardGame] {
	return func(yield func(int, CollectionBoardGame) bool) {
		for i, g := range c.items {
			if !yield(i, g.clone()) {
				return
			}
		}
	}
}

func (c *Collection) String() string {
	return fmt.Sprintf("%s's collection, %d items", c.owner, len(c.items))
}

// Data exports the collection as plain values.
func (c *Collection) Data() map[string]any {
	items := make([]map[string]any, 0, len(c.items))
	for _, g := range c.items {
		items = append(items, g.Data())
	}
	return map[string]any{
		"owner": c.owner,
		"items": items,
	}
}
