package services

import (
	"fmt"

	"kitchen-menu/models"

	"github.com/google/uuid"
)

// ItemSource is the read-only view of the catalog used by the view filter.
type ItemSource interface {
	Items() []models.MenuItem
}

// IDGenerator returns a new candidate item id.
type IDGenerator func() string

// NewItemID returns a time-ordered UUIDv7, falling back to a random UUID if the clock source fails.
func NewItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Catalog holds the menu items of one session, newest first. It is not safe for
// concurrent use; Session serialises access.
type Catalog struct {
	items []models.MenuItem
	index map[string]struct{}
	newID IDGenerator
}

// NewCatalog copies seed as the initial collection. Seed ids must be unique.
func NewCatalog(seed []models.MenuItem, newID IDGenerator) (*Catalog, error) {
	if newID == nil {
		newID = NewItemID
	}
	c := &Catalog{
		items: make([]models.MenuItem, 0, len(seed)),
		index: make(map[string]struct{}, len(seed)),
		newID: newID,
	}
	for _, it := range seed {
		if it.ID == "" {
			return nil, fmt.Errorf("seed item %q has no id", it.Name)
		}
		if _, dup := c.index[it.ID]; dup {
			return nil, fmt.Errorf("seed item id %q is duplicated", it.ID)
		}
		c.index[it.ID] = struct{}{}
		c.items = append(c.items, it)
	}
	return c, nil
}

// AddItem prepends a new item built from d and returns the updated collection.
func (c *Catalog) AddItem(d models.ItemDraft) []models.MenuItem {
	id := c.newID()
	for {
		if _, taken := c.index[id]; !taken && id != "" {
			break
		}
		id = c.newID()
	}
	pic := d.Photo
	if pic.IsZero() {
		pic = models.BundledPicture(models.PlaceholderAsset)
	}
	item := itemFromDraft(id, d, pic)

	c.items = append(c.items, models.MenuItem{})
	copy(c.items[1:], c.items)
	c.items[0] = item
	c.index[id] = struct{}{}
	return c.Items()
}

// ReplaceItem swaps the record with the given id for one built from d, keeping its
// position and, when d has no photo, its picture.
func (c *Catalog) ReplaceItem(id string, d models.ItemDraft) ([]models.MenuItem, error) {
	pos := c.position(id)
	if pos < 0 {
		return nil, fmt.Errorf("replace item %s: %w", id, ErrItemNotFound)
	}
	pic := d.Photo
	if pic.IsZero() {
		pic = c.items[pos].Picture
	}
	c.items[pos] = itemFromDraft(id, d, pic)
	return c.Items(), nil
}

// Items returns a copy of the collection in catalog order.
func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the item with the given id.
func (c *Catalog) Get(id string) (models.MenuItem, bool) {
	pos := c.position(id)
	if pos < 0 {
		return models.MenuItem{}, false
	}
	return c.items[pos], true
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

func (c *Catalog) position(id string) int {
	if _, ok := c.index[id]; !ok {
		return -1
	}
	for i := range c.items {
		if c.items[i].ID == id {
			return i
		}
	}
	return -1
}

func itemFromDraft(id string, d models.ItemDraft, pic models.Picture) models.MenuItem {
	return models.MenuItem{
		ID:          id,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Vegetarian:  d.Vegetarian,
		Vegan:       d.Vegan,
		Course:      d.Course,
		Picture:     pic,
	}
}
