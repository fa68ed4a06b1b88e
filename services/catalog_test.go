package services

import (
	"testing"

	"kitchen-menu/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogRejectsBadSeed(t *testing.T) {
	tests := []struct {
		name string
		seed []models.MenuItem
	}{
		{"empty id", []models.MenuItem{{Name: "No id"}}},
		{"duplicate id", []models.MenuItem{salmon, {ID: salmon.ID, Name: "Copy"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.seed, nil)
			assert.Error(t, err)
		})
	}
}

func TestAddItemPrependsWithFreshID(t *testing.T) {
	c, err := NewCatalog(testMenu(), sequentialIDs())
	require.NoError(t, err)

	items := c.AddItem(soupDraft())

	require.Len(t, items, 4)
	assert.Equal(t, "new-1", items[0].ID)
	assert.Equal(t, "Tomato Soup", items[0].Name)
	assert.Equal(t, []string{"Tomato Soup", "Grilled Salmon", "Chocolate Lava Cake", "Coconut Rice Bowls"}, names(items))
}

func TestAddItemRedrawsCollidingIDs(t *testing.T) {
	ids := []string{"1", "", "3", "fresh"}
	next := 0
	gen := func() string {
		id := ids[next]
		next++
		return id
	}
	c, err := NewCatalog(testMenu(), gen)
	require.NoError(t, err)

	items := c.AddItem(soupDraft())
	assert.Equal(t, "fresh", items[0].ID)
	assert.Equal(t, 4, next)
}

func TestAddItemIDsAreUnique(t *testing.T) {
	c, err := NewCatalog(nil, nil)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		c.AddItem(soupDraft())
	}
	seen := map[string]bool{}
	for _, it := range c.Items() {
		assert.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
		_, err := uuid.Parse(it.ID)
		assert.NoError(t, err)
	}
	assert.Equal(t, 50, c.Len())
}

func TestAddItemPicture(t *testing.T) {
	c, err := NewCatalog(nil, sequentialIDs())
	require.NoError(t, err)

	items := c.AddItem(soupDraft())
	assert.Equal(t, models.BundledPicture(models.PlaceholderAsset), items[0].Picture)

	d := soupDraft()
	d.Photo = models.RemotePicture("https://example.com/soup.jpg")
	items = c.AddItem(d)
	assert.Equal(t, models.PictureRemote, items[0].Picture.Kind)
}

func TestReplaceItemKeepsPosition(t *testing.T) {
	seed := testMenu()
	seed[1].Picture = models.BundledPicture("lava-cake.jpeg")
	c, err := NewCatalog(seed, sequentialIDs())
	require.NoError(t, err)

	d := models.DraftOf(cake)
	d.Name = "Molten Cake"
	d.Price = 110
	d.Photo = models.Picture{}
	items, err := c.ReplaceItem(cake.ID, d)
	require.NoError(t, err)

	require.Len(t, items, 3)
	assert.Equal(t, cake.ID, items[1].ID)
	assert.Equal(t, "Molten Cake", items[1].Name)
	assert.Equal(t, int64(110), items[1].Price)
	assert.Equal(t, "lava-cake.jpeg", items[1].Picture.Ref, "picture kept when the draft has none")
}

func TestReplaceItemUnknownID(t *testing.T) {
	c, err := NewCatalog(testMenu(), sequentialIDs())
	require.NoError(t, err)

	items, err := c.ReplaceItem("missing", soupDraft())
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.Nil(t, items)
	assert.Equal(t, names(testMenu()), names(c.Items()))
}

func TestItemsReturnsCopy(t *testing.T) {
	c, err := NewCatalog(testMenu(), nil)
	require.NoError(t, err)

	items := c.Items()
	items[0].Name = "changed"
	got, ok := c.Get(salmon.ID)
	require.True(t, ok)
	assert.Equal(t, "Grilled Salmon", got.Name)
}
