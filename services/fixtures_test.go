package services

import (
	"fmt"
	"testing"

	"kitchen-menu/models"

	"github.com/stretchr/testify/require"
)

var (
	salmon = models.MenuItem{ID: "1", Name: "Grilled Salmon", Description: "With lemon and herbs", Price: 250, Course: models.CourseMain}
	cake   = models.MenuItem{ID: "3", Name: "Chocolate Lava Cake", Description: "Warm cake with a molten center", Price: 95, Vegetarian: true, Course: models.CourseDessert}
	bowl   = models.MenuItem{ID: "5", Name: "Coconut Rice Bowls", Description: "Fluffy coconut rice with tofu", Price: 160, Vegetarian: true, Vegan: true, Course: models.CourseStarter}
)

func testMenu() []models.MenuItem {
	return []models.MenuItem{salmon, cake, bowl}
}

// sequentialIDs returns an IDGenerator yielding "new-1", "new-2", ...
func sequentialIDs() IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}
}

func newTestEngine(t *testing.T, seed []models.MenuItem) *Engine {
	t.Helper()
	c, err := NewCatalog(seed, sequentialIDs())
	require.NoError(t, err)
	return NewEngine(c)
}

func soupDraft() models.ItemDraft {
	return models.ItemDraft{Name: "Tomato Soup", Description: "Roasted tomatoes", Price: 40, Vegetarian: true, Vegan: true, Course: models.CourseStarter}
}

func names(items []models.MenuItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
