package services

import (
	"context"
	"os"
	"strings"
	"testing"

	"kitchen-menu/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	f, err := os.Open("testdata/script.yaml")
	require.NoError(t, err)
	defer f.Close()

	intents, err := ParseScript(f)
	require.NoError(t, err)
	require.Len(t, intents, 7)

	assert.Equal(t, SetSearchTerm{Text: "cake"}, intents[0])
	nav, ok := intents[1].(Transition)
	require.True(t, ok)
	assert.Equal(t, &models.FilterSnapshot{VegetarianOnly: true, MaxPrice: 100}, nav.Filters.Snapshot)
	assert.Equal(t, models.CourseDessert, *nav.Course.Course)
	assert.Nil(t, nav.NewItem)
	assert.Equal(t, SetSearchTerm{Text: ""}, intents[2])
	assert.Equal(t, KindReplaceItem, intents[3].Kind())
	assert.Equal(t, KindAddItem, intents[4].Kind())
	assert.Equal(t, ApplyFilters{}, intents[5])
	assert.Equal(t, KindSelectCourse, intents[6].Kind())
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"empty step", "steps:\n  - {}"},
		{"two actions", "steps:\n  - {search: a, course: Dessert}"},
		{"unknown course", "steps:\n  - course: Brunch"},
		{"invalid draft", "steps:\n  - add: {name: A, price: 10, course: Side}"},
		{"replace without id", "steps:\n  - replace: {name: A, description: B, price: 10, course: Side}"},
		{"empty navigate", "steps:\n  - navigate: {}"},
		{"set and clear filters", "steps:\n  - navigate: {filters: {max_price: 10}, clear_filters: true}"},
		{"set and clear course", "steps:\n  - course: Side\n    clear_course: true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tt.script))
			assert.Error(t, err)
		})
	}
}

func TestReplay(t *testing.T) {
	f, err := os.Open("testdata/script.yaml")
	require.NoError(t, err)
	defer f.Close()
	intents, err := ParseScript(f)
	require.NoError(t, err)

	s := newTestSession(t, nil)
	var results []StepResult
	err = Replay(context.Background(), s, intents, func(step int, r StepResult) {
		assert.Equal(t, len(results)+1, step)
		results = append(results, r)
	})
	require.NoError(t, err)
	require.Len(t, results, 7)

	for i := 0; i < 3; i++ {
		assert.Equal(t, []string{"Chocolate Lava Cake"}, names(results[i].View.Items), "step %d", i+1)
	}
	assert.ErrorIs(t, results[3].Err, ErrItemNotFound)

	assert.NoError(t, results[4].Err)
	assert.Equal(t, 4, results[4].View.Total)
	assert.Equal(t, []string{"Chocolate Lava Cake"}, names(results[4].View.Items))

	assert.Nil(t, results[5].View.Filters)
	assert.Equal(t, models.CourseDessert, *results[5].View.Course)

	assert.Nil(t, results[6].View.Course, "selecting the active course deselects it")
	assert.Equal(t, []string{"Tomato Soup", "Grilled Salmon", "Chocolate Lava Cake", "Coconut Rice Bowls"}, names(results[6].View.Items))
}

func TestReplayStopsOnClosedSession(t *testing.T) {
	s := NewSession("closed", newTestEngine(t, testMenu()), nil, nil)
	s.Close()
	calls := 0
	err := Replay(context.Background(), s, []Intent{SetSearchTerm{Text: "a"}}, func(int, StepResult) { calls++ })
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.Zero(t, calls)
}
