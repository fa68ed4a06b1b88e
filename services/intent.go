package services

import "kitchen-menu/models"

// Intent is one instruction from a screen. Each is handled exactly once.
type Intent interface {
	Kind() string
}

type AddItem struct {
	Draft models.ItemDraft
}

type ReplaceItem struct {
	ID    string
	Draft models.ItemDraft
}

// ApplyFilters sets the filter snapshot; a nil Snapshot clears it.
type ApplyFilters struct {
	Snapshot *models.FilterSnapshot
}

// SelectCourse toggles the course selection; a nil Course clears it.
type SelectCourse struct {
	Course *models.Course
}

type SetSearchTerm struct {
	Text string
}

// Transition is one navigation step back to the menu screen. Every non-nil payload
// is applied once, on its own channel.
type Transition struct {
	NewItem    *AddItem
	EditedItem *ReplaceItem
	Filters    *ApplyFilters
	Course     *SelectCourse
}

const (
	KindAddItem       = "add_item"
	KindReplaceItem   = "replace_item"
	KindApplyFilters  = "apply_filters"
	KindSelectCourse  = "select_course"
	KindSetSearchTerm = "set_search_term"
	KindTransition    = "transition"
)

func (AddItem) Kind() string       { return KindAddItem }
func (ReplaceItem) Kind() string   { return KindReplaceItem }
func (ApplyFilters) Kind() string  { return KindApplyFilters }
func (SelectCourse) Kind() string  { return KindSelectCourse }
func (SetSearchTerm) Kind() string { return KindSetSearchTerm }
func (Transition) Kind() string    { return KindTransition }

// Empty reports whether t carries no payload at all.
func (t Transition) Empty() bool {
	return t.NewItem == nil && t.EditedItem == nil && t.Filters == nil && t.Course == nil
}
