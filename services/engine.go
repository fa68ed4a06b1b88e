package services

import (
	"fmt"

	"kitchen-menu/models"
)

// Engine applies intents to one catalog and its view filter. It is single-threaded:
// callers must not use it from more than one goroutine (see Session).
type Engine struct {
	catalog *Catalog
	view    *ViewFilter
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog, view: NewViewFilter(catalog)}
}

// Handle applies in to completion and returns the recomputed view. On error the
// catalog and filter state are unchanged.
func (e *Engine) Handle(in Intent) (View, error) {
	switch it := in.(type) {
	case AddItem:
		return e.transition(Transition{NewItem: &it})
	case ReplaceItem:
		return e.transition(Transition{EditedItem: &it})
	case ApplyFilters:
		return e.transition(Transition{Filters: &it})
	case SelectCourse:
		return e.transition(Transition{Course: &it})
	case Transition:
		return e.transition(it)
	case SetSearchTerm:
		e.view.SetSearchTerm(it.Text)
		return e.view.View(), nil
	default:
		return e.view.View(), unknownIntent(in)
	}
}

// CheckIntent reports whether Handle accepts in. Intents are passed by value; nil and
// pointer intents are rejected.
func CheckIntent(in Intent) error {
	switch in.(type) {
	case AddItem, ReplaceItem, ApplyFilters, SelectCourse, Transition, SetSearchTerm:
		return nil
	default:
		return unknownIntent(in)
	}
}

func unknownIntent(in Intent) error {
	return fmt.Errorf("%w: %T", ErrUnknownIntent, in)
}

func (e *Engine) transition(t Transition) (View, error) {
	if t.EditedItem != nil {
		if _, ok := e.catalog.Get(t.EditedItem.ID); !ok {
			return e.view.View(), fmt.Errorf("replace item %s: %w", t.EditedItem.ID, ErrItemNotFound)
		}
	}
	if t.Filters != nil {
		e.view.OfferFilters(t.Filters.Snapshot)
	}
	if t.Course != nil {
		e.view.OfferCourse(t.Course.Course)
	}

	if t.NewItem != nil {
		e.catalog.AddItem(t.NewItem.Draft)
	}
	if t.EditedItem != nil {
		if _, err := e.catalog.ReplaceItem(t.EditedItem.ID, t.EditedItem.Draft); err != nil {
			e.view.Discard()
			return e.view.View(), err
		}
	}
	e.view.Reconcile()
	return e.view.View(), nil
}

// View returns the current view without changing anything.
func (e *Engine) View() View { return e.view.View() }

// FilterEditorState is what a filter editor opens with.
func (e *Engine) FilterEditorState(defaultMax int64) models.FilterSnapshot {
	return e.view.FilterEditorState(defaultMax)
}

// Item looks up a catalog item regardless of the current filters.
func (e *Engine) Item(id string) (models.MenuItem, bool) {
	return e.catalog.Get(id)
}
