package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"kitchen-menu/models"

	"gopkg.in/yaml.v3"
)

// A replay script is a YAML document of the form
//
//	steps:
//	  - add: {name: Soup, description: Hot, price: 40, course: Starter}
//	  - search: soup
//	  - navigate: {filters: {vegetarian_only: true, max_price: 100}, course: Dessert}
//	  - clear_filters: true
//
// Each step becomes exactly one intent.
type Script struct {
	Steps []ScriptStep `yaml:"steps"`
}

type ScriptStep struct {
	Add          *scriptDraft   `yaml:"add"`
	Replace      *scriptDraft   `yaml:"replace"`
	Filters      *scriptFilters `yaml:"filters"`
	ClearFilters bool           `yaml:"clear_filters"`
	Course       string         `yaml:"course"`
	ClearCourse  bool           `yaml:"clear_course"`
	Search       *string        `yaml:"search"`
	Navigate     *scriptNav     `yaml:"navigate"`
}

type scriptDraft struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Vegetarian  bool   `yaml:"vegetarian"`
	Vegan       bool   `yaml:"vegan"`
	Course      string `yaml:"course"`
	Photo       string `yaml:"photo"`
}

type scriptFilters struct {
	VegetarianOnly bool  `yaml:"vegetarian_only"`
	VeganOnly      bool  `yaml:"vegan_only"`
	MaxPrice       int64 `yaml:"max_price"`
}

type scriptNav struct {
	Add          *scriptDraft   `yaml:"add"`
	Replace      *scriptDraft   `yaml:"replace"`
	Filters      *scriptFilters `yaml:"filters"`
	ClearFilters bool           `yaml:"clear_filters"`
	Course       string         `yaml:"course"`
	ClearCourse  bool           `yaml:"clear_course"`
}

// ParseScript decodes a replay script into intents. Drafts go through ValidateDraft,
// the same as drafts typed into the bot.
func ParseScript(r io.Reader) ([]Intent, error) {
	var sc Script
	if err := yaml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	intents := make([]Intent, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		in, err := st.intent()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		intents = append(intents, in)
	}
	return intents, nil
}

func (st ScriptStep) intent() (Intent, error) {
	var found []Intent
	if st.Add != nil {
		in, err := st.Add.addItem()
		if err != nil {
			return nil, err
		}
		found = append(found, in)
	}
	if st.Replace != nil {
		in, err := st.Replace.replaceItem()
		if err != nil {
			return nil, err
		}
		found = append(found, in)
	}
	if st.Filters != nil {
		found = append(found, ApplyFilters{Snapshot: st.Filters.snapshot()})
	}
	if st.ClearFilters {
		found = append(found, ApplyFilters{})
	}
	if st.Course != "" || st.ClearCourse {
		in, err := selectCourse(st.Course, st.ClearCourse)
		if err != nil {
			return nil, err
		}
		found = append(found, in)
	}
	if st.Search != nil {
		found = append(found, SetSearchTerm{Text: *st.Search})
	}
	if st.Navigate != nil {
		in, err := st.Navigate.transition()
		if err != nil {
			return nil, err
		}
		found = append(found, in)
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("empty step")
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("step has %d actions; use navigate to combine them", len(found))
	}
}

func (n scriptNav) transition() (Transition, error) {
	var t Transition
	if n.Add != nil {
		in, err := n.Add.addItem()
		if err != nil {
			return t, err
		}
		t.NewItem = &in
	}
	if n.Replace != nil {
		in, err := n.Replace.replaceItem()
		if err != nil {
			return t, err
		}
		t.EditedItem = &in
	}
	if n.Filters != nil && n.ClearFilters {
		return t, fmt.Errorf("navigate sets and clears filters at once")
	}
	if n.Filters != nil {
		t.Filters = &ApplyFilters{Snapshot: n.Filters.snapshot()}
	}
	if n.ClearFilters {
		t.Filters = &ApplyFilters{}
	}
	if n.Course != "" || n.ClearCourse {
		in, err := selectCourse(n.Course, n.ClearCourse)
		if err != nil {
			return t, err
		}
		t.Course = &in
	}
	if t.Empty() {
		return t, fmt.Errorf("navigate carries no payload")
	}
	return t, nil
}

func selectCourse(name string, clear bool) (SelectCourse, error) {
	if clear {
		if name != "" {
			return SelectCourse{}, fmt.Errorf("course set and cleared at once")
		}
		return SelectCourse{}, nil
	}
	c, ok := models.ParseCourse(name)
	if !ok {
		return SelectCourse{}, fmt.Errorf("unknown course %q", name)
	}
	return SelectCourse{Course: &c}, nil
}

func (f scriptFilters) snapshot() *models.FilterSnapshot {
	return &models.FilterSnapshot{VegetarianOnly: f.VegetarianOnly, VeganOnly: f.VeganOnly, MaxPrice: f.MaxPrice}
}

func (d scriptDraft) draft() (models.ItemDraft, error) {
	course, _ := models.ParseCourse(d.Course)
	out := models.ItemDraft{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Vegetarian:  d.Vegetarian,
		Vegan:       d.Vegan,
		Course:      course,
	}
	if d.Photo != "" {
		out.Photo = models.RemotePicture(d.Photo)
	}
	if err := ValidateDraft(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (d scriptDraft) addItem() (AddItem, error) {
	draft, err := d.draft()
	return AddItem{Draft: draft}, err
}

func (d scriptDraft) replaceItem() (ReplaceItem, error) {
	if d.ID == "" {
		return ReplaceItem{}, fmt.Errorf("replace needs an id")
	}
	draft, err := d.draft()
	return ReplaceItem{ID: d.ID, Draft: draft}, err
}

// StepResult is the outcome of one replayed intent.
type StepResult struct {
	Intent Intent
	View   View
	Err    error
}

// Replay dispatches intents in order and calls fn after each. Rejected intents are
// reported and replay continues; a dispatch failure (closed session, ctx) stops it.
func Replay(ctx context.Context, s *Session, intents []Intent, fn func(step int, r StepResult)) error {
	for i, in := range intents {
		view, err := s.Dispatch(ctx, in)
		if err != nil && (errors.Is(err, ErrSessionClosed) || ctx.Err() != nil) {
			return err
		}
		fn(i+1, StepResult{Intent: in, View: view, Err: err})
	}
	return nil
}
