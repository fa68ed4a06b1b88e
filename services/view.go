package services

import (
	"strings"

	"kitchen-menu/models"
)

// DefaultMaxPrice pre-populates the filter editor when no filter is applied.
const DefaultMaxPrice int64 = 500

// ViewState is everything besides the catalog that decides which items are visible.
type ViewState struct {
	Filters *models.FilterSnapshot
	Course  *models.Course
	Search  string
}

// View is what a screen renders after an intent has been handled.
type View struct {
	Items   []models.MenuItem
	Filters *models.FilterSnapshot
	Course  *models.Course
	Search  string
	Total   int // catalog size before filtering
}

// Predicate keeps an item when it returns true.
type Predicate func(models.MenuItem) bool

// Predicates returns the active predicates for st in application order.
func Predicates(st ViewState) []Predicate {
	var ps []Predicate
	if term := strings.ToLower(st.Search); term != "" {
		ps = append(ps, func(it models.MenuItem) bool {
			return strings.Contains(strings.ToLower(it.Name), term) ||
				strings.Contains(strings.ToLower(it.Description), term)
		})
	}
	if f := st.Filters; f != nil {
		snap := *f
		if snap.VegetarianOnly {
			ps = append(ps, func(it models.MenuItem) bool { return it.Vegetarian })
		}
		if snap.VeganOnly {
			ps = append(ps, func(it models.MenuItem) bool { return it.Vegan })
		}
		// The ceiling applies whenever a snapshot is present, even with both flags off.
		ps = append(ps, func(it models.MenuItem) bool { return it.Price <= snap.MaxPrice })
	}
	if st.Course != nil {
		course := *st.Course
		ps = append(ps, func(it models.MenuItem) bool { return it.Course == course })
	}
	return ps
}

// Visible filters items by st without reordering. It is a pure function of its inputs.
func Visible(items []models.MenuItem, st ViewState) []models.MenuItem {
	ps := Predicates(st)
	out := make([]models.MenuItem, 0, len(items))
next:
	for _, it := range items {
		for _, keep := range ps {
			if !keep(it) {
				continue next
			}
		}
		out = append(out, it)
	}
	return out
}

// ViewFilter owns the filter snapshot, course selection and search term, and
// reconciles one-shot filter and course payloads through separate inboxes.
type ViewFilter struct {
	source ItemSource

	filters *models.FilterSnapshot
	course  *models.Course
	search  string

	filterBox inbox[*models.FilterSnapshot]
	courseBox inbox[*models.Course]

	visible []models.MenuItem
}

func NewViewFilter(source ItemSource) *ViewFilter {
	v := &ViewFilter{source: source}
	v.Recompute()
	return v
}

// OfferFilters places a filter payload (nil clears) in the filters inbox.
func (v *ViewFilter) OfferFilters(f *models.FilterSnapshot) bool {
	if f != nil {
		cp := *f
		f = &cp
	}
	return v.filterBox.put(f)
}

// OfferCourse places a course payload (nil clears) in the course inbox.
func (v *ViewFilter) OfferCourse(c *models.Course) bool {
	if c != nil {
		cp := *c
		c = &cp
	}
	return v.courseBox.put(c)
}

// Reconcile drains both inboxes independently and recomputes. It reports which
// channels carried a payload.
func (v *ViewFilter) Reconcile() (filtersApplied, courseApplied bool) {
	if f, ok := v.filterBox.take(); ok {
		v.filters = f
		filtersApplied = true
	}
	if c, ok := v.courseBox.take(); ok {
		v.course = toggleCourse(v.course, c)
		courseApplied = true
	}
	v.Recompute()
	return filtersApplied, courseApplied
}

// Discard drops any unconsumed payloads without applying them.
func (v *ViewFilter) Discard() {
	v.filterBox.discard()
	v.courseBox.discard()
}

// Pending reports whether either inbox still holds a payload.
func (v *ViewFilter) Pending() bool {
	return v.filterBox.hasPending() || v.courseBox.hasPending()
}

// SetSearchTerm replaces the live search term and recomputes.
func (v *ViewFilter) SetSearchTerm(term string) {
	v.search = term
	v.Recompute()
}

// Recompute rebuilds the visible sequence from scratch.
func (v *ViewFilter) Recompute() {
	v.visible = Visible(v.source.Items(), v.State())
}

// State returns a copy of the applied filters, course and search term.
func (v *ViewFilter) State() ViewState {
	return ViewState{Filters: cloneSnapshot(v.filters), Course: cloneCourse(v.course), Search: v.search}
}

// View returns the visible items together with the state that produced them.
func (v *ViewFilter) View() View {
	items := make([]models.MenuItem, len(v.visible))
	copy(items, v.visible)
	return View{
		Items:   items,
		Filters: cloneSnapshot(v.filters),
		Course:  cloneCourse(v.course),
		Search:  v.search,
		Total:   len(v.source.Items()),
	}
}

// FilterEditorState is the value a filter editor opens with.
func (v *ViewFilter) FilterEditorState(defaultMax int64) models.FilterSnapshot {
	return EditorDefaults(v.filters, defaultMax)
}

// EditorDefaults returns f, or an all-off snapshot with the given ceiling when f is nil.
func EditorDefaults(f *models.FilterSnapshot, defaultMax int64) models.FilterSnapshot {
	if f != nil {
		return *f
	}
	if defaultMax <= 0 {
		defaultMax = DefaultMaxPrice
	}
	return models.FilterSnapshot{MaxPrice: defaultMax}
}

// toggleCourse: nil clears, the current course deselects, any other course selects.
func toggleCourse(current, requested *models.Course) *models.Course {
	if requested == nil {
		return nil
	}
	if current != nil && *current == *requested {
		return nil
	}
	return requested
}

func cloneSnapshot(f *models.FilterSnapshot) *models.FilterSnapshot {
	if f == nil {
		return nil
	}
	cp := *f
	return &cp
}

func cloneCourse(c *models.Course) *models.Course {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
