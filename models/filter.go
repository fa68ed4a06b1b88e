package models

// FilterSnapshot is the last applied dietary/price filter. A nil *FilterSnapshot means
// no filter is applied, which is not the same as a snapshot with both flags off.
type FilterSnapshot struct {
	VegetarianOnly bool
	VeganOnly      bool
	MaxPrice       int64 // inclusive
}

// CoursePtr returns a pointer to a copy of c.
func CoursePtr(c Course) *Course { return &c }

// SnapshotPtr returns a pointer to a copy of f.
func SnapshotPtr(f FilterSnapshot) *FilterSnapshot { return &f }
