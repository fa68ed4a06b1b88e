package models

import "strings"

// Course is the menu section a dish belongs to.
type Course string

const (
	CourseStarter Course = "Starter"
	CourseMain    Course = "Main Course"
	CourseDessert Course = "Dessert"
	CourseDrink   Course = "Drink"
	CourseSide    Course = "Side"
)

// Courses lists every course in display order.
var Courses = []Course{CourseStarter, CourseMain, CourseDessert, CourseDrink, CourseSide}

// ParseCourse matches a course by its display name, ignoring case and surrounding spaces.
func ParseCourse(s string) (Course, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Courses {
		if strings.EqualFold(string(c), s) {
			return c, true
		}
	}
	return "", false
}

// Valid reports whether c is one of Courses.
func (c Course) Valid() bool {
	for _, known := range Courses {
		if c == known {
			return true
		}
	}
	return false
}

// PictureKind tags the source of a dish picture.
type PictureKind int

const (
	PictureNone PictureKind = iota
	PictureBundled
	PictureRemote
)

// PlaceholderAsset is shown for dishes added without a photo.
const PlaceholderAsset = "placeholder.jpeg"

// Picture is either a bundled asset, a user-supplied photo reference, or nothing.
type Picture struct {
	Kind PictureKind
	Ref  string // asset file name or remote uri, depending on Kind
}

func BundledPicture(ref string) Picture { return Picture{Kind: PictureBundled, Ref: ref} }

func RemotePicture(uri string) Picture { return Picture{Kind: PictureRemote, Ref: uri} }

// IsZero reports whether no picture was supplied.
func (p Picture) IsZero() bool { return p.Kind == PictureNone || p.Ref == "" }

type MenuItem struct {
	ID          string
	Name        string
	Description string
	Price       int64 // whole rand
	Vegetarian  bool
	Vegan       bool
	Course      Course
	Picture     Picture
}

// ItemDraft carries every MenuItem field except the id. A zero Photo means "not supplied".
type ItemDraft struct {
	Name        string `validate:"required"`
	Description string `validate:"required"`
	Price       int64  `validate:"gt=0"`
	Vegetarian  bool
	Vegan       bool
	Course      Course `validate:"required,course"`
	Photo       Picture
}

// DraftOf returns a draft pre-filled from an existing item, keeping its picture.
func DraftOf(item MenuItem) ItemDraft {
	return ItemDraft{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Vegetarian:  item.Vegetarian,
		Vegan:       item.Vegan,
		Course:      item.Course,
		Photo:       item.Picture,
	}
}
