package services

import (
	"errors"
	"strconv"
	"strings"

	"kitchen-menu/models"

	"github.com/go-playground/validator/v10"
)

// draftValidate checks drafts before they become intents. The engine never re-validates.
var draftValidate *validator.Validate

func init() {
	draftValidate = validator.New()
	_ = draftValidate.RegisterValidation("course", func(fl validator.FieldLevel) bool {
		return models.Course(fl.Field().String()).Valid()
	})
	draftValidate.RegisterStructValidation(func(sl validator.StructLevel) {
		d := sl.Current().Interface().(models.ItemDraft)
		if d.Vegan && !d.Vegetarian {
			sl.ReportError(d.Vegan, "Vegan", "Vegan", "veganrequiresvegetarian", "")
		}
	}, models.ItemDraft{})
}

// ValidateDraft trims the text fields of d in place and reports every rule it breaks.
func ValidateDraft(d *models.ItemDraft) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)

	err := draftValidate.Struct(*d)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(strings.ToLower(fe.Field()), reasonFor(fe.Tag()))
	}
	return verr
}

func reasonFor(tag string) string {
	switch tag {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than zero"
	case "course":
		return "is not a known course"
	case "veganrequiresvegetarian":
		return "a vegan dish must also be vegetarian"
	default:
		return "is invalid (" + tag + ")"
	}
}

// ParsePrice reads a price typed by a user, such as "250" or "R250".
func ParsePrice(text string) (int64, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "R"), "r")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, &ValidationError{Fields: map[string]string{"price": "is required"}}
	}
	price, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, &ValidationError{Fields: map[string]string{"price": "must be a whole number"}}
	}
	if price <= 0 {
		return 0, &ValidationError{Fields: map[string]string{"price": "must be greater than zero"}}
	}
	return price, nil
}
