package bot

import (
	"fmt"

	"kitchen-menu/config"
	"kitchen-menu/models"
	"kitchen-menu/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// filterEditor is the form state of an open filter screen. It is pre-populated from
// the session and only reaches the session again through Apply or Clear.
type filterEditor struct {
	Filters   models.FilterSnapshot
	Course    *models.Course
	MessageID int
}

func newFilterEditor(f models.FilterSnapshot, course *models.Course, limits config.FilterConfig) *filterEditor {
	e := &filterEditor{Filters: f, Course: course}
	e.Filters.MaxPrice = clampPrice(e.Filters.MaxPrice, limits)
	if !e.Filters.VegetarianOnly {
		e.Filters.VeganOnly = false
	}
	return e
}

func (e *filterEditor) toggleVegetarian() {
	e.Filters.VegetarianOnly = !e.Filters.VegetarianOnly
	if !e.Filters.VegetarianOnly {
		e.Filters.VeganOnly = false
	}
}

// toggleVegan only works while vegetarian is on; it reports whether anything changed.
func (e *filterEditor) toggleVegan() bool {
	if !e.Filters.VegetarianOnly {
		return false
	}
	e.Filters.VeganOnly = !e.Filters.VeganOnly
	return true
}

func (e *filterEditor) stepPrice(steps int64, limits config.FilterConfig) {
	e.Filters.MaxPrice = clampPrice(e.Filters.MaxPrice+steps*limits.PriceStep, limits)
}

func (e *filterEditor) pickCourse(c models.Course) {
	if e.Course != nil && *e.Course == c {
		e.Course = nil
		return
	}
	e.Course = models.CoursePtr(c)
}

// applyTransition builds the one navigation step back to the menu. The course payload
// is only included when the editor's choice differs from current, because SelectCourse
// toggles.
func (e *filterEditor) applyTransition(current *models.Course) services.Transition {
	t := services.Transition{
		Filters: &services.ApplyFilters{Snapshot: models.SnapshotPtr(e.Filters)},
	}
	if sc := courseChange(current, e.Course); sc != nil {
		t.Course = sc
	}
	return t
}

// courseChange returns the SelectCourse that moves the selection from current to wanted,
// or nil when they already match.
func courseChange(current, wanted *models.Course) *services.SelectCourse {
	switch {
	case wanted == nil && current == nil:
		return nil
	case wanted == nil:
		return &services.SelectCourse{}
	case current != nil && *current == *wanted:
		return nil
	default:
		return &services.SelectCourse{Course: models.CoursePtr(*wanted)}
	}
}

func clampPrice(p int64, limits config.FilterConfig) int64 {
	if p < limits.MinPrice {
		return limits.MinPrice
	}
	if p > limits.MaxPrice {
		return limits.MaxPrice
	}
	return p
}

func onOff(b bool) string {
	if b {
		return "✅"
	}
	return "⬜️"
}

func (e *filterEditor) text() string {
	course := "any"
	if e.Course != nil {
		course = string(*e.Course)
	}
	return fmt.Sprintf("⚙️ Filter Menu\n\nDietary Requirements\n%s Vegetarian\n%s Vegan\n\nPrice Range\nMax Price: %s\n\nCourse: %s",
		onOff(e.Filters.VegetarianOnly), onOff(e.Filters.VeganOnly), formatPrice(e.Filters.MaxPrice), course)
}

func (e *filterEditor) keyboard(limits config.FilterConfig) tgbotapi.InlineKeyboardMarkup {
	veganLabel := onOff(e.Filters.VeganOnly) + " Vegan"
	if !e.Filters.VegetarianOnly {
		veganLabel = "🚫 Vegan (needs vegetarian)"
	}
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(onOff(e.Filters.VegetarianOnly)+" Vegetarian", cbFilterVeg),
			tgbotapi.NewInlineKeyboardButtonData(veganLabel, cbFilterVegan),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("−%d", 5*limits.PriceStep), cbFilterPrice+"-5"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("−%d", limits.PriceStep), cbFilterPrice+"-1"),
			tgbotapi.NewInlineKeyboardButtonData(formatPrice(e.Filters.MaxPrice), cbNoop),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("+%d", limits.PriceStep), cbFilterPrice+"1"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("+%d", 5*limits.PriceStep), cbFilterPrice+"5"),
		),
	}
	rows = append(rows, courseRows(e.Course, cbFilterCourse)...)
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🧹 Clear Filters", cbFilterClear),
		tgbotapi.NewInlineKeyboardButtonData("✔️ Apply Filters", cbFilterApply),
	), tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("« Back", cbFilterCancel),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
