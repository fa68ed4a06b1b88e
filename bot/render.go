package bot

import (
	"fmt"
	"strconv"
	"strings"

	"kitchen-menu/models"
	"kitchen-menu/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	menuTitle    = "🍽 BigOne Kitchen"
	emptyMenuMsg = "No items found matching your criteria."
)

// formatPrice renders an amount the way the menu shows it, e.g. R250.
func formatPrice(p int64) string { return "R" + strconv.FormatInt(p, 10) }

func dietTags(it models.MenuItem) string {
	var tags []string
	if it.Vegetarian {
		tags = append(tags, "🌱 Veg")
	}
	if it.Vegan {
		tags = append(tags, "Vgn")
	}
	return strings.Join(tags, " ")
}

// describeFilters summarises the active snapshot, or "" when none is applied.
func describeFilters(f *models.FilterSnapshot) string {
	if f == nil {
		return ""
	}
	var parts []string
	if f.VegetarianOnly {
		parts = append(parts, "vegetarian")
	}
	if f.VeganOnly {
		parts = append(parts, "vegan")
	}
	parts = append(parts, "up to "+formatPrice(f.MaxPrice))
	return strings.Join(parts, ", ")
}

func menuText(v services.View) string {
	var sb strings.Builder
	sb.WriteString(menuTitle + "\n")
	if v.Search != "" {
		fmt.Fprintf(&sb, "🔎 Search: %q\n", v.Search)
	}
	if d := describeFilters(v.Filters); d != "" {
		sb.WriteString("⚙️ Filters: " + d + "\n")
	}
	if v.Course != nil {
		sb.WriteString("📋 Course: " + string(*v.Course) + "\n")
	}
	fmt.Fprintf(&sb, "Showing %d of %d\n", len(v.Items), v.Total)

	if len(v.Items) == 0 {
		sb.WriteString("\n" + emptyMenuMsg)
		return sb.String()
	}
	for i, it := range v.Items {
		fmt.Fprintf(&sb, "\n%d. %s - %s\n", i+1, it.Name, formatPrice(it.Price))
		line := string(it.Course)
		if tags := dietTags(it); tags != "" {
			line += " · " + tags
		}
		sb.WriteString("   " + line + "\n")
		sb.WriteString("   " + it.Description + "\n")
	}
	sb.WriteString("\nType to search. /clear resets the search.")
	return sb.String()
}

func courseLabel(c models.Course, selected *models.Course) string {
	if selected != nil && *selected == c {
		return "✅ " + string(c)
	}
	return string(c)
}

// courseRows lays the course buttons out three per row.
func courseRows(selected *models.Course, prefix string) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for i, c := range models.Courses {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(courseLabel(c, selected), prefix+strconv.Itoa(i)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func homeKeyboard(v services.View) tgbotapi.InlineKeyboardMarkup {
	rows := courseRows(v.Course, cbCourse)
	for _, it := range v.Items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ "+it.Name, cbEdit+it.ID),
			tgbotapi.NewInlineKeyboardButtonData("📷", cbPhoto+it.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⚙️ Filter", cbFilterOpen),
		tgbotapi.NewInlineKeyboardButtonData("➕ Add", cbAdd),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func photoCaption(it models.MenuItem) string {
	return it.Name + " - " + formatPrice(it.Price)
}

// courseAt maps a callback index back to a course.
func courseAt(idx string) (models.Course, bool) {
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(models.Courses) {
		return "", false
	}
	return models.Courses[i], true
}
