package bot

import (
	"fmt"
	"strings"

	"kitchen-menu/models"
	"kitchen-menu/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	stepName        = "name"
	stepDescription = "description"
	stepPrice       = "price"
	stepVegetarian  = "vegetarian"
	stepVegan       = "vegan"
	stepCourse      = "course"
	stepPhoto       = "photo"
	stepDone        = "done"

	keepValue = "-"
	skipWord  = "skip"
)

// itemFlow is the add/edit conversation for one chat. EditID is empty when adding.
type itemFlow struct {
	Step   string
	EditID string
	Draft  models.ItemDraft
}

func newAddFlow() *itemFlow { return &itemFlow{Step: stepName} }

func newEditFlow(item models.MenuItem) *itemFlow {
	return &itemFlow{Step: stepName, EditID: item.ID, Draft: models.DraftOf(item)}
}

func (f *itemFlow) editing() bool { return f.EditID != "" }

// acceptText consumes a typed answer for the text steps. A rejected answer leaves the
// step unchanged and returns the message to show; "" means accepted.
func (f *itemFlow) acceptText(text string) (retry string) {
	text = strings.TrimSpace(text)
	keep := f.editing() && text == keepValue
	switch f.Step {
	case stepName:
		if !keep {
			if text == "" {
				return "Please send the dish name."
			}
			f.Draft.Name = text
		}
		f.Step = stepDescription
	case stepDescription:
		if !keep {
			if text == "" {
				return "Please send a short description."
			}
			f.Draft.Description = text
		}
		f.Step = stepPrice
	case stepPrice:
		if !keep {
			price, err := services.ParsePrice(text)
			if err != nil {
				return "Price must be a valid number greater than zero."
			}
			f.Draft.Price = price
		}
		f.Step = stepVegetarian
	case stepPhoto:
		if !strings.EqualFold(text, skipWord) {
			return "Send a photo, or type skip."
		}
		f.acceptPhoto(models.Picture{})
	default:
		return "Please use the buttons below."
	}
	return ""
}

func (f *itemFlow) acceptVegetarian(yes bool) {
	if f.Step != stepVegetarian {
		return
	}
	f.Draft.Vegetarian = yes
	if !yes {
		f.Draft.Vegan = false
		f.Step = stepCourse
		return
	}
	f.Step = stepVegan
}

func (f *itemFlow) acceptVegan(yes bool) {
	if f.Step != stepVegan {
		return
	}
	f.Draft.Vegan = yes && f.Draft.Vegetarian
	f.Step = stepCourse
}

func (f *itemFlow) acceptCourse(c models.Course) {
	if f.Step != stepCourse {
		return
	}
	f.Draft.Course = c
	f.Step = stepPhoto
}

// acceptPhoto takes a picture (zero to skip, which keeps the current one when editing).
func (f *itemFlow) acceptPhoto(p models.Picture) {
	if f.Step != stepPhoto {
		return
	}
	if !p.IsZero() {
		f.Draft.Photo = p
	} else if !f.editing() {
		f.Draft.Photo = models.Picture{}
	}
	f.Step = stepDone
}

// intent validates the finished draft and returns the intent to dispatch.
func (f *itemFlow) intent() (services.Intent, error) {
	draft := f.Draft
	if err := services.ValidateDraft(&draft); err != nil {
		return nil, err
	}
	if f.editing() {
		return services.Transition{EditedItem: &services.ReplaceItem{ID: f.EditID, Draft: draft}}, nil
	}
	return services.Transition{NewItem: &services.AddItem{Draft: draft}}, nil
}

// prompt returns the question and keyboard for the current step.
func (f *itemFlow) prompt() (string, *tgbotapi.InlineKeyboardMarkup) {
	cancel := tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("✖️ Cancel", cbFlowCancel))
	keepHint := ""
	if f.editing() {
		keepHint = "\n(send - to keep the current value)"
	}
	switch f.Step {
	case stepName:
		text := "Dish Name (e.g. Grilled Salmon)" + keepHint
		if f.editing() {
			text = fmt.Sprintf("Dish Name, currently %q%s", f.Draft.Name, keepHint)
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(cancel)
		return text, &kb
	case stepDescription:
		text := "Description (e.g. With lemon and herbs)" + keepHint
		if f.editing() {
			text = fmt.Sprintf("Description, currently %q%s", f.Draft.Description, keepHint)
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(cancel)
		return text, &kb
	case stepPrice:
		text := "Price (R)" + keepHint
		if f.editing() {
			text = fmt.Sprintf("Price (R), currently %s%s", formatPrice(f.Draft.Price), keepHint)
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(cancel)
		return text, &kb
	case stepVegetarian:
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🌱 Yes", cbFlowVeg+"yes"),
				tgbotapi.NewInlineKeyboardButtonData("No", cbFlowVeg+"no"),
			),
			cancel,
		)
		return "Is it vegetarian?", &kb
	case stepVegan:
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Yes", cbFlowVegan+"yes"),
				tgbotapi.NewInlineKeyboardButtonData("No", cbFlowVegan+"no"),
			),
			cancel,
		)
		return "Is it vegan?", &kb
	case stepCourse:
		rows := courseRows(nil, cbFlowCourse)
		if f.editing() {
			rows = courseRows(&f.Draft.Course, cbFlowCourse)
		}
		rows = append(rows, cancel)
		kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
		return "Which course?", &kb
	case stepPhoto:
		label := "Skip (placeholder picture)"
		if f.editing() {
			label = "Keep current picture"
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, cbFlowSkipPhoto)),
			cancel,
		)
		return "Send a photo of the dish, or type skip.", &kb
	default:
		return "", nil
	}
}

// telegramPicture wraps a Telegram file id as a remote picture reference.
func telegramPicture(fileID string) models.Picture {
	return models.RemotePicture(telegramFileScheme + fileID)
}

// largestPhoto returns the file id of the biggest size Telegram sent.
func largestPhoto(sizes []tgbotapi.PhotoSize) string {
	best, bestArea := "", -1
	for _, s := range sizes {
		if a := s.Width * s.Height; a > bestArea {
			best, bestArea = s.FileID, a
		}
	}
	return best
}
