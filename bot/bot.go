package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"kitchen-menu/config"
	"kitchen-menu/models"
	"kitchen-menu/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Callback data prefixes.
const (
	cbNoop          = "noop"
	cbCourse        = "course:"
	cbEdit          = "edit:"
	cbPhoto         = "photo:"
	cbAdd           = "add"
	cbFilterOpen    = "filter:open"
	cbFilterVeg     = "f:veg"
	cbFilterVegan   = "f:vegan"
	cbFilterPrice   = "f:price:"
	cbFilterCourse  = "f:course:"
	cbFilterApply   = "f:apply"
	cbFilterClear   = "f:clear"
	cbFilterCancel  = "f:cancel"
	cbFlowVeg       = "flow:veg:"
	cbFlowVegan     = "flow:vegan:"
	cbFlowCourse    = "flow:course:"
	cbFlowSkipPhoto = "flow:skip"
	cbFlowCancel    = "flow:cancel"

	telegramFileScheme = "tg://file/"
	dispatchTimeout    = 5 * time.Second
)

// Bot is the chat front end: the menu, filter and add/edit screens. Each chat talks
// to its own session; the bot keeps only form state for screens that are open.
type Bot struct {
	api      *tgbotapi.BotAPI
	cfg      *config.Config
	sessions *services.Registry
	log      *zap.Logger

	flows   map[int64]*itemFlow
	editors map[int64]*filterEditor
	stateMu sync.RWMutex
}

func New(cfg *config.Config, sessions *services.Registry, log *zap.Logger) (*Bot, error) {
	if cfg.Telegram.Token == "" {
		return nil, errors.New("TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		cfg:      cfg,
		sessions: sessions,
		log:      log.Named("bot"),
		flows:    make(map[int64]*itemFlow),
		editors:  make(map[int64]*filterEditor),
	}, nil
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "menu", Description: "Show the menu"},
		tgbotapi.BotCommand{Command: "add", Description: "Add a dish"},
		tgbotapi.BotCommand{Command: "filter", Description: "Filter the menu"},
		tgbotapi.BotCommand{Command: "clear", Description: "Clear the search"},
		tgbotapi.BotCommand{Command: "cancel", Description: "Cancel the current step"},
	)
	_, err := b.api.Request(cfg)
	return err
}

// Start polls for updates until ctx is cancelled. Updates are handled one at a time.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.setBotCommands(); err != nil {
		b.log.Warn("set bot commands", zap.Error(err))
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil {
		return
	}
	msg := update.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case text == "/start" || text == "/menu":
		b.cancelFlows(chatID)
		b.showHome(ctx, chatID, 0)
		return
	case text == "/cancel":
		b.cancelFlows(chatID)
		b.send(chatID, "✅ Cancelled.")
		b.showHome(ctx, chatID, 0)
		return
	case text == "/add":
		b.startAdd(chatID)
		return
	case text == "/filter":
		b.openFilter(ctx, chatID, 0)
		return
	case text == "/clear":
		b.dispatch(ctx, chatID, services.SetSearchTerm{Text: ""})
		b.showHome(ctx, chatID, 0)
		return
	}

	if b.handleFlowMessage(ctx, msg, text) {
		return
	}
	if text == "" || strings.HasPrefix(text, "/") {
		b.showHome(ctx, chatID, 0)
		return
	}
	// Anything else typed on the menu screen is the live search term.
	if _, err := b.dispatch(ctx, chatID, services.SetSearchTerm{Text: text}); err == nil {
		b.showHome(ctx, chatID, 0)
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) int {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	sent, err := b.api.Send(msg)
	if err != nil {
		b.log.Error("send", zap.Int64("chat_id", chatID), zap.Error(err))
		return 0
	}
	return sent.MessageID
}

// showOrEdit edits messageID in place when set, falling back to a new message.
func (b *Bot) showOrEdit(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) int {
	if messageID > 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		_, err := b.api.Send(edit)
		if err == nil || strings.Contains(err.Error(), "not modified") {
			return messageID
		}
		b.log.Debug("edit failed, sending new message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
	return b.sendWithInline(chatID, text, kb)
}

func (b *Bot) session(chatID int64) (*services.Session, bool) {
	s, err := b.sessions.Session(chatID)
	if err != nil {
		b.log.Error("open session", zap.Int64("chat_id", chatID), zap.Error(err))
		b.send(chatID, "Something went wrong, please try /start again.")
		return nil, false
	}
	return s, true
}

func (b *Bot) dispatch(ctx context.Context, chatID int64, in services.Intent) (services.View, error) {
	s, ok := b.session(chatID)
	if !ok {
		return services.View{}, services.ErrSessionClosed
	}
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	view, err := s.Dispatch(ctx, in)
	if errors.Is(err, services.ErrSessionClosed) {
		// Evicted between lookup and dispatch; the next lookup starts a fresh session.
		if s, ok = b.session(chatID); ok {
			view, err = s.Dispatch(ctx, in)
		}
	}
	if err != nil {
		b.log.Warn("dispatch", zap.Int64("chat_id", chatID), zap.String("kind", in.Kind()), zap.Error(err))
	}
	return view, err
}

func (b *Bot) showHome(ctx context.Context, chatID int64, messageID int) {
	s, ok := b.session(chatID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	view, err := s.View(ctx)
	if err != nil {
		b.log.Warn("view", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}
	b.showOrEdit(chatID, messageID, menuText(view), homeKeyboard(view))
}

func (b *Bot) cancelFlows(chatID int64) {
	b.stateMu.Lock()
	delete(b.flows, chatID)
	delete(b.editors, chatID)
	b.stateMu.Unlock()
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	data := cq.Data
	toast := ""

	switch {
	case data == cbNoop:
	case strings.HasPrefix(data, cbCourse):
		course, ok := courseAt(strings.TrimPrefix(data, cbCourse))
		if !ok {
			break
		}
		if _, err := b.dispatch(ctx, chatID, services.SelectCourse{Course: &course}); err == nil {
			b.showHome(ctx, chatID, messageID)
		}
	case data == cbAdd:
		b.startAdd(chatID)
	case strings.HasPrefix(data, cbEdit):
		b.startEdit(ctx, chatID, strings.TrimPrefix(data, cbEdit))
	case strings.HasPrefix(data, cbPhoto):
		b.sendPicture(ctx, chatID, strings.TrimPrefix(data, cbPhoto))
	case data == cbFilterOpen:
		b.openFilter(ctx, chatID, 0)
	case strings.HasPrefix(data, "f:"):
		toast = b.handleFilterCallback(ctx, chatID, messageID, data)
	case strings.HasPrefix(data, "flow:"):
		b.handleFlowCallback(ctx, chatID, data)
	}

	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, toast)); err != nil {
		b.log.Debug("answer callback", zap.Error(err))
	}
}

// openFilter shows the filter screen pre-populated from the session.
func (b *Bot) openFilter(ctx context.Context, chatID int64, messageID int) {
	s, ok := b.session(chatID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	current, err := s.FilterEditorState(ctx, b.cfg.Filter.MaxPrice)
	if err != nil {
		return
	}
	view, err := s.View(ctx)
	if err != nil {
		return
	}
	ed := newFilterEditor(current, view.Course, b.cfg.Filter)
	ed.MessageID = b.showOrEdit(chatID, messageID, ed.text(), ed.keyboard(b.cfg.Filter))

	b.stateMu.Lock()
	delete(b.flows, chatID)
	b.editors[chatID] = ed
	b.stateMu.Unlock()
}

func (b *Bot) handleFilterCallback(ctx context.Context, chatID int64, messageID int, data string) string {
	b.stateMu.Lock()
	ed := b.editors[chatID]
	b.stateMu.Unlock()
	if ed == nil {
		b.openFilter(ctx, chatID, messageID)
		return ""
	}

	switch {
	case data == cbFilterVeg:
		ed.toggleVegetarian()
	case data == cbFilterVegan:
		if !ed.toggleVegan() {
			return "Must be vegetarian to be vegan"
		}
	case strings.HasPrefix(data, cbFilterPrice):
		steps, err := strconv.ParseInt(strings.TrimPrefix(data, cbFilterPrice), 10, 64)
		if err != nil {
			return ""
		}
		ed.stepPrice(steps, b.cfg.Filter)
	case strings.HasPrefix(data, cbFilterCourse):
		if c, ok := courseAt(strings.TrimPrefix(data, cbFilterCourse)); ok {
			ed.pickCourse(c)
		}
	case data == cbFilterApply:
		return b.applyFilter(ctx, chatID, messageID, ed)
	case data == cbFilterClear:
		b.closeEditor(chatID)
		if _, err := b.dispatch(ctx, chatID, services.Transition{Filters: &services.ApplyFilters{}}); err == nil {
			b.showHome(ctx, chatID, messageID)
		}
		return "Filters cleared"
	case data == cbFilterCancel:
		b.closeEditor(chatID)
		b.showHome(ctx, chatID, messageID)
		return ""
	}
	b.showOrEdit(chatID, messageID, ed.text(), ed.keyboard(b.cfg.Filter))
	return ""
}

func (b *Bot) applyFilter(ctx context.Context, chatID int64, messageID int, ed *filterEditor) string {
	s, ok := b.session(chatID)
	if !ok {
		return ""
	}
	vctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	view, err := s.View(vctx)
	cancel()
	if err != nil {
		return ""
	}
	b.closeEditor(chatID)
	if _, err := b.dispatch(ctx, chatID, ed.applyTransition(view.Course)); err != nil {
		return "Could not apply filters"
	}
	b.showHome(ctx, chatID, messageID)
	return "Filters applied"
}

func (b *Bot) closeEditor(chatID int64) {
	b.stateMu.Lock()
	delete(b.editors, chatID)
	b.stateMu.Unlock()
}

func (b *Bot) sendPicture(ctx context.Context, chatID int64, itemID string) {
	s, ok := b.session(chatID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	item, found, err := s.Item(ctx, itemID)
	if err != nil {
		return
	}
	if !found {
		b.send(chatID, "That dish is no longer on the menu.")
		return
	}
	photo := tgbotapi.NewPhoto(chatID, pictureFile(item.Picture, b.cfg.App.AssetsDir))
	photo.Caption = photoCaption(item)
	if _, err := b.api.Send(photo); err != nil {
		b.log.Warn("send picture", zap.String("item_id", itemID), zap.Error(err))
		b.send(chatID, "The picture for "+item.Name+" is not available.")
	}
}

// pictureFile resolves a picture to something Telegram can upload or reference.
func pictureFile(p models.Picture, assetsDir string) tgbotapi.RequestFileData {
	if p.IsZero() {
		p = models.BundledPicture(models.PlaceholderAsset)
	}
	switch p.Kind {
	case models.PictureRemote:
		if strings.HasPrefix(p.Ref, telegramFileScheme) {
			return tgbotapi.FileID(strings.TrimPrefix(p.Ref, telegramFileScheme))
		}
		return tgbotapi.FileURL(p.Ref)
	default:
		return tgbotapi.FilePath(filepath.Join(assetsDir, filepath.Base(p.Ref)))
	}
}

func (b *Bot) startAdd(chatID int64) {
	f := newAddFlow()
	b.stateMu.Lock()
	delete(b.editors, chatID)
	b.flows[chatID] = f
	b.stateMu.Unlock()
	b.send(chatID, "➕ Add New Item")
	b.promptFlow(chatID, f)
}

func (b *Bot) startEdit(ctx context.Context, chatID int64, itemID string) {
	s, ok := b.session(chatID)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	defer cancel()
	item, found, err := s.Item(ctx, itemID)
	if err != nil {
		return
	}
	if !found {
		b.send(chatID, "That dish is no longer on the menu.")
		return
	}
	f := newEditFlow(item)
	b.stateMu.Lock()
	delete(b.editors, chatID)
	b.flows[chatID] = f
	b.stateMu.Unlock()
	b.send(chatID, "✏️ Edit "+item.Name)
	b.promptFlow(chatID, f)
}

func (b *Bot) promptFlow(chatID int64, f *itemFlow) {
	text, kb := f.prompt()
	if text == "" {
		return
	}
	if kb != nil {
		b.sendWithInline(chatID, text, *kb)
		return
	}
	b.send(chatID, text)
}

func (b *Bot) flow(chatID int64) *itemFlow {
	b.stateMu.RLock()
	defer b.stateMu.RUnlock()
	return b.flows[chatID]
}

// handleFlowMessage feeds a message to the open add/edit flow. It reports whether the
// message was consumed.
func (b *Bot) handleFlowMessage(ctx context.Context, msg *tgbotapi.Message, text string) bool {
	chatID := msg.Chat.ID
	f := b.flow(chatID)
	if f == nil {
		return false
	}
	if f.Step == stepPhoto && len(msg.Photo) > 0 {
		f.acceptPhoto(telegramPicture(largestPhoto(msg.Photo)))
		b.finishFlow(ctx, chatID, f)
		return true
	}
	if retry := f.acceptText(text); retry != "" {
		b.send(chatID, retry)
	}
	if f.Step == stepDone {
		b.finishFlow(ctx, chatID, f)
		return true
	}
	b.promptFlow(chatID, f)
	return true
}

func (b *Bot) handleFlowCallback(ctx context.Context, chatID int64, data string) {
	if data == cbFlowCancel {
		b.cancelFlows(chatID)
		b.send(chatID, "✅ Cancelled.")
		b.showHome(ctx, chatID, 0)
		return
	}
	f := b.flow(chatID)
	if f == nil {
		return
	}
	switch {
	case strings.HasPrefix(data, cbFlowVeg):
		f.acceptVegetarian(strings.TrimPrefix(data, cbFlowVeg) == "yes")
	case strings.HasPrefix(data, cbFlowVegan):
		f.acceptVegan(strings.TrimPrefix(data, cbFlowVegan) == "yes")
	case strings.HasPrefix(data, cbFlowCourse):
		if c, ok := courseAt(strings.TrimPrefix(data, cbFlowCourse)); ok {
			f.acceptCourse(c)
		}
	case data == cbFlowSkipPhoto:
		f.acceptPhoto(models.Picture{})
	}
	if f.Step == stepDone {
		b.finishFlow(ctx, chatID, f)
		return
	}
	b.promptFlow(chatID, f)
}

func (b *Bot) finishFlow(ctx context.Context, chatID int64, f *itemFlow) {
	in, err := f.intent()
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			b.send(chatID, "⚠️ "+verr.Error()+"\nLet's go through it again.")
		}
		f.Step = stepName
		b.promptFlow(chatID, f)
		return
	}
	b.cancelFlows(chatID)

	_, err = b.dispatch(ctx, chatID, in)
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		b.send(chatID, "That dish is no longer on the menu.")
	case err != nil:
		b.send(chatID, "Could not save the dish, please try again.")
	case f.editing():
		b.send(chatID, "✅ Saved "+f.Draft.Name+".")
	default:
		b.send(chatID, "✅ Added "+f.Draft.Name+".")
	}
	b.showHome(ctx, chatID, 0)
}
