package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/format"
	"github.com/studymate/studymate-bot/internal/models"
	"github.com/studymate/studymate-bot/internal/session"
	"github.com/studymate/studymate-bot/internal/speech"
	"github.com/studymate/studymate-bot/internal/store"
)

const pendingTTL = 5 * time.Minute

// pendingEdit tracks a chat that pressed Edit on an event and owes us the
// field lines.
type pendingEdit struct {
	EventID   models.ID
	Day       string // YYYY-MM-DD of the day view to return to
	ExpiresAt time.Time
}

// pendingTranscript holds a voice transcript waiting for the user to pick
// what to create from it.
type pendingTranscript struct {
	Text      string
	ExpiresAt time.Time
}

type Handlers struct {
	tg       *tgbotapi.BotAPI
	backend  *api.Client
	sessions *session.Store
	speech   *speech.Transcriber // nil when voice input is not configured

	storesMu sync.Mutex
	stores   map[int64]*store.EventStore

	// busy allows one in-flight creation per chat; duplicates are
	// rejected with a notice.
	busyMu sync.Mutex
	busy   map[int64]bool

	pendingMu          sync.RWMutex
	pendingEdits       map[int64]*pendingEdit
	pendingTranscripts map[int64]*pendingTranscript
}

func New(tg *tgbotapi.BotAPI, backend *api.Client, sessions *session.Store, transcriber *speech.Transcriber) *Handlers {
	return &Handlers{
		tg:                 tg,
		backend:            backend,
		sessions:           sessions,
		speech:             transcriber,
		stores:             make(map[int64]*store.EventStore),
		busy:               make(map[int64]bool),
		pendingEdits:       make(map[int64]*pendingEdit),
		pendingTranscripts: make(map[int64]*pendingTranscript),
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "register":
		h.handleRegister(ctx, msg)
	case "login":
		h.handleLogin(ctx, msg)
	case "logout":
		h.handleLogout(ctx, msg)
	case "profile":
		h.handleProfile(ctx, msg)
	case "calendar":
		h.handleCalendar(ctx, msg)
	case "week":
		h.handleWeek(ctx, msg)
	case "day":
		h.handleDay(ctx, msg)
	case "events":
		h.handleEvents(ctx, msg)
	case "newevent":
		h.handleNewEvent(ctx, msg)
	case "tasks":
		h.handleTasks(ctx, msg)
	case "task":
		h.handleTask(ctx, msg)
	case "newtask":
		h.handleNewTask(ctx, msg)
	case "deltask":
		h.handleDelTask(ctx, msg)
	case "dashboard":
		h.handleDashboard(ctx, msg)
	case "notes":
		h.handleNotes(ctx, msg)
	case "note":
		h.handleNote(ctx, msg)
	case "searchnotes":
		h.handleSearchNotes(ctx, msg)
	case "delnote":
		h.handleDelNote(ctx, msg)
	case "plans":
		h.handlePlans(ctx, msg)
	case "plan":
		h.handlePlan(ctx, msg)
	case "newplan":
		h.handleNewPlan(ctx, msg)
	case "delplan":
		h.handleDelPlan(ctx, msg)
	case "settings":
		h.handleSettings(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	case "cancel":
		h.handleCancel(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

// HandleText routes non-command text: it either completes a pending event
// edit or nudges the user toward commands.
func (h *Handlers) HandleText(ctx context.Context, msg *tgbotapi.Message) {
	h.pendingMu.RLock()
	edit, ok := h.pendingEdits[msg.Chat.ID]
	h.pendingMu.RUnlock()

	if ok && time.Now().Before(edit.ExpiresAt) {
		h.applyPendingEdit(ctx, msg, edit)
		return
	}
	if ok {
		h.clearPendingEdit(msg.Chat.ID)
		h.sendMessage(msg.Chat.ID, "The edit timed out. Open the event again to edit it.")
		return
	}
	h.sendMessage(msg.Chat.ID, "I work with commands — try /help. To dictate, send a voice message.")
}

// HandleCallbackQuery dispatches inline keyboard presses. Callback data is
// "scope:action:args...".
func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.tg.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}
	if callback.Message == nil {
		return
	}

	parts := strings.Split(callback.Data, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case "cal":
		h.handleCalendarCallback(ctx, callback, parts[1:])
	case "ev":
		h.handleEventCallback(ctx, callback, parts[1:])
	case "task":
		h.handleTaskCallback(ctx, callback, parts[1:])
	case "voice":
		h.handleVoiceCallback(ctx, callback, parts[1:])
	case "set":
		h.handleSettingsCallback(ctx, callback, parts[1:])
	}
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	if _, err := h.sessions.GetOrCreate(ctx, msg.Chat.ID); err != nil {
		log.Printf("Failed to create session: %v", err)
	}
	name := msg.From.FirstName
	if name == "" {
		name = "there"
	}
	text := fmt.Sprintf(`Hi %s! I'm StudyMate, your study assistant.

I keep your tasks, notes, calendar and study plans in one place.

First, connect your account:
/login <email> <password>
/register <email> <password> <name>

Then try /calendar, /tasks or /help for everything else.`, name)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `**Account**
/login <email> <password> — sign in
/register <email> <password> <name> — create an account
/profile — your profile
/logout — sign out

**Calendar**
/calendar [YYYY-MM] — month view
/week [YYYY-MM-DD] — week view
/day [YYYY-MM-DD] — day view
/events — all events
/newevent <description> — create from a description
/export — download your events as .ics

**Tasks**
/tasks [today|overdue|completed|<subject>] — list
/task <id> — details
/newtask <description> — create from a description
/deltask <id> [id...] — delete
/dashboard — overview

**Notes**
/notes, /note <id>, /delnote <id>
/searchnotes <query>
Send me a PDF to create a note from it.

**Study plans**
/plans, /plan <id>, /delplan <id>
/newplan <description> — create from a description

**Other**
/settings — dark mode, daily digest, timezone
Send a voice message to dictate an event, task or plan.`
	h.sendMarkdown(msg.Chat.ID, text)
}

func (h *Handlers) handleCancel(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	h.pendingMu.Lock()
	_, hadEdit := h.pendingEdits[chatID]
	_, hadTranscript := h.pendingTranscripts[chatID]
	delete(h.pendingEdits, chatID)
	delete(h.pendingTranscripts, chatID)
	h.pendingMu.Unlock()

	if hadEdit || hadTranscript {
		h.sendMessage(chatID, "Cancelled.")
		return
	}
	h.sendMessage(chatID, "Nothing to cancel.")
}

// session loads the chat's persisted state, hydrating it on first touch.
func (h *Handlers) session(ctx context.Context, chatID int64) (*models.Session, error) {
	return h.sessions.GetOrCreate(ctx, chatID)
}

// requireLogin replies with a login prompt when the chat has no tokens.
func (h *Handlers) requireLogin(ctx context.Context, chatID int64) (*models.Session, bool) {
	sess, err := h.session(ctx, chatID)
	if err != nil {
		log.Printf("Failed to load session: %v", err)
		h.sendMessage(chatID, "Something went wrong, please try again.")
		return nil, false
	}
	if !sess.LoggedIn() {
		h.sendMessage(chatID, "You're not signed in. Use /login <email> <password> first.")
		return nil, false
	}
	return sess, true
}

// authFailed handles a 401 from the backend: tokens are cleared and the
// user is told to sign in again. Returns true when err was an auth error.
func (h *Handlers) authFailed(ctx context.Context, chatID int64, err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	if clearErr := h.sessions.ClearTokens(ctx, chatID); clearErr != nil {
		log.Printf("Failed to clear tokens: %v", clearErr)
	}
	h.dropStore(chatID)
	h.sendMessage(chatID, "Your session expired. Please /login again.")
	return true
}

func isNotFound(err error) bool {
	return errors.Is(err, api.ErrNotFound)
}

// eventStore returns the chat's event cache, creating it on first use.
func (h *Handlers) eventStore(chatID int64) *store.EventStore {
	h.storesMu.Lock()
	defer h.storesMu.Unlock()
	s, ok := h.stores[chatID]
	if !ok {
		s = store.NewEventStore(h.backend)
		h.stores[chatID] = s
	}
	return s
}

func (h *Handlers) dropStore(chatID int64) {
	h.storesMu.Lock()
	delete(h.stores, chatID)
	h.storesMu.Unlock()
}

// tryAcquire marks the chat busy while a creation request is in flight.
func (h *Handlers) tryAcquire(chatID int64) bool {
	h.busyMu.Lock()
	defer h.busyMu.Unlock()
	if h.busy[chatID] {
		return false
	}
	h.busy[chatID] = true
	return true
}

func (h *Handlers) release(chatID int64) {
	h.busyMu.Lock()
	delete(h.busy, chatID)
	h.busyMu.Unlock()
}

func (h *Handlers) clearPendingEdit(chatID int64) {
	h.pendingMu.Lock()
	delete(h.pendingEdits, chatID)
	h.pendingMu.Unlock()
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.tg.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendMarkdown(chatID int64, text string) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	if _, err := h.tg.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) sendMarkdownWithKeyboard(chatID int64, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(chatID, parsed.Text)
	msg.Entities = parsed.Entities
	msg.ReplyMarkup = keyboard
	if _, err := h.tg.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) editMarkdown(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	parsed := format.ParseMarkdown(text)
	edit := tgbotapi.NewEditMessageText(chatID, messageID, parsed.Text)
	edit.Entities = parsed.Entities
	edit.ReplyMarkup = keyboard
	if _, err := h.tg.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}
