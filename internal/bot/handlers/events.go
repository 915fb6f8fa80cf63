package handlers

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/calendar"
	"github.com/studymate/studymate-bot/internal/models"
)

func (h *Handlers) handleEvents(ctx context.Context, msg *tgbotapi.Message) {
	events, sess, ok := h.loadEvents(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if len(events) == 0 {
		h.sendMessage(msg.Chat.ID, "No events yet. Create one with /newevent <description>.")
		return
	}

	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartTime.Before(sorted[j].StartTime.Time)
	})

	var sb strings.Builder
	sb.WriteString("**Your events**\n\n")
	for _, ev := range sorted {
		sb.WriteString(ev.StartTime.Format("Jan 2") + "  " + eventLine(ev, sess.DarkMode) + "\n")
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

// handleNewEvent forwards a free-text description to the backend, which
// infers title, times and type. The per-chat busy flag rejects a second
// creation while one is in flight.
func (h *Handlers) handleNewEvent(ctx context.Context, msg *tgbotapi.Message) {
	description := strings.TrimSpace(msg.CommandArguments())
	if description == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /newevent <description>\nExample: /newevent math exam next Friday 9am to 11am")
		return
	}

	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if !h.tryAcquire(msg.Chat.ID) {
		h.sendMessage(msg.Chat.ID, "Still working on your previous request, hold on.")
		return
	}
	defer h.release(msg.Chat.ID)

	if err := h.eventStore(msg.Chat.ID).Create(ctx, sess.AccessToken, description); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to create event: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not create the event, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Event created. See it with /calendar.")
}

// showDay renders the day detail view: every event of the selected day in
// its collapsed form, each expandable via the keyboard.
func (h *Handlers) showDay(ctx context.Context, chatID int64, messageID int, day time.Time) {
	events, sess, ok := h.loadEvents(ctx, chatID)
	if !ok {
		return
	}

	dayEvents := calendar.EventsOn(day, events)

	var sb strings.Builder
	sb.WriteString("**" + day.Format("Monday, January 2, 2006") + "**\n\n")
	if len(dayEvents) == 0 {
		sb.WriteString("No events on this day.")
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ev := range dayEvents {
		sb.WriteString(eventLine(ev, sess.DarkMode) + "\n")
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("▸ "+ev.Title,
				fmt.Sprintf("ev:exp:%s:%s", ev.ID, day.Format(dayKey))),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("◀", "cal:dprev:"+day.Format(dayKey)),
		tgbotapi.NewInlineKeyboardButtonData("Month", "cal:month:"+day.Format(monthKey)),
		tgbotapi.NewInlineKeyboardButtonData("▶", "cal:dnext:"+day.Format(dayKey)),
	})
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if messageID == 0 {
		h.sendMarkdownWithKeyboard(chatID, sb.String(), keyboard)
		return
	}
	h.editMarkdown(chatID, messageID, sb.String(), &keyboard)
}

// handleEventCallback drives the detail state machine: collapsed list →
// expanded event → editing, and the delete confirmation.
func (h *Handlers) handleEventCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	if len(parts) < 2 {
		return
	}
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	action := parts[0]

	if action == "back" {
		if day, err := time.ParseInLocation(dayKey, parts[1], time.Local); err == nil {
			h.showDay(ctx, chatID, messageID, day)
		}
		return
	}

	if len(parts) < 3 {
		return
	}
	id := models.ID(parts[1])
	dayStr := parts[2]

	switch action {
	case "exp":
		h.showExpandedEvent(ctx, chatID, messageID, id, dayStr)
	case "edit":
		h.beginEdit(ctx, chatID, id, dayStr)
	case "del":
		h.confirmDelete(chatID, messageID, id, dayStr)
	case "delok":
		h.deleteEvent(ctx, chatID, messageID, id, dayStr)
	}
}

// showExpandedEvent is the Expanded state: full details plus the edit and
// delete controls.
func (h *Handlers) showExpandedEvent(ctx context.Context, chatID int64, messageID int, id models.ID, dayStr string) {
	_, sess, ok := h.loadEvents(ctx, chatID)
	if !ok {
		return
	}
	ev, found := h.eventStore(chatID).Get(id)
	if !found {
		h.sendMessage(chatID, "Event not found.")
		return
	}

	var sb strings.Builder
	sb.WriteString("**" + ev.Title + "**\n")
	sb.WriteString(typeDot(sess.DarkMode, ev.Type()) + " " + ev.Type() + "\n")
	sb.WriteString(ev.StartTime.Format("Mon Jan 2, 15:04") + " – " + ev.EndTime.Format("15:04") + "\n")
	if ev.Description != "" {
		sb.WriteString("\n" + ev.Description + "\n")
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", fmt.Sprintf("ev:edit:%s:%s", id, dayStr)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("ev:del:%s:%s", id, dayStr)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◂ Back", "ev:back:"+dayStr),
		),
	)
	h.editMarkdown(chatID, messageID, sb.String(), &keyboard)
}

// beginEdit moves the event into the Editing state: the next text message
// from this chat is parsed as field updates.
func (h *Handlers) beginEdit(ctx context.Context, chatID int64, id models.ID, dayStr string) {
	h.pendingMu.Lock()
	h.pendingEdits[chatID] = &pendingEdit{
		EventID:   id,
		Day:       dayStr,
		ExpiresAt: time.Now().Add(pendingTTL),
	}
	h.pendingMu.Unlock()

	h.sendMarkdown(chatID, "Send the fields to change, one per line:\n"+
		"`title=New title`\n"+
		"`start=2026-01-15 10:00`\n"+
		"`end=2026-01-15 11:00`\n"+
		"`type=exam`\n"+
		"`description=...`\n\n"+
		"Only the lines you send are updated. /cancel to keep everything.")
}

// applyPendingEdit parses field=value lines into a partial update. Only the
// fields the user names are sent; the refreshed list is the source of truth.
func (h *Handlers) applyPendingEdit(ctx context.Context, msg *tgbotapi.Message, edit *pendingEdit) {
	h.clearPendingEdit(msg.Chat.ID)

	update := make(map[string]any)
	for _, line := range strings.Split(msg.Text, "\n") {
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(strings.ToLower(key))
		value = strings.TrimSpace(value)
		switch key {
		case "title":
			update["title"] = value
		case "description":
			update["description"] = value
		case "type":
			update["event_type"] = value
		case "start":
			update["start_time"] = value
		case "end":
			update["end_time"] = value
		}
	}
	if len(update) == 0 {
		h.sendMessage(msg.Chat.ID, "No recognizable fields. Nothing was changed.")
		return
	}

	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if err := h.eventStore(msg.Chat.ID).Update(ctx, sess.AccessToken, edit.EventID, update); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to update event: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not save the changes, please try again.")
		return
	}

	h.sendMessage(msg.Chat.ID, "Saved.")
	if day, err := time.ParseInLocation(dayKey, edit.Day, time.Local); err == nil {
		h.showDay(ctx, msg.Chat.ID, 0, day)
	}
}

func (h *Handlers) confirmDelete(chatID int64, messageID int, id models.ID, dayStr string) {
	ev, found := h.eventStore(chatID).Get(id)
	title := "this event"
	if found {
		title = "\"" + ev.Title + "\""
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Delete", fmt.Sprintf("ev:delok:%s:%s", id, dayStr)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Keep it", "ev:back:"+dayStr),
		),
	)
	h.editMarkdown(chatID, messageID, "Delete "+title+"? This cannot be undone.", &keyboard)
}

func (h *Handlers) deleteEvent(ctx context.Context, chatID int64, messageID int, id models.ID, dayStr string) {
	sess, ok := h.requireLogin(ctx, chatID)
	if !ok {
		return
	}
	if err := h.eventStore(chatID).Delete(ctx, sess.AccessToken, id); err != nil {
		if h.authFailed(ctx, chatID, err) {
			return
		}
		log.Printf("Failed to delete event: %v", err)
		h.sendMessage(chatID, "Could not delete the event, please try again.")
		return
	}
	if day, err := time.ParseInLocation(dayKey, dayStr, time.Local); err == nil {
		h.showDay(ctx, chatID, messageID, day)
	}
}
