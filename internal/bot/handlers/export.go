package handlers

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/ics"
)

// handleExport sends the user's events as an iCalendar file they can import
// into any calendar app.
func (h *Handlers) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	events, _, ok := h.loadEvents(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	if len(events) == 0 {
		h.sendMessage(msg.Chat.ID, "Nothing to export yet.")
		return
	}

	payload := ics.Export(events)
	doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{
		Name:  "studymate.ics",
		Bytes: []byte(payload),
	})
	doc.Caption = "Your StudyMate calendar"
	if _, err := h.tg.Send(doc); err != nil {
		log.Printf("Failed to send export: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not export your calendar, please try again.")
	}
}
