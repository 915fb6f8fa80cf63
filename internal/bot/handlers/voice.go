package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleVoice runs the dictation flow: download the recording, transcribe
// it, then ask what to create from the transcript. The raw text is
// forwarded to the backend as-is; the backend does the interpreting.
func (h *Handlers) HandleVoice(ctx context.Context, msg *tgbotapi.Message) {
	if h.speech == nil {
		h.sendMessage(msg.Chat.ID, "Voice input isn't available on this bot. Type your request instead, e.g. /newevent <description>.")
		return
	}
	if _, ok := h.requireLogin(ctx, msg.Chat.ID); !ok {
		return
	}
	// Same gate as the listening flag: one recording at a time.
	if !h.tryAcquire(msg.Chat.ID) {
		h.sendMessage(msg.Chat.ID, "Still transcribing your previous recording, hold on.")
		return
	}
	defer h.release(msg.Chat.ID)

	url, err := h.tg.GetFileDirectURL(msg.Voice.FileID)
	if err != nil {
		log.Printf("Failed to resolve voice file URL: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the recording, please try again.")
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		log.Printf("Failed to build voice download request: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the recording, please try again.")
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("Failed to download voice recording: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not read the recording, please try again.")
		return
	}
	defer resp.Body.Close()

	transcript, err := h.speech.Transcribe(ctx, "voice.ogg", resp.Body)
	if err != nil {
		log.Printf("Failed to transcribe voice: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not transcribe the recording, please try again.")
		return
	}
	if transcript == "" {
		h.sendMessage(msg.Chat.ID, "I couldn't hear anything in that recording.")
		return
	}

	h.pendingMu.Lock()
	h.pendingTranscripts[msg.Chat.ID] = &pendingTranscript{
		Text:      transcript,
		ExpiresAt: time.Now().Add(pendingTTL),
	}
	h.pendingMu.Unlock()

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Event", "voice:event"),
			tgbotapi.NewInlineKeyboardButtonData("☑ Task", "voice:task"),
			tgbotapi.NewInlineKeyboardButtonData("📚 Plan", "voice:plan"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❌ Discard", "voice:cancel"),
		),
	)
	h.sendMarkdownWithKeyboard(msg.Chat.ID,
		"I heard:\n\n“"+transcript+"”\n\nWhat should I create from it?", keyboard)
}

func (h *Handlers) handleVoiceCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	action := parts[0]

	h.pendingMu.Lock()
	pending, ok := h.pendingTranscripts[chatID]
	delete(h.pendingTranscripts, chatID)
	h.pendingMu.Unlock()

	if action == "cancel" {
		h.editMarkdown(chatID, messageID, "Discarded.", nil)
		return
	}
	if !ok || time.Now().After(pending.ExpiresAt) {
		h.editMarkdown(chatID, messageID, "That transcript expired. Send the voice message again.", nil)
		return
	}

	sess, loggedIn := h.requireLogin(ctx, chatID)
	if !loggedIn {
		return
	}

	var err error
	var created string
	switch action {
	case "event":
		err = h.eventStore(chatID).Create(ctx, sess.AccessToken, pending.Text)
		created = "Event created. See it with /calendar."
	case "task":
		err = h.backend.CreateTask(ctx, sess.AccessToken, pending.Text)
		created = "Task created. See it with /tasks."
	case "plan":
		err = h.backend.CreatePlan(ctx, sess.AccessToken, pending.Text)
		created = "Study plan created. See it with /plans."
	default:
		return
	}

	if err != nil {
		if h.authFailed(ctx, chatID, err) {
			return
		}
		log.Printf("Failed to create from transcript: %v", err)
		h.editMarkdown(chatID, messageID, "That didn't work, please try again.", nil)
		return
	}
	h.editMarkdown(chatID, messageID, created, nil)
}
