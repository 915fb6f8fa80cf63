package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/models"
)

func (h *Handlers) handleSettings(ctx context.Context, msg *tgbotapi.Message) {
	sess, err := h.session(ctx, msg.Chat.ID)
	if err != nil {
		log.Printf("Failed to load session: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load your settings, please try again.")
		return
	}
	text, keyboard := settingsMain(sess)
	h.sendMarkdownWithKeyboard(msg.Chat.ID, text, keyboard)
}

func settingsMain(sess *models.Session) (string, tgbotapi.InlineKeyboardMarkup) {
	onOff := func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	}
	tz := sess.Timezone
	if tz == "" {
		tz = "system default"
	}
	text := fmt.Sprintf(`**Settings**

Dark mode: %s
Morning digest: %s at %s
Timezone: %s`,
		onOff(sess.DarkMode), onOff(sess.DigestEnabled), sess.DigestTime, tz)

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌓 Toggle dark mode", "set:dark"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📣 Toggle digest", "set:digest"),
			tgbotapi.NewInlineKeyboardButtonData("🕗 Digest time", "set:dtimes"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Timezone", "set:tzs"),
		),
	)
	return text, keyboard
}

func (h *Handlers) handleSettingsCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	sess, err := h.session(ctx, chatID)
	if err != nil {
		log.Printf("Failed to load session: %v", err)
		return
	}

	switch parts[0] {
	case "main":
		h.refreshSettings(ctx, chatID, messageID)

	case "dark":
		if err := h.sessions.SetDarkMode(ctx, chatID, !sess.DarkMode); err != nil {
			log.Printf("Failed to toggle dark mode: %v", err)
			return
		}
		h.refreshSettings(ctx, chatID, messageID)

	case "digest":
		if err := h.sessions.SetDigestEnabled(ctx, chatID, !sess.DigestEnabled); err != nil {
			log.Printf("Failed to toggle digest: %v", err)
			return
		}
		h.refreshSettings(ctx, chatID, messageID)

	case "dtimes":
		var rows [][]tgbotapi.InlineKeyboardButton
		var row []tgbotapi.InlineKeyboardButton
		for _, t := range []string{"06:00", "07:00", "08:00", "09:00", "12:00", "18:00", "20:00", "21:00"} {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(t, "set:dtime:"+t))
			if len(row) == 4 {
				rows = append(rows, row)
				row = nil
			}
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("◂ Back", "set:main"),
		})
		keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
		h.editMarkdown(chatID, messageID, "**When should the morning digest arrive?**", &keyboard)

	case "dtime":
		// The HH:MM value itself contains the callback separator.
		value := strings.Join(parts[1:], ":")
		if _, err := time.Parse("15:04", value); err != nil {
			return
		}
		if err := h.sessions.SetDigestTime(ctx, chatID, value); err != nil {
			log.Printf("Failed to set digest time: %v", err)
			return
		}
		h.refreshSettings(ctx, chatID, messageID)

	case "tzs":
		var rows [][]tgbotapi.InlineKeyboardButton
		for _, tz := range []string{"UTC", "Europe/London", "Europe/Berlin", "Asia/Kolkata", "Asia/Singapore", "America/New_York", "America/Los_Angeles"} {
			rows = append(rows, []tgbotapi.InlineKeyboardButton{
				tgbotapi.NewInlineKeyboardButtonData(tz, "set:tz:"+tz),
			})
		}
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("◂ Back", "set:main"),
		})
		keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
		h.editMarkdown(chatID, messageID, "**Pick your timezone**", &keyboard)

	case "tz":
		if len(parts) < 2 {
			return
		}
		if _, err := time.LoadLocation(parts[1]); err != nil {
			return
		}
		if err := h.sessions.SetTimezone(ctx, chatID, parts[1]); err != nil {
			log.Printf("Failed to set timezone: %v", err)
			return
		}
		h.refreshSettings(ctx, chatID, messageID)
	}
}

func (h *Handlers) refreshSettings(ctx context.Context, chatID int64, messageID int) {
	sess, err := h.session(ctx, chatID)
	if err != nil {
		log.Printf("Failed to load session: %v", err)
		return
	}
	text, keyboard := settingsMain(sess)
	h.editMarkdown(chatID, messageID, text, &keyboard)
}
