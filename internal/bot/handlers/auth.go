package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/api"
)

func (h *Handlers) handleLogin(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /login <email> <password>")
		return
	}

	creds, err := h.backend.Login(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			h.sendMessage(msg.Chat.ID, "Wrong email or password.")
			return
		}
		log.Printf("Login failed: %v", err)
		h.sendMessage(msg.Chat.ID, "Login failed, please try again.")
		return
	}

	h.saveCredentials(ctx, msg.Chat.ID, creds)
	name := creds.User.Name
	if name == "" {
		name = creds.User.Username
	}
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("Welcome back, %s! Try /calendar or /tasks.", name))
}

func (h *Handlers) handleRegister(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) < 3 {
		h.sendMessage(msg.Chat.ID, "Usage: /register <email> <password> <name>")
		return
	}
	email, password := args[0], args[1]
	name := strings.Join(args[2:], " ")

	creds, err := h.backend.Register(ctx, name, email, password)
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			h.sendMessage(msg.Chat.ID, "Registration failed: "+apiErr.Body)
			return
		}
		log.Printf("Register failed: %v", err)
		h.sendMessage(msg.Chat.ID, "Registration failed, please try again.")
		return
	}

	h.saveCredentials(ctx, msg.Chat.ID, creds)
	h.sendMessage(msg.Chat.ID, fmt.Sprintf("Account created. Welcome, %s!", name))
}

func (h *Handlers) saveCredentials(ctx context.Context, chatID int64, creds *api.Credentials) {
	userJSON, err := json.Marshal(creds.User)
	if err != nil {
		userJSON = nil
	}
	if err := h.sessions.SaveTokens(ctx, chatID, creds.Access, creds.Refresh, userJSON); err != nil {
		log.Printf("Failed to save tokens: %v", err)
	}
	// A fresh login means a fresh cache.
	h.dropStore(chatID)
}

func (h *Handlers) handleLogout(ctx context.Context, msg *tgbotapi.Message) {
	if err := h.sessions.ClearTokens(ctx, msg.Chat.ID); err != nil {
		log.Printf("Failed to clear tokens: %v", err)
		h.sendMessage(msg.Chat.ID, "Logout failed, please try again.")
		return
	}
	h.dropStore(msg.Chat.ID)
	h.sendMessage(msg.Chat.ID, "Signed out. Your preferences are kept.")
}

func (h *Handlers) handleProfile(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	profile, err := h.backend.Profile(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to fetch profile: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load your profile, please try again.")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s**\n", profile.Name))
	if profile.Username != "" {
		sb.WriteString(fmt.Sprintf("@%s\n", profile.Username))
	}
	sb.WriteString(profile.Email + "\n")
	if !profile.CreatedAt.IsZero() {
		sb.WriteString("Joined " + profile.CreatedAt.Format("January 2006"))
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}
