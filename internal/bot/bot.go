package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/bot/handlers"
	"github.com/studymate/studymate-bot/internal/session"
	"github.com/studymate/studymate-bot/internal/speech"
)

type Bot struct {
	tg       *tgbotapi.BotAPI
	handlers *handlers.Handlers
}

func New(tg *tgbotapi.BotAPI, backend *api.Client, sessions *session.Store, transcriber *speech.Transcriber) (*Bot, error) {
	if tg == nil {
		return nil, fmt.Errorf("nil telegram api")
	}
	return &Bot{
		tg:       tg,
		handlers: handlers.New(tg, backend, sessions, transcriber),
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.tg.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.tg.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}

	switch {
	case msg.IsCommand():
		b.handlers.HandleCommand(ctx, msg)
	case msg.Voice != nil:
		b.handlers.HandleVoice(ctx, msg)
	case msg.Document != nil:
		b.handlers.HandleDocument(ctx, msg)
	case msg.Text != "":
		b.handlers.HandleText(ctx, msg)
	}
}
