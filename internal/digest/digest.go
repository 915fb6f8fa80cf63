// Package digest pushes a morning agenda to chats that opted in: today's
// events and due tasks, fetched fresh from the backend at send time.
package digest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"

	"github.com/studymate/studymate-bot/internal/api"
	"github.com/studymate/studymate-bot/internal/calendar"
	"github.com/studymate/studymate-bot/internal/format"
	"github.com/studymate/studymate-bot/internal/models"
	"github.com/studymate/studymate-bot/internal/session"
)

type Digest struct {
	tg       *tgbotapi.BotAPI
	backend  *api.Client
	sessions *session.Store
}

func New(tg *tgbotapi.BotAPI, backend *api.Client, sessions *session.Store) *Digest {
	return &Digest{tg: tg, backend: backend, sessions: sessions}
}

// Start runs the digest check once a minute until ctx is cancelled. A
// session receives at most one digest per calendar day, at the first minute
// matching its configured time.
func (d *Digest) Start(ctx context.Context) {
	c := cron.New()
	_, err := c.AddFunc("* * * * *", func() { d.run(ctx) })
	if err != nil {
		log.Printf("Failed to schedule digest: %v", err)
		return
	}
	c.Start()
	log.Println("Digest scheduler started")

	<-ctx.Done()
	<-c.Stop().Done()
}

func (d *Digest) run(ctx context.Context) {
	sessions, err := d.sessions.ListDigestEnabled(ctx)
	if err != nil {
		log.Printf("Failed to list digest sessions: %v", err)
		return
	}

	for _, sess := range sessions {
		if !sess.LoggedIn() {
			continue
		}
		now := time.Now().In(sess.Location())
		if now.Format("15:04") != sess.DigestTime {
			continue
		}
		if sess.LastDigestDate != nil && sameDay(*sess.LastDigestDate, now) {
			continue
		}
		if err := d.send(ctx, sess, now); err != nil {
			log.Printf("Failed to send digest to chat %d: %v", sess.ChatID, err)
			continue
		}
		if err := d.sessions.SetLastDigestDate(ctx, sess.ChatID, calendar.DayStart(now)); err != nil {
			log.Printf("Failed to record digest date for chat %d: %v", sess.ChatID, err)
		}
	}
}

func (d *Digest) send(ctx context.Context, sess *models.Session, now time.Time) error {
	events, err := d.backend.ListEvents(ctx, sess.AccessToken)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			// Stale token; the user will be prompted on their next command.
			return d.sessions.ClearTokens(ctx, sess.ChatID)
		}
		return err
	}

	todays := calendar.EventsOn(now, events)

	var dueTasks []models.Task
	if tasks, err := d.backend.ListTasks(ctx, sess.AccessToken); err == nil {
		for _, t := range tasks {
			if !t.IsCompleted() && (t.IsDueToday(now) || t.IsOverdue(now)) {
				dueTasks = append(dueTasks, t)
			}
		}
	}

	if len(todays) == 0 && len(dueTasks) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Good morning! Agenda for %s**\n\n", now.Format("Monday, Jan 2")))
	if len(todays) > 0 {
		sb.WriteString("**Events**\n")
		for _, ev := range todays {
			sb.WriteString(fmt.Sprintf("• %s — %s\n", ev.StartTime.In(sess.Location()).Format("15:04"), ev.Title))
		}
		sb.WriteString("\n")
	}
	if len(dueTasks) > 0 {
		sb.WriteString("**Tasks due**\n")
		for _, t := range dueTasks {
			sb.WriteString(fmt.Sprintf("• %s", t.Title))
			if t.IsOverdue(now) {
				sb.WriteString(" (overdue)")
			}
			sb.WriteString("\n")
		}
	}

	parsed := format.ParseMarkdown(sb.String())
	msg := tgbotapi.NewMessage(sess.ChatID, parsed.Text)
	msg.Entities = parsed.Entities
	_, err = d.tg.Send(msg)
	return err
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
