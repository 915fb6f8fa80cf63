package handlers

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/studymate/studymate-bot/internal/calendar"
	"github.com/studymate/studymate-bot/internal/format"
	"github.com/studymate/studymate-bot/internal/models"
)

const (
	monthKey = "2006-01"
	dayKey   = "2006-01-02"
)

func (h *Handlers) handleCalendar(ctx context.Context, msg *tgbotapi.Message) {
	ref := time.Now()
	if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
		parsed, err := time.ParseInLocation(monthKey, arg, time.Local)
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Usage: /calendar [YYYY-MM]")
			return
		}
		ref = parsed
	}
	h.showMonth(ctx, msg.Chat.ID, 0, ref)
}

func (h *Handlers) handleWeek(ctx context.Context, msg *tgbotapi.Message) {
	ref, ok := h.parseDayArg(msg, "/week [YYYY-MM-DD]")
	if !ok {
		return
	}
	h.showWeek(ctx, msg.Chat.ID, 0, ref)
}

func (h *Handlers) handleDay(ctx context.Context, msg *tgbotapi.Message) {
	ref, ok := h.parseDayArg(msg, "/day [YYYY-MM-DD]")
	if !ok {
		return
	}
	h.showDay(ctx, msg.Chat.ID, 0, ref)
}

func (h *Handlers) parseDayArg(msg *tgbotapi.Message, usage string) (time.Time, bool) {
	arg := strings.TrimSpace(msg.CommandArguments())
	if arg == "" {
		return time.Now(), true
	}
	parsed, err := time.ParseInLocation(dayKey, arg, time.Local)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Usage: "+usage)
		return time.Time{}, false
	}
	return parsed, true
}

func (h *Handlers) handleCalendarCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID
	action := parts[0]

	parseRef := func(layout string) (time.Time, bool) {
		if len(parts) < 2 {
			return time.Time{}, false
		}
		t, err := time.ParseInLocation(layout, parts[1], time.Local)
		return t, err == nil
	}

	switch action {
	case "prev", "next":
		ref, ok := parseRef(monthKey)
		if !ok {
			return
		}
		w := calendar.Window{Ref: ref, Mode: calendar.ModeMonth}
		if action == "prev" {
			w = w.PrevMonth()
		} else {
			w = w.NextMonth()
		}
		h.showMonth(ctx, chatID, messageID, w.Ref)
	case "today":
		h.showMonth(ctx, chatID, messageID, time.Now())
	case "month":
		if ref, ok := parseRef(monthKey); ok {
			h.showMonth(ctx, chatID, messageID, ref)
		}
	case "day":
		if ref, ok := parseRef(dayKey); ok {
			h.showDay(ctx, chatID, messageID, ref)
		}
	case "dprev", "dnext":
		ref, ok := parseRef(dayKey)
		if !ok {
			return
		}
		w := calendar.Window{Ref: ref, Mode: calendar.ModeDay}
		if action == "dprev" {
			w = w.PrevDay()
		} else {
			w = w.NextDay()
		}
		h.showDay(ctx, chatID, messageID, w.Ref)
	case "week":
		if ref, ok := parseRef(dayKey); ok {
			h.showWeek(ctx, chatID, messageID, ref)
		}
	case "wprev", "wnext":
		ref, ok := parseRef(dayKey)
		if !ok {
			return
		}
		w := calendar.Window{Ref: ref, Mode: calendar.ModeWeek}
		if action == "wprev" {
			w = w.PrevWeek()
		} else {
			w = w.NextWeek()
		}
		h.showWeek(ctx, chatID, messageID, w.Ref)
	}
}

// loadEvents fetches the chat's cached event list, handling auth expiry and
// fetch failures with user-facing errors. ok is false when a reply was
// already sent.
func (h *Handlers) loadEvents(ctx context.Context, chatID int64) (events []models.Event, sess *models.Session, ok bool) {
	sess, ok = h.requireLogin(ctx, chatID)
	if !ok {
		return nil, nil, false
	}
	events, err := h.eventStore(chatID).Events(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, chatID, err) {
			return nil, nil, false
		}
		log.Printf("Failed to fetch events: %v", err)
		h.sendMessage(chatID, "Could not load your events, please try again.")
		return nil, nil, false
	}
	return events, sess, true
}

// showMonth renders the month grid. messageID 0 sends a new message,
// otherwise the existing one is edited in place.
func (h *Handlers) showMonth(ctx context.Context, chatID int64, messageID int, ref time.Time) {
	events, sess, ok := h.loadEvents(ctx, chatID)
	if !ok {
		return
	}

	now := time.Now()
	cells := calendar.BuildGrid(ref, events, now)

	title := ref.Format("January 2006")
	grid := renderMonthGrid(cells)
	legend := renderMonthLegend(ref, cells, sess.DarkMode)

	text := title + "\n" + grid
	entities := []tgbotapi.MessageEntity{
		{Type: "bold", Offset: 0, Length: format.UTF16Len(title)},
		{Type: "pre", Offset: format.UTF16Len(title + "\n"), Length: format.UTF16Len(grid)},
	}
	if legend != "" {
		text += "\n" + legend
	}

	keyboard := monthKeyboard(ref, cells)

	if messageID == 0 {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.Entities = entities
		msg.ReplyMarkup = keyboard
		if _, err := h.tg.Send(msg); err != nil {
			log.Printf("Failed to send month view: %v", err)
		}
		return
	}
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.Entities = entities
	edit.ReplyMarkup = &keyboard
	if _, err := h.tg.Send(edit); err != nil {
		log.Printf("Failed to edit month view: %v", err)
	}
}

// renderMonthGrid lays the cells out in seven four-character columns.
// Today is bracketed, days with events carry a trailing dot.
func renderMonthGrid(cells []calendar.Cell) string {
	var sb strings.Builder
	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		sb.WriteString(" " + wd + " ")
	}
	sb.WriteString("\n")
	for i, cell := range cells {
		switch {
		case cell.Blank:
			sb.WriteString("    ")
		case cell.IsToday:
			sb.WriteString(fmt.Sprintf("[%2d]", cell.Day))
		case cell.Count > 0:
			sb.WriteString(fmt.Sprintf(" %2d·", cell.Day))
		default:
			sb.WriteString(fmt.Sprintf(" %2d ", cell.Day))
		}
		if (i+1)%7 == 0 {
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// renderMonthLegend lists the days that have events, showing up to
// MaxIndicators type dots and a +N overflow count.
func renderMonthLegend(ref time.Time, cells []calendar.Cell, dark bool) string {
	var sb strings.Builder
	for _, cell := range cells {
		if cell.Blank || cell.Count == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s %2d: ", ref.Format("Jan"), cell.Day))
		for i, t := range cell.Types {
			if i >= calendar.MaxIndicators {
				break
			}
			sb.WriteString(typeDot(dark, t))
		}
		if cell.Count > calendar.MaxIndicators {
			sb.WriteString(fmt.Sprintf(" +%d", cell.Count-calendar.MaxIndicators))
		}
		if cell.Count == 1 {
			sb.WriteString(" (1 event)")
		} else {
			sb.WriteString(fmt.Sprintf(" (%d events)", cell.Count))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// typeDot maps an event type to its indicator. Dark mode uses colored
// emoji, light mode plain ASCII.
func typeDot(dark bool, eventType string) string {
	if dark {
		switch eventType {
		case models.EventTypeDeadline:
			return "🔴"
		case models.EventTypeExam:
			return "🟣"
		case models.EventTypeMeeting:
			return "🔵"
		default:
			return "⚪"
		}
	}
	switch eventType {
	case models.EventTypeDeadline:
		return "!"
	case models.EventTypeExam:
		return "*"
	case models.EventTypeMeeting:
		return "o"
	default:
		return "•"
	}
}

func monthKeyboard(ref time.Time, cells []calendar.Cell) tgbotapi.InlineKeyboardMarkup {
	month := ref.Format(monthKey)
	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("◀", "cal:prev:"+month),
			tgbotapi.NewInlineKeyboardButtonData("Today", "cal:today"),
			tgbotapi.NewInlineKeyboardButtonData("▶", "cal:next:"+month),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("Week view", "cal:week:"+ref.Format(dayKey)),
		},
	}

	// Direct buttons for days with events, a handful at most.
	var dayButtons []tgbotapi.InlineKeyboardButton
	for _, cell := range cells {
		if cell.Blank || cell.Count == 0 {
			continue
		}
		if len(dayButtons) == 8 {
			break
		}
		date := time.Date(ref.Year(), ref.Month(), cell.Day, 0, 0, 0, 0, ref.Location())
		label := fmt.Sprintf("%d (%d)", cell.Day, cell.Count)
		dayButtons = append(dayButtons, tgbotapi.NewInlineKeyboardButtonData(label, "cal:day:"+date.Format(dayKey)))
	}
	for i := 0; i < len(dayButtons); i += 4 {
		end := i + 4
		if end > len(dayButtons) {
			end = len(dayButtons)
		}
		rows = append(rows, dayButtons[i:end])
	}

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (h *Handlers) showWeek(ctx context.Context, chatID int64, messageID int, ref time.Time) {
	events, sess, ok := h.loadEvents(ctx, chatID)
	if !ok {
		return
	}

	days := calendar.WeekDays(ref)
	title := fmt.Sprintf("Week of %s – %s",
		days[0].Format("Jan 2"), days[6].Format("Jan 2, 2006"))

	var sb strings.Builder
	sb.WriteString("**" + title + "**\n\n")
	var dayButtons []tgbotapi.InlineKeyboardButton
	for _, day := range days {
		dayEvents := calendar.EventsOn(day, events)
		sb.WriteString(fmt.Sprintf("**%s**", day.Format("Mon 2")))
		if len(dayEvents) == 0 {
			sb.WriteString(" — free\n")
			continue
		}
		sb.WriteString("\n")
		for _, ev := range dayEvents {
			sb.WriteString("  " + eventLine(ev, sess.DarkMode) + "\n")
		}
		label := fmt.Sprintf("%s (%d)", day.Format("Mon"), len(dayEvents))
		dayButtons = append(dayButtons, tgbotapi.NewInlineKeyboardButtonData(label, "cal:day:"+day.Format(dayKey)))
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("◀", "cal:wprev:"+ref.Format(dayKey)),
			tgbotapi.NewInlineKeyboardButtonData("Month", "cal:month:"+ref.Format(monthKey)),
			tgbotapi.NewInlineKeyboardButtonData("▶", "cal:wnext:"+ref.Format(dayKey)),
		},
	}
	for i := 0; i < len(dayButtons); i += 4 {
		end := i + 4
		if end > len(dayButtons) {
			end = len(dayButtons)
		}
		rows = append(rows, dayButtons[i:end])
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if messageID == 0 {
		h.sendMarkdownWithKeyboard(chatID, sb.String(), keyboard)
		return
	}
	h.editMarkdown(chatID, messageID, sb.String(), &keyboard)
}

// eventLine is the one-line collapsed representation of an event.
func eventLine(ev models.Event, dark bool) string {
	var when string
	switch {
	case ev.StartTime.IsZero():
		when = "--:--"
	case ev.StartTime.Equal(ev.EndTime.Time):
		when = ev.StartTime.Format("15:04")
	default:
		when = ev.StartTime.Format("15:04") + "–" + ev.EndTime.Format("15:04")
	}
	return fmt.Sprintf("%s %s %s", typeDot(dark, ev.Type()), when, ev.Title)
}
