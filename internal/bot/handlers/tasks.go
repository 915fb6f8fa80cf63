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

func (h *Handlers) handleTasks(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	tasks, err := h.backend.ListTasks(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to fetch tasks: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load your tasks, please try again.")
		return
	}

	filter := strings.TrimSpace(msg.CommandArguments())
	now := time.Now()
	filtered := filterTasks(tasks, filter, now)

	if len(filtered) == 0 {
		if filter == "" {
			h.sendMessage(msg.Chat.ID, "No tasks yet. Create one with /newtask <description>.")
		} else {
			h.sendMessage(msg.Chat.ID, "No tasks match \""+filter+"\".")
		}
		return
	}

	var sb strings.Builder
	if filter == "" {
		sb.WriteString("**Your tasks**\n\n")
	} else {
		sb.WriteString("**Tasks — " + filter + "**\n\n")
	}
	var buttons []tgbotapi.InlineKeyboardButton
	for _, t := range filtered {
		sb.WriteString(taskLine(&t, now) + "\n")
		if !t.IsCompleted() && len(buttons) < 8 {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
				"✓ "+truncate(t.Title, 20), "task:done:"+string(t.ID)))
		}
	}
	sb.WriteString("\nFilters: today, overdue, completed, or a subject name.")

	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(buttons); i += 2 {
		end := i + 2
		if end > len(buttons) {
			end = len(buttons)
		}
		rows = append(rows, buttons[i:end])
	}
	if len(rows) == 0 {
		h.sendMarkdown(msg.Chat.ID, sb.String())
		return
	}
	h.sendMarkdownWithKeyboard(msg.Chat.ID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// filterTasks mirrors the task list filters: all, due today, overdue,
// completed, or by subject.
func filterTasks(tasks []models.Task, filter string, now time.Time) []models.Task {
	if filter == "" {
		return tasks
	}
	var out []models.Task
	for _, t := range tasks {
		switch strings.ToLower(filter) {
		case "today":
			if t.IsDueToday(now) {
				out = append(out, t)
			}
		case "overdue":
			if t.IsOverdue(now) {
				out = append(out, t)
			}
		case "completed":
			if t.IsCompleted() {
				out = append(out, t)
			}
		default:
			if strings.EqualFold(t.Subject, filter) {
				out = append(out, t)
			}
		}
	}
	return out
}

func taskLine(t *models.Task, now time.Time) string {
	mark := "☐"
	if t.IsCompleted() {
		mark = "☑"
	}
	line := fmt.Sprintf("%s `%s` %s", mark, t.ID, t.Title)
	var extras []string
	if t.Subject != "" {
		extras = append(extras, t.Subject)
	}
	if !t.DueDate.IsZero() {
		due := t.DueDate.Format("Jan 2")
		if t.IsOverdue(now) {
			due += " (overdue)"
		}
		extras = append(extras, due)
	}
	if t.Priority != "" {
		extras = append(extras, t.Priority)
	}
	if len(extras) > 0 {
		line += " — " + strings.Join(extras, " · ")
	}
	return line
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}

func (h *Handlers) handleTask(ctx context.Context, msg *tgbotapi.Message) {
	id := strings.TrimSpace(msg.CommandArguments())
	if id == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /task <id>")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	task, err := h.backend.GetTask(ctx, sess.AccessToken, models.ID(id))
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		if h.notFound(msg.Chat.ID, err, "Task") {
			return
		}
		log.Printf("Failed to fetch task: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load the task, please try again.")
		return
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("**" + task.Title + "**\n")
	sb.WriteString("Status: " + strings.ReplaceAll(task.Status, "_", " ") + "\n")
	if task.Subject != "" {
		sb.WriteString("Subject: " + task.Subject + "\n")
	}
	if task.Priority != "" {
		sb.WriteString("Priority: " + task.Priority + "\n")
	}
	if !task.DueDate.IsZero() {
		sb.WriteString("Due: " + task.DueDate.Format("Monday, Jan 2"))
		if task.IsOverdue(now) {
			sb.WriteString(" — **overdue**")
		}
		sb.WriteString("\n")
	}
	if task.CompletionPercentage != nil && !task.IsCompleted() {
		sb.WriteString(progressBar(*task.CompletionPercentage) + "\n")
	}
	if task.Notes != "" {
		sb.WriteString("\n" + task.Notes + "\n")
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

func progressBar(percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent / 10
	return strings.Repeat("▰", filled) + strings.Repeat("▱", 10-filled) + fmt.Sprintf(" %d%%", percent)
}

func (h *Handlers) handleNewTask(ctx context.Context, msg *tgbotapi.Message) {
	description := strings.TrimSpace(msg.CommandArguments())
	if description == "" {
		h.sendMessage(msg.Chat.ID, "Usage: /newtask <description>\nExample: /newtask finish the physics lab report by Thursday")
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

	if err := h.backend.CreateTask(ctx, sess.AccessToken, description); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to create task: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not create the task, please try again.")
		return
	}
	h.sendMessage(msg.Chat.ID, "Task created. See it with /tasks.")
}

func (h *Handlers) handleDelTask(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		h.sendMessage(msg.Chat.ID, "Usage: /deltask <id> [id...]")
		return
	}
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}

	ids := make([]models.ID, 0, len(args))
	for _, a := range args {
		ids = append(ids, models.ID(a))
	}
	if err := h.backend.DeleteTasks(ctx, sess.AccessToken, ids); err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to delete tasks: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not delete, please try again.")
		return
	}
	if len(ids) == 1 {
		h.sendMessage(msg.Chat.ID, "Task deleted.")
	} else {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("%d tasks deleted.", len(ids)))
	}
}

// handleTaskCallback completes a task from the list's checkmark buttons.
func (h *Handlers) handleTaskCallback(ctx context.Context, callback *tgbotapi.CallbackQuery, parts []string) {
	if len(parts) < 2 || parts[0] != "done" {
		return
	}
	chatID := callback.Message.Chat.ID
	sess, ok := h.requireLogin(ctx, chatID)
	if !ok {
		return
	}

	update := map[string]any{"status": models.TaskStatusCompleted}
	if err := h.backend.UpdateTask(ctx, sess.AccessToken, models.ID(parts[1]), update); err != nil {
		if h.authFailed(ctx, chatID, err) {
			return
		}
		log.Printf("Failed to complete task: %v", err)
		h.sendMessage(chatID, "Could not update the task, please try again.")
		return
	}
	h.sendMessage(chatID, "Done! ✅")
}

func (h *Handlers) handleDashboard(ctx context.Context, msg *tgbotapi.Message) {
	sess, ok := h.requireLogin(ctx, msg.Chat.ID)
	if !ok {
		return
	}
	dash, err := h.backend.Dashboard(ctx, sess.AccessToken)
	if err != nil {
		if h.authFailed(ctx, msg.Chat.ID, err) {
			return
		}
		log.Printf("Failed to fetch dashboard: %v", err)
		h.sendMessage(msg.Chat.ID, "Could not load the dashboard, please try again.")
		return
	}

	now := time.Now()
	var sb strings.Builder
	sb.WriteString("**Dashboard**\n\n")
	sb.WriteString(fmt.Sprintf("Tasks next 30 days: %d\n", len(dash.TasksNextMonth)))
	sb.WriteString(fmt.Sprintf("Events next 30 days: %d\n", len(dash.EventsNextMonth)))
	sb.WriteString(fmt.Sprintf("Notes: %d\n", dash.NotesCount))
	sb.WriteString(fmt.Sprintf("Study plans: %d\n", len(dash.StudyPlans)))

	if len(dash.TasksNextMonth) > 0 {
		sb.WriteString("\n**Upcoming tasks**\n")
		for i, t := range dash.TasksNextMonth {
			if i == 5 {
				break
			}
			sb.WriteString(taskLine(&t, now) + "\n")
		}
	}
	if len(dash.EventsNextMonth) > 0 {
		sb.WriteString("\n**Upcoming events**\n")
		for i, ev := range dash.EventsNextMonth {
			if i == 5 {
				break
			}
			sb.WriteString(ev.StartTime.Format("Jan 2") + "  " + eventLine(ev, sess.DarkMode) + "\n")
		}
	}
	h.sendMarkdown(msg.Chat.ID, sb.String())
}

// notFound replies with a plain not-found message when err is ErrNotFound.
// No distinction is made between deleted server-side and never-existed.
func (h *Handlers) notFound(chatID int64, err error, what string) bool {
	if !isNotFound(err) {
		return false
	}
	h.sendMessage(chatID, what+" not found.")
	return true
}
